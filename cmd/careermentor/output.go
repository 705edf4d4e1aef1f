package main

import (
	"fmt"
	"io"
	"os"

	"github.com/kalambet/careermentor/internal/render"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

func printStep(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+msg))
}

// printCards writes result cards as plain text.
func printCards(w io.Writer, cards []render.CardView) {
	if len(cards) == 0 {
		fmt.Fprintf(w, "%s\n%s\n", colorize(colorYellow, render.NoMatchesTitle), render.NoMatchesDetail)
		return
	}
	for i, c := range cards {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%d. %s  %s\n", i+1, colorize(colorBold, c.Title), colorize(colorGreen, "["+c.Badge+"]"))
		if c.Detail != "" {
			fmt.Fprintf(w, "   %s\n", c.Detail)
		}
		fmt.Fprintf(w, "   Matched skills: %s\n", c.Matched)
		fmt.Fprintf(w, "   Skills to learn: %s\n", c.Missing)
		for _, wk := range c.Weeks {
			fmt.Fprintf(w, "   %s: goals: %s; tasks: %s\n", wk.Label, wk.Goals, wk.Tasks)
		}
		for _, r := range c.Links {
			fmt.Fprintf(w, "   - %s <%s>\n", r.Title, r.URL)
		}
	}
}
