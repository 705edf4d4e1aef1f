package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html"
)

// MaxUploadSize bounds an uploaded resume.
const MaxUploadSize = 5 << 20

// ErrUnreadable is returned when no text could be recovered from a file.
var ErrUnreadable = errors.New("could not read any text from the resume")

// Text returns the plain text of an uploaded resume. The format is chosen
// from the file extension, falling back to content sniffing.
func Text(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case strings.EqualFold(filepath.Ext(filename), ".pdf") || bytes.HasPrefix(data, []byte("%PDF-")):
		text, err = pdfText(data)
	case isHTML(filename, data):
		text, err = htmlText(data)
	default:
		text = plainText(data)
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrUnreadable
	}
	return text, nil
}

func pdfText(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed files.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: malformed pdf: %v", ErrUnreadable, p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	rd, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting pdf text: %w", err)
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return string(b), nil
}

func isHTML(filename string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm":
		return true
	}
	head := strings.ToLower(string(data[:min(len(data), 512)]))
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}

func htmlText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	var sb strings.Builder
	collectText(doc, &sb)
	return sb.String(), nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript", "head":
			return
		}
	}
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			sb.WriteString(t)
			sb.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// plainText decodes UTF-8, falling back to Latin-1 for invalid input.
func plainText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	runes := make([]rune, len(data))
	for i, b := range data {
		runes[i] = rune(b)
	}
	return string(runes)
}
