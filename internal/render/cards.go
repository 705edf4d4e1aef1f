// Package render turns session state into HTML: the wizard form, result
// cards, the dashboard and the chat panel. All dynamic text goes through
// html/template and is escaped for its context.
package render

import (
	"strings"
	"time"

	"github.com/kalambet/careermentor/internal/analysis"
)

const (
	// FallbackResourceURL replaces resource links that are not http(s).
	FallbackResourceURL = "https://www.w3schools.com/"
	// DefaultResourceTitle is used for resources without a title.
	DefaultResourceTitle = "Learning Resource"

	NoMatchesTitle  = "No matches found"
	NoMatchesDetail = "Try adding more skills or broadening your interests."

	NoMatchedSkills = "None"
	NoMissingSkills = "You have all required skills!"
)

// CardView is one role card ready for the template.
type CardView struct {
	Index   int
	DelayMS int64
	Title   string
	Badge   string
	Detail  string
	Matched string
	Missing string
	Weeks   []WeekView
	Links   []analysis.Resource
}

// WeekView is one learning path entry.
type WeekView struct {
	Label string
	Goals string
	Tasks string
}

// BuildCards converts roles into cards in input order. Card i is revealed
// i*stagger after the first.
func BuildCards(roles []analysis.Role, stagger time.Duration) []CardView {
	cards := make([]CardView, 0, len(roles))
	for i, r := range roles {
		cards = append(cards, BuildCard(i, r, stagger))
	}
	return cards
}

// BuildCard converts a single role.
func BuildCard(i int, r analysis.Role, stagger time.Duration) CardView {
	c := CardView{
		Index:   i,
		DelayMS: (time.Duration(i) * stagger).Milliseconds(),
		Title:   r.Role,
		Badge:   r.MatchLabel() + "% Match",
		Detail:  r.Description,
		Matched: joinOr(r.MatchedSkills, NoMatchedSkills),
		Missing: joinOr(r.MissingSkills, NoMissingSkills),
		Links:   SanitizeResources(r.Resources),
	}
	for _, w := range r.LearningPath {
		c.Weeks = append(c.Weeks, WeekView{
			Label: "Week " + w.WeekLabel(),
			Goals: strings.Join(w.Goals, ", "),
			Tasks: strings.Join(w.Tasks, ", "),
		})
	}
	return c
}

// SanitizeResources keeps a link only when it starts with "http"; anything
// else (javascript:, data:, relative paths, empty) points at the fallback.
func SanitizeResources(in []analysis.Resource) []analysis.Resource {
	out := make([]analysis.Resource, 0, len(in))
	for _, r := range in {
		url := strings.TrimSpace(r.URL)
		if !strings.HasPrefix(strings.ToLower(url), "http") {
			url = FallbackResourceURL
		}
		title := r.Title
		if strings.TrimSpace(title) == "" {
			title = DefaultResourceTitle
		}
		out = append(out, analysis.Resource{Title: title, URL: url})
	}
	return out
}

func joinOr(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}
