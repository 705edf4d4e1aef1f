package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/dashboard"
	"github.com/kalambet/careermentor/internal/profile"
	"github.com/kalambet/careermentor/internal/session"
	"github.com/kalambet/careermentor/internal/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	SubmitLabel = "Get Recommendations"
	BusyLabel   = "Analyzing..."
)

// StepInfo describes one wizard page.
type StepInfo struct {
	Number int
	Title  string
	Field  string
	Hint   string
}

// Steps lists the wizard pages in order. Each collects one field.
var Steps = []StepInfo{
	{Number: 1, Title: "What's your name?", Field: "name"},
	{Number: 2, Title: "What's your email?", Field: "email"},
	{Number: 3, Title: "Tell us about your education", Field: "education", Hint: "Degree, institution, graduation year"},
	{Number: 4, Title: "What are your skills?", Field: "skills", Hint: "Separate skills with commas"},
	{Number: 5, Title: "What projects have you worked on?", Field: "projects"},
	{Number: 6, Title: "What are your interests?", Field: "interests", Hint: "Separate interests with commas"},
}

// View is the data behind every page.
type View struct {
	Step        int
	Steps       []StepInfo
	Progress    wizard.Progress
	Fields      profile.Fields
	Busy        bool
	SubmitLabel string

	// Notice is a blocking user-facing message, e.g. a validation failure.
	Notice string

	Submitted  bool
	Summary    string
	Cards      []CardView
	NoMatches  bool
	Generation int

	Dashboard dashboard.Dashboard

	ChatOpen   bool
	Transcript []chat.Turn
	Typing     bool
}

// NewView derives the page data from a session.
func NewView(s session.State, stagger time.Duration) View {
	v := View{
		Step:        s.Step,
		Steps:       Steps,
		Progress:    s.Progress(),
		Fields:      s.Fields,
		Busy:        s.Busy,
		SubmitLabel: SubmitLabel,
		Submitted:   s.Submitted,
		Summary:     s.Summary,
		Generation:  s.Generation,
		Dashboard:   s.Dashboard(),
		ChatOpen:    s.ChatOpen,
		Transcript:  s.Transcript,
		Typing:      s.Typing > 0,
	}
	if s.Busy {
		v.SubmitLabel = BusyLabel
	}
	if s.Submitted {
		v.Cards = BuildCards(s.Roles, stagger)
		v.NoMatches = len(v.Cards) == 0
	}
	return v
}

// FieldValue returns the current value of a named form field.
func (v View) FieldValue(name string) string {
	switch name {
	case "name":
		return v.Fields.Name
	case "email":
		return v.Fields.Email
	case "education":
		return v.Fields.Education
	case "skills":
		return v.Fields.Skills
	case "projects":
		return v.Fields.Projects
	case "interests":
		return v.Fields.Interests
	}
	return ""
}

// PlaceholderView is the card shown when there are no roles.
type PlaceholderView struct {
	Title  string
	Detail string
}

// NoMatches returns the placeholder card content.
func NoMatches() PlaceholderView {
	return PlaceholderView{Title: NoMatchesTitle, Detail: NoMatchesDetail}
}

// Placeholder exposes NoMatches to templates.
func (View) Placeholder() PlaceholderView { return NoMatches() }

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	funcs := template.FuncMap{
		"add": func(a, b int) int { return a + b },
	}
	tmpl, err := template.New("careermentor").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Page renders the wizard or, after a submission, the results.
func (r *Renderer) Page(w io.Writer, v View) error {
	return r.execute(w, "page", v)
}

// DashboardPage renders the dashboard.
func (r *Renderer) DashboardPage(w io.Writer, v View) error {
	return r.execute(w, "dashboard-page", v)
}

// Card renders a single result card fragment.
func (r *Renderer) Card(w io.Writer, c CardView) error {
	return r.execute(w, "card", c)
}

// Placeholder renders the no-matches card fragment.
func (r *Renderer) Placeholder(w io.Writer) error {
	return r.execute(w, "no-matches", NoMatches())
}

// Static returns the stylesheet file system.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}
