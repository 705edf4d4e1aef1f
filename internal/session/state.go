// Package session keeps one explicit application-state object per browser
// session: wizard position, form fields, rendered roles, dashboard goals
// and the chat transcript.
package session

import (
	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/dashboard"
	"github.com/kalambet/careermentor/internal/profile"
	"github.com/kalambet/careermentor/internal/wizard"
)

// State is the whole UI state of one session.
type State struct {
	ID     string         `json:"id"`
	Step   int            `json:"step"`
	Fields profile.Fields `json:"fields"`

	// Busy is set while an analysis request is in flight.
	Busy bool `json:"busy"`
	// AnalysisID identifies the in-flight submission while Busy.
	AnalysisID string `json:"analysis_id,omitempty"`
	// Submitted switches the view from the form to the results.
	Submitted bool            `json:"submitted"`
	Roles     []analysis.Role `json:"roles,omitempty"`
	Summary   string          `json:"summary,omitempty"`
	// Generation increments whenever rendered results are replaced or
	// cleared, so pending staggered output can tell it is stale.
	Generation int `json:"generation"`

	Goals []dashboard.Goal `json:"goals"`

	ChatOpen   bool        `json:"chat_open"`
	Transcript []chat.Turn `json:"transcript,omitempty"`
	Typing     int         `json:"typing"`
}

func newState(id string, prefill bool) State {
	s := State{
		ID:    id,
		Step:  wizard.FirstStep,
		Goals: dashboard.DefaultGoals(),
	}
	if prefill {
		s.Fields = profile.DemoFields()
	}
	return s
}

func (s State) pending(token string) bool {
	return s.Busy && token != "" && s.AnalysisID == token
}

// Progress returns the wizard progress indicator for the current step.
func (s State) Progress() wizard.Progress {
	return wizard.ProgressFor(s.Step)
}

// Dashboard populates the dashboard from the fields and roles currently
// held. Before a submission the role list is empty and the dashboard shows
// its no-matches placeholder.
func (s State) Dashboard() dashboard.Dashboard {
	var roles []analysis.Role
	if s.Submitted {
		roles = s.Roles
	}
	return dashboard.Populate(s.Fields, roles, s.Goals)
}

// restart returns the form to step 1 with empty fields and no results. The
// chat panel and its transcript are independent of the form and survive.
func (s State) restart() State {
	return State{
		ID:         s.ID,
		Step:       wizard.FirstStep,
		Generation: s.Generation + 1,
		Goals:      dashboard.DefaultGoals(),
		ChatOpen:   s.ChatOpen,
		Transcript: s.Transcript,
		Typing:     s.Typing,
	}
}
