// Package dashboard builds the read-only summary view shown after
// recommendations: profile slots, per-role progress, skill tags, learning
// goals, a timeline and recommended actions.
package dashboard

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/profile"
)

var (
	// ErrExportNotImplemented is returned by Export.
	ErrExportNotImplemented = errors.New("export is not implemented yet")
	// ErrGoalNotFound is returned when toggling an unknown goal.
	ErrGoalNotFound = errors.New("goal not found")
	// ErrEmptyGoal is returned when adding a blank goal.
	ErrEmptyGoal = errors.New("goal text is empty")
)

// ExportNotice is the text shown when the user asks for an export.
const ExportNotice = "Export functionality is not implemented yet."

// Slot is a labelled read-only copy of a form field.
type Slot struct {
	Label string
	Value string
}

// RoleProgress is one career-progress bar.
type RoleProgress struct {
	Role    string
	Percent string
}

// Goal is a learning goal with a completion toggle.
type Goal struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TimelineEntry is one step of the suggested plan.
type TimelineEntry struct {
	Period string
	Title  string
	Detail string
}

// Dashboard is everything the dashboard view renders.
type Dashboard struct {
	Summary         []Slot
	Progress        []RoleProgress
	NoMatches       bool
	Skills          []string
	SkillsToDevelop []string
	Goals           []Goal
	Timeline        []TimelineEntry
	Actions         []string
}

var skillsToDevelop = []string{
	"Cloud Computing",
	"Docker",
	"System Design",
	"Data Structures & Algorithms",
	"Git & Version Control",
}

var defaultGoals = []string{
	"Complete an online course in your top recommended role",
	"Build a portfolio project using a new skill",
	"Update your resume with recent projects",
}

var timeline = []TimelineEntry{
	{Period: "Month 1", Title: "Foundations", Detail: "Close the most important skill gaps"},
	{Period: "Month 2", Title: "Projects", Detail: "Apply new skills in a portfolio project"},
	{Period: "Month 3", Title: "Networking", Detail: "Connect with professionals in your target role"},
	{Period: "Month 4", Title: "Applications", Detail: "Apply for internships and entry-level roles"},
}

var recommendedActions = []string{
	"Review the learning path for your top matched role",
	"Start one recommended resource this week",
	"Talk to the AI assistant about interview preparation",
}

// DefaultGoals returns fresh copies of the starting learning goals, all
// unchecked.
func DefaultGoals() []Goal {
	goals := make([]Goal, len(defaultGoals))
	for i, text := range defaultGoals {
		goals[i] = Goal{ID: uuid.NewString(), Text: text}
	}
	return goals
}

// Populate builds the dashboard from the current form fields, the roles
// currently shown (nil before any submission) and the session's goals.
func Populate(f profile.Fields, roles []analysis.Role, goals []Goal) Dashboard {
	d := Dashboard{
		Summary: []Slot{
			{Label: "Name", Value: f.Name},
			{Label: "Email", Value: f.Email},
			{Label: "Education", Value: f.Education},
			{Label: "Projects", Value: f.Projects},
		},
		NoMatches:       len(roles) == 0,
		Skills:          profile.SplitList(f.Skills),
		SkillsToDevelop: append([]string(nil), skillsToDevelop...),
		Goals:           append([]Goal(nil), goals...),
		Timeline:        append([]TimelineEntry(nil), timeline...),
		Actions:         append([]string(nil), recommendedActions...),
	}
	for _, r := range roles {
		d.Progress = append(d.Progress, RoleProgress{Role: r.Role, Percent: r.MatchLabel()})
	}
	return d
}

// AddGoal appends a new unchecked goal.
func AddGoal(goals []Goal, text string) ([]Goal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return goals, ErrEmptyGoal
	}
	return append(goals, Goal{ID: uuid.NewString(), Text: text}), nil
}

// ToggleGoal flips the completed marker of the goal with id.
func ToggleGoal(goals []Goal, id string) ([]Goal, error) {
	for i := range goals {
		if goals[i].ID == id {
			goals[i].Completed = !goals[i].Completed
			return goals, nil
		}
	}
	return goals, ErrGoalNotFound
}

// Export is a placeholder for a future report download.
func Export(Dashboard) ([]byte, error) {
	return nil, ErrExportNotImplemented
}
