package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Response is the body returned by POST /analyze_profile.
type Response struct {
	Roles          []Role          `json:"roles"`
	ProfileSummary json.RawMessage `json:"profile_summary,omitempty"`
}

// Role is one recommended career role. Every field is optional on the wire;
// missing values are rendered with defaults rather than rejected.
type Role struct {
	Role            string     `json:"role"`
	Description     string     `json:"description"`
	Score           *float64   `json:"score,omitempty"`
	MatchPercentage *float64   `json:"match_percentage,omitempty"`
	MatchedSkills   []string   `json:"matched_skills"`
	MissingSkills   []string   `json:"missing_skills"`
	LearningPath    []WeekPlan `json:"learning_path"`
	Resources       []Resource `json:"resources"`
}

// WeekPlan is one entry of a role's learning path.
type WeekPlan struct {
	Week  float64  `json:"week"`
	Goals []string `json:"goals"`
	Tasks []string `json:"tasks"`
}

// Resource is an external learning link attached to a role.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ChatRequest is the body sent to POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the body returned by POST /chat. Either field may be absent.
type ChatReply struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// Match returns the role's match value, preferring match_percentage over
// score. A zero match_percentage falls through to score when one is set.
func (r Role) Match() float64 {
	switch {
	case r.MatchPercentage != nil && *r.MatchPercentage != 0:
		return *r.MatchPercentage
	case r.Score != nil:
		return *r.Score
	case r.MatchPercentage != nil:
		return *r.MatchPercentage
	}
	return 0
}

// MatchLabel formats Match the way the result badge shows it, e.g. "87".
func (r Role) MatchLabel() string {
	return FormatNumber(r.Match())
}

// WeekLabel formats the week number without a trailing ".0".
func (w WeekPlan) WeekLabel() string {
	return FormatNumber(w.Week)
}

// FormatNumber prints n with the shortest representation that round-trips.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// SummaryText renders profile_summary for display. The service documents it
// as a string but has been seen returning an object of counters; both are
// accepted, and objects become sorted "key: value" lines.
func (r Response) SummaryText() string {
	raw := strings.TrimSpace(string(r.ProfileSummary))
	if raw == "" || raw == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(r.ProfileSummary, &s); err == nil {
		return s
	}

	var obj map[string]any
	if err := json.Unmarshal(r.ProfileSummary, &obj); err != nil {
		return raw
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, summaryValue(obj[k])))
	}
	return strings.Join(lines, "\n")
}

func summaryValue(v any) string {
	switch val := v.(type) {
	case float64:
		return FormatNumber(val)
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = summaryValue(p)
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}
