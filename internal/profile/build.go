package profile

import (
	"fmt"
	"strings"
)

// SplitList splits comma-separated text, trims each segment and drops the
// empty ones. The result is never nil.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Build derives a Profile from the raw field text.
func Build(f Fields) Profile {
	return Profile{
		Name:      strings.TrimSpace(f.Name),
		Email:     strings.TrimSpace(f.Email),
		Education: strings.TrimSpace(f.Education),
		Skills:    SplitList(f.Skills),
		Projects:  strings.TrimSpace(f.Projects),
		Interests: SplitList(f.Interests),
	}
}

// ResumeText renders the profile as the multi-line summary the analysis
// service reads as a resume.
func (p Profile) ResumeText() string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	fmt.Fprintf(&b, "Education: %s\n", p.Education)
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&b, "Projects: %s\n", p.Projects)
	fmt.Fprintf(&b, "Interests: %s\n", strings.Join(p.Interests, ", "))
	return b.String()
}

// Payload builds the analysis request body. Skills and interests are sent
// lower-cased.
func (p Profile) Payload() Payload {
	return Payload{
		ResumeText: p.ResumeText(),
		Skills:     lowerAll(p.Skills),
		Interests:  lowerAll(p.Interests),
	}
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
