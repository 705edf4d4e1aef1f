// Package resume extracts known skills from an uploaded resume so the
// skills step can be prefilled.
package resume

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kalambet/careermentor/internal/profile"
)

// skillKeywords maps a canonical skill to the words that indicate it.
var skillKeywords = map[string][]string{
	"python":           {"python", "py", "django", "flask"},
	"java":             {"java", "spring", "j2ee"},
	"javascript":       {"javascript", "js", "react", "angular", "vue", "node"},
	"html":             {"html", "html5"},
	"css":              {"css", "css3", "sass", "scss"},
	"sql":              {"sql", "mysql", "postgresql", "mongodb", "database"},
	"machine learning": {"machine learning", "ml", "ai", "tensorflow", "pytorch", "keras"},
	"data analysis":    {"data analysis", "pandas", "numpy", "analytics"},
	"cloud":            {"aws", "azure", "gcp", "cloud"},
	"devops":           {"docker", "kubernetes", "jenkins", "ci/cd"},
}

var skillPatterns = compileSkillPatterns()

type skillPattern struct {
	skill    string
	patterns []*regexp.Regexp
}

func compileSkillPatterns() []skillPattern {
	skills := make([]string, 0, len(skillKeywords))
	for s := range skillKeywords {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	out := make([]skillPattern, 0, len(skills))
	for _, s := range skills {
		sp := skillPattern{skill: s}
		for _, kw := range skillKeywords[s] {
			sp.patterns = append(sp.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		out = append(out, sp)
	}
	return out
}

// ExtractSkills returns the canonical skills mentioned in text, sorted.
func ExtractSkills(text string) []string {
	text = strings.ToLower(text)
	var found []string
	for _, sp := range skillPatterns {
		for _, re := range sp.patterns {
			if re.MatchString(text) {
				found = append(found, sp.skill)
				break
			}
		}
	}
	return found
}

// MergeSkills appends the extracted skills that are not already present
// (case-insensitively) to the raw comma-separated skills field.
func MergeSkills(raw string, extracted []string) string {
	have := make(map[string]bool)
	var parts []string
	for _, p := range profile.SplitList(raw) {
		parts = append(parts, p)
		have[strings.ToLower(p)] = true
	}
	for _, s := range extracted {
		if !have[strings.ToLower(s)] {
			parts = append(parts, s)
			have[strings.ToLower(s)] = true
		}
	}
	return strings.Join(parts, ", ")
}
