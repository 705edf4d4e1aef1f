package profile

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{" Python, , SQL ", []string{"Python", "SQL"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"Go", []string{"Go"}},
		{"a,b ,  c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		got := SplitList(tt.in)
		if got == nil {
			t.Fatalf("SplitList(%q) returned nil", tt.in)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SplitList(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestBuild_Trims(t *testing.T) {
	p := Build(Fields{
		Name:      "  Aryan Soni ",
		Email:     " aryan.soni@example.com\n",
		Skills:    "Python, SQL",
		Interests: "AI,  Web ",
	})
	if p.Name != "Aryan Soni" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Email != "aryan.soni@example.com" {
		t.Errorf("Email = %q", p.Email)
	}
	if diff := cmp.Diff([]string{"Python", "SQL"}, p.Skills); diff != "" {
		t.Errorf("Skills mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"AI", "Web"}, p.Interests); diff != "" {
		t.Errorf("Interests mismatch (-want +got):\n%s", diff)
	}
}

func TestPayload_LowerCasesLists(t *testing.T) {
	p := Build(Fields{Name: "A", Skills: "Python, SQL", Interests: "Data Analysis"})
	payload := p.Payload()

	if got := strings.Join(payload.Skills, ","); got != "python,sql" {
		t.Errorf("Skills = %q, want python,sql", got)
	}
	if got := strings.Join(payload.Interests, ","); got != "data analysis" {
		t.Errorf("Interests = %q", got)
	}
	// The resume text keeps the user's casing.
	if !strings.Contains(payload.ResumeText, "Skills: Python, SQL\n") {
		t.Errorf("ResumeText missing skills line:\n%s", payload.ResumeText)
	}
}

func TestResumeText_Lines(t *testing.T) {
	text := Build(DemoFields()).ResumeText()
	for _, prefix := range []string{"Name: ", "Email: ", "Education: ", "Skills: ", "Projects: ", "Interests: "} {
		if !strings.Contains(text, "\n"+prefix) {
			t.Errorf("ResumeText missing %q line", prefix)
		}
	}
}
