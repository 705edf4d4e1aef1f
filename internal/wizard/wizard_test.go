package wizard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/profile"
)

func validFields() profile.Fields {
	return profile.Fields{
		Name:   "Aryan Soni",
		Email:  "aryan.soni@example.com",
		Skills: "Python, SQL",
	}
}

func TestValidEmail(t *testing.T) {
	accepted := []string{"a@b.co", "aryan.soni@example.com", "x+y@sub.domain.org"}
	rejected := []string{"", "a@b", "a b@c.com", "a@b c.com", "@b.co", "a@.", "a@@b.co"}

	for _, s := range accepted {
		assert.Truef(t, ValidEmail(s), "ValidEmail(%q)", s)
	}
	for _, s := range rejected {
		assert.Falsef(t, ValidEmail(s), "ValidEmail(%q)", s)
	}
}

func TestCheck_PerStep(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		step    int
		fields  profile.Fields
		wantMsg string
	}{
		{"blank name", 1, profile.Fields{Name: "   "}, "Please enter your name"},
		{"name ok", 1, profile.Fields{Name: "A"}, ""},
		{"empty email", 2, profile.Fields{}, "Please enter a valid email address"},
		{"bad email", 2, profile.Fields{Email: "a@b"}, "Please enter a valid email address"},
		{"padded email ok", 2, profile.Fields{Email: "  a@b.co "}, ""},
		{"step 3 unchecked", 3, profile.Fields{}, ""},
		{"blank skills", 4, profile.Fields{Skills: " \t"}, "Please enter at least one skill"},
		// Validated on the raw string, not per item.
		{"commas only pass", 4, profile.Fields{Skills: ", ,"}, ""},
		{"step 5 unchecked", 5, profile.Fields{}, ""},
		{"step 6 unchecked", 6, profile.Fields{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Check(tt.step, tt.fields)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.step, verr.Step)
			assert.Equal(t, tt.wantMsg, verr.Message)
		})
	}
}

func TestAdvance_InvalidLeavesStep(t *testing.T) {
	v := NewValidator()
	for step := FirstStep; step <= LastStep; step++ {
		before := ProgressFor(step)
		next, err := Advance(v, step, profile.Fields{})
		if err == nil {
			continue
		}
		assert.Equal(t, step, next, "step %d moved on failure", step)
		assert.Equal(t, before, ProgressFor(next), "progress changed on failure at step %d", step)
	}
}

func TestAdvance_Valid(t *testing.T) {
	v := NewValidator()
	f := validFields()
	step := FirstStep
	for i := 0; i < 10; i++ {
		next, err := Advance(v, step, f)
		require.NoError(t, err)
		step = next
	}
	assert.Equal(t, LastStep, step, "advance must stop at the last step")
}

func TestRetreat(t *testing.T) {
	assert.Equal(t, 3, Retreat(4))
	assert.Equal(t, FirstStep, Retreat(FirstStep))
	assert.Equal(t, LastStep, Retreat(99))
}

func TestProgressFor(t *testing.T) {
	p := ProgressFor(2)
	assert.Equal(t, "33.33%", p.Width())
	require.Len(t, p.Markers, LastStep)
	assert.True(t, p.Markers[0].Active)
	assert.True(t, p.Markers[1].Active)
	assert.False(t, p.Markers[2].Active)

	assert.Equal(t, "100%", ProgressFor(6).Width())
	assert.Equal(t, 1, ProgressFor(-3).Step)
}

type fakeAnalyzer struct {
	resp  *analysis.Response
	err   error
	calls int
	got   profile.Payload
}

func (f *fakeAnalyzer) AnalyzeProfile(_ context.Context, p profile.Payload) (*analysis.Response, error) {
	f.calls++
	f.got = p
	return f.resp, f.err
}

type fakeStore struct {
	busy      bool
	begun     int
	token     string
	finished  []string
	completed *analysis.Response
	aborted   int
}

func (s *fakeStore) BeginAnalysis(context.Context, string) (string, error) {
	if s.busy {
		return "", ErrBusy
	}
	s.busy = true
	s.begun++
	s.token = fmt.Sprintf("t%d", s.begun)
	return s.token, nil
}

func (s *fakeStore) CompleteAnalysis(_ context.Context, _, token string, resp *analysis.Response) error {
	s.finished = append(s.finished, token)
	s.busy = false
	s.completed = resp
	return nil
}

func (s *fakeStore) AbortAnalysis(_ context.Context, _, token string) error {
	s.finished = append(s.finished, token)
	s.busy = false
	s.aborted++
	return nil
}

func TestSubmit_Success(t *testing.T) {
	a := &fakeAnalyzer{resp: &analysis.Response{Roles: []analysis.Role{{Role: "Data Analyst"}}}}
	store := &fakeStore{}
	s := NewSubmitter(NewValidator(), a, store)

	resp, err := s.Submit(context.Background(), "sess", validFields())
	require.NoError(t, err)
	assert.Len(t, resp.Roles, 1)
	assert.Same(t, resp, store.completed)
	assert.False(t, store.busy)
	assert.Equal(t, []string{"python", "sql"}, a.got.Skills)
	assert.Equal(t, []string{"t1"}, store.finished, "completion carries the begin token")
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	a := &fakeAnalyzer{}
	store := &fakeStore{}
	s := NewSubmitter(NewValidator(), a, store)

	f := validFields()
	f.Email = "not-an-email"
	_, err := s.Submit(context.Background(), "sess", f)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Step)
	assert.Zero(t, a.calls)
	assert.False(t, store.busy)
}

func TestSubmit_FailureClearsBusy(t *testing.T) {
	a := &fakeAnalyzer{err: &analysis.StatusError{Endpoint: "/analyze_profile", Code: 500}}
	store := &fakeStore{}
	s := NewSubmitter(NewValidator(), a, store)

	_, err := s.Submit(context.Background(), "sess", validFields())
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.False(t, store.busy)
	assert.Equal(t, 1, store.aborted)
	assert.Equal(t, []string{"t1"}, store.finished)
	assert.Nil(t, store.completed)
}

func TestSubmit_Busy(t *testing.T) {
	a := &fakeAnalyzer{}
	store := &fakeStore{busy: true}
	s := NewSubmitter(NewValidator(), a, store)

	_, err := s.Submit(context.Background(), "sess", validFields())
	assert.True(t, errors.Is(err, ErrBusy))
	assert.Zero(t, a.calls)
}
