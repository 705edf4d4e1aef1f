package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/profile"
)

// ErrBusy is returned when a submission is already in flight for the session.
var ErrBusy = errors.New("analysis already in progress")

// SubmitFailedNotice is the notice shown when the analysis call fails.
const SubmitFailedNotice = "Failed to analyze profile. Please try again."

// SubmitError wraps a failed analysis call (network or non-2xx).
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string { return "analyzing profile: " + e.Err.Error() }
func (e *SubmitError) Unwrap() error { return e.Err }

// Analyzer performs the remote profile analysis.
type Analyzer interface {
	AnalyzeProfile(ctx context.Context, payload profile.Payload) (*analysis.Response, error)
}

// ResultStore records the submission lifecycle of a session.
type ResultStore interface {
	// BeginAnalysis marks the session busy, or returns ErrBusy. The token
	// names this submission in the calls that finish it.
	BeginAnalysis(ctx context.Context, sessionID string) (token string, err error)
	// CompleteAnalysis stores the response and clears busy, unless token is
	// no longer the session's pending submission.
	CompleteAnalysis(ctx context.Context, sessionID, token string, resp *analysis.Response) error
	// AbortAnalysis clears busy without touching any other state, unless
	// token is no longer the session's pending submission.
	AbortAnalysis(ctx context.Context, sessionID, token string) error
}

// Submitter runs the final-step submission: validate, build the payload,
// call the analysis service once, and hand the roles to the store.
type Submitter struct {
	validator *Validator
	analyzer  Analyzer
	store     ResultStore
	logger    *slog.Logger
}

// NewSubmitter creates a Submitter.
func NewSubmitter(v *Validator, a Analyzer, store ResultStore) *Submitter {
	return &Submitter{
		validator: v,
		analyzer:  a,
		store:     store,
		logger:    slog.Default(),
	}
}

// Submit validates f and, on success, analyzes it. Errors are a
// *ValidationError, ErrBusy, a *SubmitError, or a store failure.
func (s *Submitter) Submit(ctx context.Context, sessionID string, f profile.Fields) (*analysis.Response, error) {
	// Earlier steps can be skipped by posting directly to submit.
	if err := s.validator.CheckAll(f); err != nil {
		return nil, err
	}

	token, err := s.store.BeginAnalysis(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	payload := profile.Build(f).Payload()
	resp, err := s.analyzer.AnalyzeProfile(ctx, payload)
	if err != nil {
		s.logger.Error("error analyzing profile", "session", sessionID, "error", err)
		if abortErr := s.store.AbortAnalysis(context.WithoutCancel(ctx), sessionID, token); abortErr != nil {
			s.logger.Error("failed to clear busy state", "session", sessionID, "error", abortErr)
		}
		return nil, &SubmitError{Err: err}
	}

	if err := s.store.CompleteAnalysis(context.WithoutCancel(ctx), sessionID, token, resp); err != nil {
		return nil, fmt.Errorf("storing analysis: %w", err)
	}
	s.logger.Info("profile analyzed", "session", sessionID, "roles", len(resp.Roles))
	return resp, nil
}
