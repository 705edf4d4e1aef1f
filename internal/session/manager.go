package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/storage"
	"github.com/kalambet/careermentor/internal/wizard"
)

// Store defines the storage operations the Manager needs.
// Implemented by storage.Store.
type Store interface {
	SaveSession(ctx context.Context, s storage.Session) error
	GetSession(ctx context.Context, id string) (storage.Session, error)
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Manager loads and mutates session state. All mutations are serialized,
// which gives every session the single-threaded view a browser tab has.
// Network calls must happen outside Update.
type Manager struct {
	store   Store
	clock   Clock
	prefill bool

	mu sync.Mutex
}

// NewManager creates a Manager. When prefill is set, new sessions start
// with the demo form entries.
func NewManager(store Store, prefill bool) *Manager {
	return &Manager{store: store, clock: realClock{}, prefill: prefill}
}

// NewManagerWithClock creates a Manager with a custom clock (for testing).
func NewManagerWithClock(store Store, clock Clock, prefill bool) *Manager {
	return &Manager{store: store, clock: clock, prefill: prefill}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// Load returns the state for id, creating it on first use.
func (m *Manager) Load(ctx context.Context, id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx, id)
}

// Update applies fn to the state for id and saves the result. If fn
// returns an error nothing is saved and the error is returned.
func (m *Manager) Update(ctx context.Context, id string, fn func(*State) error) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(ctx, id)
	if err != nil {
		return State{}, err
	}
	if err := fn(&s); err != nil {
		return s, err
	}
	if err := m.save(ctx, s); err != nil {
		return State{}, err
	}
	return s, nil
}

// Restart clears the form and results and returns to step 1.
func (m *Manager) Restart(ctx context.Context, id string) (State, error) {
	return m.Update(ctx, id, func(s *State) error {
		*s = s.restart()
		return nil
	})
}

func (m *Manager) load(ctx context.Context, id string) (State, error) {
	row, err := m.store.GetSession(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return newState(id, m.prefill), nil
	}
	if err != nil {
		return State{}, fmt.Errorf("loading session %s: %w", id, err)
	}

	var s State
	if err := json.Unmarshal([]byte(row.StateJSON), &s); err != nil {
		return State{}, fmt.Errorf("decoding session %s: %w", id, err)
	}
	s.ID = id
	s.Step = wizard.Clamp(s.Step)
	return s, nil
}

func (m *Manager) save(ctx context.Context, s State) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", s.ID, err)
	}
	now := m.clock.Now()
	return m.store.SaveSession(ctx, storage.Session{
		ID:        s.ID,
		StateJSON: string(b),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// --- wizard.ResultStore ---

// BeginAnalysis marks the session busy or returns wizard.ErrBusy. The
// returned token identifies this submission to CompleteAnalysis and
// AbortAnalysis.
func (m *Manager) BeginAnalysis(ctx context.Context, id string) (string, error) {
	token := uuid.NewString()
	_, err := m.Update(ctx, id, func(s *State) error {
		if s.Busy {
			return wizard.ErrBusy
		}
		s.Busy = true
		s.AnalysisID = token
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// CompleteAnalysis replaces the rendered results with resp. A response for
// any submission other than the pending one is dropped: the session was
// restarted, possibly followed by a new submission.
func (m *Manager) CompleteAnalysis(ctx context.Context, id, token string, resp *analysis.Response) error {
	_, err := m.Update(ctx, id, func(s *State) error {
		if !s.pending(token) {
			return nil
		}
		s.Busy = false
		s.AnalysisID = ""
		s.Submitted = true
		s.Roles = resp.Roles
		s.Summary = resp.SummaryText()
		s.Generation++
		return nil
	})
	return err
}

// AbortAnalysis clears busy and leaves everything else untouched. It does
// nothing if token is no longer the pending submission.
func (m *Manager) AbortAnalysis(ctx context.Context, id, token string) error {
	_, err := m.Update(ctx, id, func(s *State) error {
		if !s.pending(token) {
			return nil
		}
		s.Busy = false
		s.AnalysisID = ""
		return nil
	})
	return err
}

// --- chat.TranscriptStore ---

// AppendTurn adds a bubble to the transcript.
func (m *Manager) AppendTurn(ctx context.Context, id string, turn chat.Turn) error {
	_, err := m.Update(ctx, id, func(s *State) error {
		s.Transcript = append(s.Transcript, turn)
		return nil
	})
	return err
}

// AdjustTyping changes the number of awaited replies. It never goes below 0.
func (m *Manager) AdjustTyping(ctx context.Context, id string, delta int) error {
	_, err := m.Update(ctx, id, func(s *State) error {
		s.Typing = max(0, s.Typing+delta)
		return nil
	})
	return err
}
