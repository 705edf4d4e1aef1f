package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/storage"
	"github.com/kalambet/careermentor/internal/wizard"
)

func openManager(t *testing.T, prefill bool) (*Manager, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewManager(store, prefill), store
}

func TestLoad_NewSession(t *testing.T) {
	m, _ := openManager(t, false)
	s, err := m.Load(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, wizard.FirstStep, s.Step)
	assert.Empty(t, s.Fields.Name)
	assert.Len(t, s.Goals, 3)
	assert.False(t, s.Submitted)
}

func TestLoad_Prefill(t *testing.T) {
	m, _ := openManager(t, true)
	s, err := m.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Aryan Soni", s.Fields.Name)
}

func TestUpdate_PersistsAndRollsBackOnError(t *testing.T) {
	m, _ := openManager(t, false)
	ctx := context.Background()

	_, err := m.Update(ctx, "s1", func(s *State) error {
		s.Step = 3
		s.Fields.Name = "Ada"
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.Update(ctx, "s1", func(s *State) error {
		s.Step = 5
		return boom
	})
	require.ErrorIs(t, err, boom)

	s, err := m.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Step)
	assert.Equal(t, "Ada", s.Fields.Name)
}

func TestAnalysisLifecycle(t *testing.T) {
	m, _ := openManager(t, false)
	ctx := context.Background()

	tok, err := m.BeginAnalysis(ctx, "s")
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	_, err = m.BeginAnalysis(ctx, "s")
	assert.ErrorIs(t, err, wizard.ErrBusy)

	require.NoError(t, m.AbortAnalysis(ctx, "s", tok))
	s, _ := m.Load(ctx, "s")
	assert.False(t, s.Busy)
	assert.Empty(t, s.AnalysisID)
	assert.False(t, s.Submitted, "a failed call leaves no partial state")

	tok, err = m.BeginAnalysis(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, m.CompleteAnalysis(ctx, "s", tok, &analysis.Response{Roles: []analysis.Role{{Role: "ML Engineer"}}}))
	s, _ = m.Load(ctx, "s")
	assert.False(t, s.Busy)
	assert.True(t, s.Submitted)
	assert.Len(t, s.Roles, 1)
	assert.Equal(t, 1, s.Generation)
	assert.False(t, s.Dashboard().NoMatches)
}

func TestRestart(t *testing.T) {
	m, _ := openManager(t, false)
	ctx := context.Background()

	_, err := m.Update(ctx, "s", func(s *State) error {
		s.Step = 6
		s.Fields.Skills = "Go"
		s.Submitted = true
		s.Roles = []analysis.Role{{Role: "x"}}
		s.Generation = 4
		s.ChatOpen = true
		s.Transcript = []chat.Turn{{Sender: chat.SenderUser, Text: "hi"}}
		return nil
	})
	require.NoError(t, err)

	s, err := m.Restart(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, wizard.FirstStep, s.Step)
	assert.Empty(t, s.Fields.Skills)
	assert.False(t, s.Submitted)
	assert.Empty(t, s.Roles)
	assert.Equal(t, 5, s.Generation)
	assert.True(t, s.ChatOpen)
	assert.Len(t, s.Transcript, 1)
	assert.True(t, s.Dashboard().NoMatches)
}

func TestCompleteAfterRestartIsDropped(t *testing.T) {
	m, _ := openManager(t, false)
	ctx := context.Background()

	tok, err := m.BeginAnalysis(ctx, "s")
	require.NoError(t, err)
	_, err = m.Restart(ctx, "s")
	require.NoError(t, err)
	require.NoError(t, m.CompleteAnalysis(ctx, "s", tok, &analysis.Response{Roles: []analysis.Role{{Role: "late"}}}))

	s, err := m.Load(ctx, "s")
	require.NoError(t, err)
	assert.False(t, s.Submitted)
	assert.Empty(t, s.Roles)
	assert.Equal(t, 1, s.Generation)
}

func TestResubmitAfterRestart_OnlyNewResponseIsShown(t *testing.T) {
	m, _ := openManager(t, false)
	ctx := context.Background()

	oldTok, err := m.BeginAnalysis(ctx, "s")
	require.NoError(t, err)
	_, err = m.Restart(ctx, "s")
	require.NoError(t, err)
	newTok, err := m.BeginAnalysis(ctx, "s")
	require.NoError(t, err)
	require.NotEqual(t, oldTok, newTok)

	// The discarded submission answers first and must not claim the slot.
	require.NoError(t, m.CompleteAnalysis(ctx, "s", oldTok, &analysis.Response{Roles: []analysis.Role{{Role: "Discarded Role"}}}))
	s, err := m.Load(ctx, "s")
	require.NoError(t, err)
	assert.True(t, s.Busy)
	assert.False(t, s.Submitted)

	require.NoError(t, m.CompleteAnalysis(ctx, "s", newTok, &analysis.Response{Roles: []analysis.Role{{Role: "Current Role"}}}))
	s, err = m.Load(ctx, "s")
	require.NoError(t, err)
	assert.False(t, s.Busy)
	assert.True(t, s.Submitted)
	require.Len(t, s.Roles, 1)
	assert.Equal(t, "Current Role", s.Roles[0].Role)
}

func TestAbortOfDiscardedSubmissionKeepsNewOneBusy(t *testing.T) {
	m, _ := openManager(t, false)
	ctx := context.Background()

	oldTok, err := m.BeginAnalysis(ctx, "s")
	require.NoError(t, err)
	_, err = m.Restart(ctx, "s")
	require.NoError(t, err)
	_, err = m.BeginAnalysis(ctx, "s")
	require.NoError(t, err)

	require.NoError(t, m.AbortAnalysis(ctx, "s", oldTok))
	s, err := m.Load(ctx, "s")
	require.NoError(t, err)
	assert.True(t, s.Busy)
}

func TestTranscript_ConcurrentAppends(t *testing.T) {
	m, _ := openManager(t, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AdjustTyping(ctx, "s", 1)
			m.AppendTurn(ctx, "s", chat.Turn{Sender: chat.SenderAI, Text: "r"})
			m.AdjustTyping(ctx, "s", -1)
		}()
	}
	wg.Wait()

	s, err := m.Load(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, s.Transcript, 20)
	assert.Zero(t, s.Typing)

	require.NoError(t, m.AdjustTyping(ctx, "s", -3))
	s, _ = m.Load(ctx, "s")
	assert.Zero(t, s.Typing)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestSweeper_RunOnce(t *testing.T) {
	store, err := storage.Open(storage.MemoryDSN)
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	old := NewManagerWithClock(store, fixedClock{now.Add(-3 * time.Hour)}, false)
	fresh := NewManagerWithClock(store, fixedClock{now}, false)
	_, err = old.Update(ctx, "old", func(*State) error { return nil })
	require.NoError(t, err)
	_, err = fresh.Update(ctx, "fresh", func(*State) error { return nil })
	require.NoError(t, err)

	sw := NewSweeper(store, 2*time.Hour, 0)
	sw.clock = fixedClock{now}
	n, err := sw.RunOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	count, err := store.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	store, err := storage.Open(storage.MemoryDSN)
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewSweeper(store, time.Hour, 10*time.Millisecond).Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
