package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/careermentor/internal/analysis"
)

type memStore struct {
	mu     sync.Mutex
	turns  []Turn
	typing int
	peak   int
}

func (m *memStore) AppendTurn(_ context.Context, _ string, t Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = append(m.turns, t)
	return nil
}

func (m *memStore) AdjustTyping(_ context.Context, _ string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typing += delta
	if m.typing > m.peak {
		m.peak = m.typing
	}
	return nil
}

type fakeChatter struct {
	reply *analysis.ChatReply
	err   error
	calls int
}

func (f *fakeChatter) Chat(context.Context, string) (*analysis.ChatReply, error) {
	f.calls++
	return f.reply, f.err
}

func TestSend_WhitespaceIsIgnored(t *testing.T) {
	c := &fakeChatter{reply: &analysis.ChatReply{Reply: "hi"}}
	store := &memStore{}
	w := NewWidget(c, store)

	_, err := w.Send(context.Background(), "s", "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Zero(t, c.calls)
	assert.Empty(t, store.turns)
	assert.Zero(t, store.peak)
}

func TestSend_ReplyVariants(t *testing.T) {
	tests := []struct {
		name  string
		reply *analysis.ChatReply
		err   error
		want  string
	}{
		{"reply", &analysis.ChatReply{Reply: "Learn SQL."}, nil, "Learn SQL."},
		{"error key", &analysis.ChatReply{Error: "quota"}, nil, "Error: quota"},
		{"neither key", &analysis.ChatReply{}, nil, FallbackReply},
		{"transport failure", nil, errors.New("dial tcp: refused"), ConnectionFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memStore{}
			w := NewWidget(&fakeChatter{reply: tt.reply, err: tt.err}, store)

			turn, err := w.Send(context.Background(), "s", "  what next?  ")
			require.NoError(t, err)
			assert.Equal(t, Turn{Sender: SenderAI, Text: tt.want}, turn)

			require.Len(t, store.turns, 2)
			assert.Equal(t, Turn{Sender: SenderUser, Text: "what next?"}, store.turns[0])
			assert.Equal(t, turn, store.turns[1])
			assert.Equal(t, 1, store.peak, "typing indicator shown during the round trip")
			assert.Zero(t, store.typing, "typing indicator hidden afterwards")
		})
	}
}
