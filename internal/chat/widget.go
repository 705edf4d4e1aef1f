// Package chat implements the floating assistant panel: a transcript of
// user and assistant turns, a typing indicator, and the send flow against
// the remote chat endpoint.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kalambet/careermentor/internal/analysis"
)

// Sender identifies who authored a turn.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

const (
	FallbackReply     = "I'm sorry, I couldn't process your request. Please try again."
	ConnectionFailure = "Sorry, I'm having trouble connecting to the chat service. Please make sure the backend server is running and try again."
)

// ErrEmptyMessage is returned for blank input. Nothing is sent or recorded.
var ErrEmptyMessage = errors.New("empty chat message")

// Turn is one transcript bubble.
type Turn struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// Chatter sends a message to the remote chat endpoint.
type Chatter interface {
	Chat(ctx context.Context, message string) (*analysis.ChatReply, error)
}

// TranscriptStore holds a session's transcript and typing indicator.
type TranscriptStore interface {
	AppendTurn(ctx context.Context, sessionID string, turn Turn) error
	// AdjustTyping adds delta to the number of replies being awaited.
	AdjustTyping(ctx context.Context, sessionID string, delta int) error
}

// Widget runs the send flow. Sends are not serialized: two sends may be in
// flight at once and their replies are appended in completion order.
type Widget struct {
	chatter Chatter
	store   TranscriptStore
	logger  *slog.Logger
}

// NewWidget creates a Widget.
func NewWidget(c Chatter, store TranscriptStore) *Widget {
	return &Widget{chatter: c, store: store, logger: slog.Default()}
}

// Send appends the user's message, waits for the remote reply with the
// typing indicator shown, and appends the assistant turn. Remote failures
// become an assistant turn, not an error.
func (w *Widget) Send(ctx context.Context, sessionID, message string) (Turn, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Turn{}, ErrEmptyMessage
	}

	if err := w.store.AppendTurn(ctx, sessionID, Turn{Sender: SenderUser, Text: message}); err != nil {
		return Turn{}, fmt.Errorf("recording user turn: %w", err)
	}
	if err := w.store.AdjustTyping(ctx, sessionID, 1); err != nil {
		return Turn{}, fmt.Errorf("showing typing indicator: %w", err)
	}

	reply, err := w.chatter.Chat(ctx, message)

	// The reply is recorded even if the caller has gone away.
	bg := context.WithoutCancel(ctx)
	if typErr := w.store.AdjustTyping(bg, sessionID, -1); typErr != nil {
		w.logger.Error("failed to hide typing indicator", "session", sessionID, "error", typErr)
	}

	turn := Turn{Sender: SenderAI, Text: ReplyText(reply, err)}
	if err != nil {
		w.logger.Error("error sending message", "session", sessionID, "error", err)
	}
	if err := w.store.AppendTurn(bg, sessionID, turn); err != nil {
		return Turn{}, fmt.Errorf("recording reply: %w", err)
	}
	return turn, nil
}

// ReplyText chooses the assistant text for a chat round trip.
func ReplyText(reply *analysis.ChatReply, err error) string {
	switch {
	case err != nil || reply == nil:
		return ConnectionFailure
	case reply.Reply != "":
		return reply.Reply
	case reply.Error != "":
		return "Error: " + reply.Error
	default:
		return FallbackReply
	}
}
