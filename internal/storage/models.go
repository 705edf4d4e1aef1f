package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session is one browser session's serialized application state.
type Session struct {
	ID        string
	StateJSON string
	CreatedAt time.Time
	UpdatedAt time.Time
}
