package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/kalambet/careermentor/internal/render"
)

// errStale stops a stream whose results were replaced or cleared.
var errStale = errors.New("results changed")

// cardEvent is the payload of one "card" stream event.
type cardEvent struct {
	Index int    `json:"index"`
	HTML  string `json:"html"`
}

func (h *handler) handleResults(w http.ResponseWriter, r *http.Request) {
	s, err := h.load(r.Context())
	if err != nil {
		h.internalError(w, r, "loading session", err)
		return
	}
	if !s.Submitted {
		seeOther(w, r, "/")
		return
	}
	h.page(w, r, http.StatusOK, s, "")
}

// handleResultsStream sends the current result cards one at a time, a
// stagger apart. The stream ends early when the client goes away or the
// session's results change underneath it.
func (h *handler) handleResultsStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.load(ctx)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "loading session: %v", err)
		return
	}
	if !s.Submitted {
		httpError(w, http.StatusNotFound, "invalid_request_error", "no results to stream")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "%v", err)
		return
	}

	if len(s.Roles) == 0 {
		var buf bytes.Buffer
		if err := h.Renderer.Placeholder(&buf); err != nil {
			h.Logger.Error("rendering placeholder", "error", err)
			return
		}
		sse.WriteEvent("placeholder", map[string]string{"html": buf.String()})
		sse.WriteEvent("complete", map[string]int{"generation": s.Generation})
		return
	}

	cards := render.BuildCards(s.Roles, h.Stagger)
	gen := s.Generation
	err = render.Stagger{Interval: h.Stagger}.Run(ctx, len(cards), func(i int) error {
		cur, err := h.load(ctx)
		if err != nil {
			return err
		}
		if cur.Generation != gen {
			return errStale
		}
		var buf bytes.Buffer
		if err := h.Renderer.Card(&buf, cards[i]); err != nil {
			return err
		}
		return sse.WriteEvent("card", cardEvent{Index: i, HTML: buf.String()})
	})
	switch {
	case err == nil:
		sse.WriteEvent("complete", map[string]int{"generation": gen})
	case errors.Is(err, errStale):
		sse.WriteEvent("stale", map[string]int{"generation": gen})
	case errors.Is(err, context.Canceled):
	default:
		h.Logger.Error("streaming results", "session", sessionID(ctx), "error", err)
	}
}

func (h *handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Sessions.Restart(r.Context(), sessionID(r.Context())); err != nil {
		h.internalError(w, r, "restarting session", err)
		return
	}
	seeOther(w, r, "/")
}
