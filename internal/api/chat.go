package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/session"
)

// transcriptResponse is the body of GET /chat.
type transcriptResponse struct {
	Open   bool        `json:"open"`
	Typing bool        `json:"typing"`
	Turns  []chat.Turn `json:"turns"`
}

func (h *handler) handleChatTranscript(w http.ResponseWriter, r *http.Request) {
	s, err := h.load(r.Context())
	if err != nil {
		httpError(w, http.StatusInternalServerError, "api_error", "loading session: %v", err)
		return
	}
	turns := s.Transcript
	if turns == nil {
		turns = []chat.Turn{}
	}
	writeJSON(w, http.StatusOK, transcriptResponse{Open: s.ChatOpen, Typing: s.Typing > 0, Turns: turns})
}

func (h *handler) handleChatToggle(w http.ResponseWriter, r *http.Request) {
	_, err := h.Sessions.Update(r.Context(), sessionID(r.Context()), func(s *session.State) error {
		s.ChatOpen = !s.ChatOpen
		return nil
	})
	if err != nil {
		h.internalError(w, r, "toggling chat", err)
		return
	}
	seeOther(w, r, backTo(r))
}

// handleChatMessage accepts a JSON {"message"} body or a form post. JSON
// callers get the assistant turn back; form posts are redirected.
func (h *handler) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	isJSON := ct == "application/json"

	var message string
	if isJSON {
		var req analysis.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		message = req.Message
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
			return
		}
		message = r.PostForm.Get("message")
	}

	turn, err := h.widget.Send(ctx, sessionID(ctx), message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		if isJSON {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message must not be empty")
			return
		}
		seeOther(w, r, backTo(r))
		return
	case err != nil:
		if isJSON {
			httpError(w, http.StatusInternalServerError, "api_error", "sending message: %v", err)
			return
		}
		h.internalError(w, r, "sending chat message", err)
		return
	}

	if isJSON {
		writeJSON(w, http.StatusOK, map[string]chat.Turn{"reply": turn})
		return
	}
	seeOther(w, r, backTo(r))
}

// backTo returns the local path the request came from, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") ||
		(ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	return ref.Path
}
