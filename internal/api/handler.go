package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kalambet/careermentor/internal/chat"
	"github.com/kalambet/careermentor/internal/render"
	"github.com/kalambet/careermentor/internal/session"
	"github.com/kalambet/careermentor/internal/wizard"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Remote is the analysis service as the handlers use it.
type Remote interface {
	wizard.Analyzer
	chat.Chatter
}

// Deps holds dependencies for the web handler.
type Deps struct {
	Sessions *session.Manager
	Remote   Remote
	Renderer *render.Renderer
	// Stagger is the delay between consecutive result cards.
	Stagger time.Duration
	// CookieName names the session cookie.
	CookieName string
	Logger     *slog.Logger
}

type handler struct {
	Deps
	validator *wizard.Validator
	submitter *wizard.Submitter
	widget    *chat.Widget
}

// NewHandler returns the http.Handler serving the wizard, results,
// dashboard and chat panel.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.CookieName == "" {
		deps.CookieName = "careermentor_session"
	}
	v := wizard.NewValidator()
	h := &handler{
		Deps:      deps,
		validator: v,
		submitter: wizard.NewSubmitter(v, deps.Remote, deps.Sessions),
		widget:    chat.NewWidget(deps.Remote, deps.Sessions),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(render.Static())))

	r.Group(func(r chi.Router) {
		r.Use(sessionCookie(deps.CookieName))

		r.Get("/", h.handleIndex)
		r.Post("/wizard/next", h.handleNext)
		r.Post("/wizard/back", h.handleBack)
		r.Post("/wizard/submit", h.handleSubmit)
		r.Post("/wizard/resume", h.handleResume)

		r.Get("/results", h.handleResults)
		r.Get("/results/stream", h.handleResultsStream)
		r.Post("/restart", h.handleRestart)

		r.Get("/dashboard", h.handleDashboard)
		r.Post("/dashboard/goals", h.handleAddGoal)
		r.Post("/dashboard/goals/{id}/toggle", h.handleToggleGoal)
		r.Post("/dashboard/export", h.handleExport)

		r.Get("/chat", h.handleChatTranscript)
		r.Post("/chat/toggle", h.handleChatToggle)
		r.Post("/chat/messages", h.handleChatMessage)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// page renders the wizard/results page for s with an optional notice.
func (h *handler) page(w http.ResponseWriter, r *http.Request, code int, s session.State, notice string) {
	v := render.NewView(s, h.Stagger)
	v.Notice = notice
	h.writeHTML(w, r, code, func(buf *bytes.Buffer) error { return h.Renderer.Page(buf, v) })
}

// dashboardPage renders the dashboard for s with an optional notice.
func (h *handler) dashboardPage(w http.ResponseWriter, r *http.Request, code int, s session.State, notice string) {
	v := render.NewView(s, h.Stagger)
	v.Notice = notice
	h.writeHTML(w, r, code, func(buf *bytes.Buffer) error { return h.Renderer.DashboardPage(buf, v) })
}

// writeHTML renders into a buffer first so a template failure still
// produces a clean 500.
func (h *handler) writeHTML(w http.ResponseWriter, r *http.Request, code int, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		h.Logger.Error("rendering page", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	buf.WriteTo(w)
}

// internalError logs err and answers 500.
func (h *handler) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.Logger.Error(msg, "path", r.URL.Path, "session", sessionID(r.Context()), "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (h *handler) load(ctx context.Context) (session.State, error) {
	return h.Sessions.Load(ctx, sessionID(ctx))
}

func seeOther(w http.ResponseWriter, r *http.Request, path string) {
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
