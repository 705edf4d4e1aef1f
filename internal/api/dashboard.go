package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/careermentor/internal/dashboard"
	"github.com/kalambet/careermentor/internal/session"
)

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s, err := h.load(r.Context())
	if err != nil {
		h.internalError(w, r, "loading session", err)
		return
	}
	h.dashboardPage(w, r, http.StatusOK, s, "")
}

func (h *handler) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	s, err := h.Sessions.Update(r.Context(), sessionID(r.Context()), func(s *session.State) error {
		goals, err := dashboard.AddGoal(s.Goals, r.PostForm.Get("goal"))
		if err != nil {
			return err
		}
		s.Goals = goals
		return nil
	})
	switch {
	case errors.Is(err, dashboard.ErrEmptyGoal):
		h.dashboardPage(w, r, http.StatusUnprocessableEntity, s, "Please enter a goal")
	case err != nil:
		h.internalError(w, r, "adding goal", err)
	default:
		seeOther(w, r, "/dashboard")
	}
}

func (h *handler) handleToggleGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, err := h.Sessions.Update(r.Context(), sessionID(r.Context()), func(s *session.State) error {
		goals, err := dashboard.ToggleGoal(s.Goals, id)
		if err != nil {
			return err
		}
		s.Goals = goals
		return nil
	})
	switch {
	case errors.Is(err, dashboard.ErrGoalNotFound):
		h.dashboardPage(w, r, http.StatusNotFound, s, "That goal no longer exists.")
	case err != nil:
		h.internalError(w, r, "toggling goal", err)
	default:
		seeOther(w, r, "/dashboard")
	}
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	s, err := h.load(r.Context())
	if err != nil {
		h.internalError(w, r, "loading session", err)
		return
	}
	if _, err := dashboard.Export(s.Dashboard()); errors.Is(err, dashboard.ErrExportNotImplemented) {
		h.dashboardPage(w, r, http.StatusNotImplemented, s, dashboard.ExportNotice)
		return
	} else if err != nil {
		h.internalError(w, r, "exporting dashboard", err)
		return
	}
	seeOther(w, r, "/dashboard")
}
