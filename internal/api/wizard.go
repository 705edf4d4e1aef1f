package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/kalambet/careermentor/internal/profile"
	"github.com/kalambet/careermentor/internal/resume"
	"github.com/kalambet/careermentor/internal/session"
	"github.com/kalambet/careermentor/internal/wizard"
)

// BusyNotice is shown when a second submission arrives while one is pending.
const BusyNotice = "Your profile is already being analyzed. Please wait."

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	s, err := h.load(r.Context())
	if err != nil {
		h.internalError(w, r, "loading session", err)
		return
	}
	h.page(w, r, http.StatusOK, s, "")
}

// mergeFields copies the posted form values into f. Fields absent from the
// form are left alone.
func mergeFields(r *http.Request, f *profile.Fields) {
	set := func(name string, dst *string) {
		if vals, ok := r.PostForm[name]; ok && len(vals) > 0 {
			*dst = vals[0]
		}
	}
	set("name", &f.Name)
	set("email", &f.Email)
	set("education", &f.Education)
	set("skills", &f.Skills)
	set("projects", &f.Projects)
	set("interests", &f.Interests)
}

func (h *handler) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *handler) handleNext(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}

	var verr *wizard.ValidationError
	s, err := h.Sessions.Update(r.Context(), sessionID(r.Context()), func(s *session.State) error {
		mergeFields(r, &s.Fields)
		next, err := wizard.Advance(h.validator, s.Step, s.Fields)
		if err != nil {
			if errors.As(err, &verr) {
				// Keep what was typed; the step does not change.
				return nil
			}
			return err
		}
		s.Step = next
		return nil
	})
	if err != nil {
		h.internalError(w, r, "advancing wizard", err)
		return
	}
	if verr != nil {
		h.page(w, r, http.StatusUnprocessableEntity, s, verr.Message)
		return
	}
	seeOther(w, r, "/")
}

func (h *handler) handleBack(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	_, err := h.Sessions.Update(r.Context(), sessionID(r.Context()), func(s *session.State) error {
		mergeFields(r, &s.Fields)
		s.Step = wizard.Retreat(s.Step)
		return nil
	})
	if err != nil {
		h.internalError(w, r, "retreating wizard", err)
		return
	}
	seeOther(w, r, "/")
}

func (h *handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !h.parseForm(w, r) {
		return
	}
	ctx := r.Context()
	id := sessionID(ctx)

	s, err := h.Sessions.Update(ctx, id, func(s *session.State) error {
		mergeFields(r, &s.Fields)
		return nil
	})
	if err != nil {
		h.internalError(w, r, "saving form", err)
		return
	}

	_, err = h.submitter.Submit(ctx, id, s.Fields)
	if err == nil {
		seeOther(w, r, "/results")
		return
	}

	var (
		verr *wizard.ValidationError
		serr *wizard.SubmitError
		code int
		msg  string
	)
	switch {
	case errors.As(err, &verr):
		code, msg = http.StatusUnprocessableEntity, verr.Message
	case errors.Is(err, wizard.ErrBusy):
		code, msg = http.StatusConflict, BusyNotice
	case errors.As(err, &serr):
		code, msg = http.StatusBadGateway, fmt.Sprintf("%s (%v)", wizard.SubmitFailedNotice, serr.Err)
	default:
		h.internalError(w, r, "submitting profile", err)
		return
	}

	if s, err = h.load(ctx); err != nil {
		h.internalError(w, r, "loading session", err)
		return
	}
	h.page(w, r, code, s, msg)
}

func (h *handler) handleResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxUploadSize+maxRequestBodySize)

	notice := func(code int, msg string) {
		s, err := h.load(ctx)
		if err != nil {
			h.internalError(w, r, "loading session", err)
			return
		}
		h.page(w, r, code, s, msg)
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		notice(http.StatusUnprocessableEntity, "Please choose a resume file to upload.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, resume.MaxUploadSize+1))
	if err != nil {
		notice(http.StatusUnprocessableEntity, "Could not read the uploaded resume.")
		return
	}
	if len(data) > resume.MaxUploadSize {
		notice(http.StatusRequestEntityTooLarge, "The resume is too large (limit 5 MB).")
		return
	}

	text, err := resume.Text(header.Filename, data)
	if err != nil {
		h.Logger.Warn("resume extraction failed", "session", sessionID(ctx), "file", header.Filename, "error", err)
		notice(http.StatusUnprocessableEntity, "Could not read any text from the uploaded resume.")
		return
	}
	skills := resume.ExtractSkills(text)
	if len(skills) == 0 {
		notice(http.StatusOK, "No known skills were found in the resume.")
		return
	}

	_, err = h.Sessions.Update(ctx, sessionID(ctx), func(s *session.State) error {
		s.Fields.Skills = resume.MergeSkills(s.Fields.Skills, skills)
		return nil
	})
	if err != nil {
		h.internalError(w, r, "saving imported skills", err)
		return
	}
	h.Logger.Info("resume imported", "session", sessionID(ctx), "skills", len(skills))
	seeOther(w, r, "/")
}
