package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getmockd/surveyd/internal/storage"
	"github.com/getmockd/surveyd/pkg/api/types"
	"github.com/getmockd/surveyd/pkg/httputil"
	"github.com/getmockd/surveyd/pkg/survey"
)

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, types.HealthResponse{
		Status:  "ok",
		Uptime:  s.Uptime(),
		Surveys: s.store.Count(),
	})
}

// handleListSurveys handles GET /surveys.
func (s *Server) handleListSurveys(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, s.store.List())
}

// handleCreateSurvey handles POST /create-survey.
func (s *Server) handleCreateSurvey(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	if body.form {
		dropBlankItems(body.fields, "questions")
	}
	req, err := survey.ParseCreate(body.fields)
	if err != nil {
		s.writeValidationError(w, r, err)
		return
	}

	created := s.store.Create(req.Title, req.Questions)
	_ = s.metrics.SurveysCreated.Inc()
	s.log.Info("survey created", "id", created.ID, "questions", len(created.Questions),
		"requestId", RequestIDFromContext(r.Context()))

	if wantsHTML(r, body) {
		http.Redirect(w, r, fmt.Sprintf("/survey/%d/take", created.ID), http.StatusSeeOther)
		return
	}
	httputil.WriteCreated(w, created)
}

// handleGetSurvey handles GET /survey/{id}.
func (s *Server) handleGetSurvey(w http.ResponseWriter, r *http.Request) {
	sv := s.surveyFromPath(r)
	if sv == nil {
		httputil.WriteNotFound(w, types.ErrCodeNotFound, types.MsgSurveyNotFound)
		return
	}
	httputil.WriteOK(w, sv)
}

// handleSubmitSurvey handles POST /survey/{id}/submit.
func (s *Server) handleSubmitSurvey(w http.ResponseWriter, r *http.Request) {
	id, ok := surveyID(r)
	if !ok || s.store.Get(id) == nil {
		httputil.WriteNotFound(w, types.ErrCodeNotFound, types.MsgSurveyNotFound)
		return
	}

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	req, err := survey.ParseSubmit(body.fields)
	if err != nil {
		s.writeValidationError(w, r, err)
		return
	}

	if err := s.store.AddResponse(id, req.Answers); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httputil.WriteNotFound(w, types.ErrCodeNotFound, types.MsgSurveyNotFound)
			return
		}
		httputil.WriteInternalError(w, types.ErrCodeInternal, err.Error())
		return
	}
	_ = s.metrics.ResponsesSubmitted.Inc()

	if wantsHTML(r, body) {
		http.Redirect(w, r, fmt.Sprintf("/survey/%d/results/view", id), http.StatusSeeOther)
		return
	}
	httputil.WriteOK(w, types.MessageResponse{Message: types.MsgSurveySubmitted})
}

// handleGetResults handles GET /survey/{id}/results.
func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	sv := s.surveyFromPath(r)
	if sv == nil {
		httputil.WriteNotFound(w, types.ErrCodeNotFound, types.MsgSurveyNotFound)
		return
	}
	httputil.WriteOK(w, sv.Results())
}

// readBody decodes the request body, writing an error response on failure.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (*requestBody, bool) {
	body, err := decodeBody(w, r)
	switch {
	case err == nil:
		return body, true
	case errors.Is(err, errUnsupportedMedia):
		httputil.WriteUnsupportedMediaType(w, types.ErrCodeUnsupported, types.MsgUnsupportedMedia)
	case errors.Is(err, errInvalidForm):
		httputil.WriteBadRequest(w, types.ErrCodeInvalidForm, err.Error())
	default:
		httputil.WriteBadRequest(w, types.ErrCodeInvalidJSON, err.Error())
	}
	s.log.Debug("rejected request body", "path", r.URL.Path, "error", err)
	return nil, false
}

func (s *Server) writeValidationError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *survey.ValidationError
	if errors.As(err, &verr) {
		s.log.Debug("request failed validation", "path", r.URL.Path, "error", verr.Error())
		httputil.WriteErrorWithDetails(w, http.StatusBadRequest, types.ErrCodeValidation, verr.Message, verr.Fields)
		return
	}
	s.log.Error("validating request", "path", r.URL.Path, "error", err)
	httputil.WriteInternalError(w, types.ErrCodeInternal, err.Error())
}

// surveyFromPath returns the survey named by the {id} path value, or nil.
func (s *Server) surveyFromPath(r *http.Request) *survey.Survey {
	id, ok := surveyID(r)
	if !ok {
		return nil
	}
	return s.store.Get(id)
}

func surveyID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// dropBlankItems removes empty entries from a list field. Browser forms
// submit every input, including the ones left empty.
func dropBlankItems(fields map[string]any, key string) {
	items, ok := fields[key].([]any)
	if !ok {
		return
	}
	kept := items[:0]
	for _, item := range items {
		if str, ok := item.(string); ok && strings.TrimSpace(str) == "" {
			continue
		}
		kept = append(kept, item)
	}
	fields[key] = kept
}
