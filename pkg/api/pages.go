package api

import (
	"embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/getmockd/surveyd/pkg/api/types"
	"github.com/getmockd/surveyd/pkg/httputil"
	"github.com/getmockd/surveyd/pkg/survey"
	"github.com/getmockd/surveyd/pkg/template"
)

//go:embed templates/*.html
var pageFS embed.FS

// Page template names.
const (
	pageList    = "list.html"
	pageTake    = "take.html"
	pageResults = "results.html"
)

// handleIndexPage handles GET /.
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, pageList, survey.ListTemplateData(s.store.List(), s.escape))
}

// handleTakePage handles GET /survey/{id}/take.
func (s *Server) handleTakePage(w http.ResponseWriter, r *http.Request) {
	sv := s.surveyFromPath(r)
	if sv == nil {
		httputil.WriteNotFound(w, types.ErrCodeNotFound, types.MsgSurveyNotFound)
		return
	}
	s.renderPage(w, r, pageTake, sv.TemplateData(s.escape))
}

// handleResultsPage handles GET /survey/{id}/results/view.
func (s *Server) handleResultsPage(w http.ResponseWriter, r *http.Request) {
	sv := s.surveyFromPath(r)
	if sv == nil {
		httputil.WriteNotFound(w, types.ErrCodeNotFound, types.MsgSurveyNotFound)
		return
	}
	s.renderPage(w, r, pageResults, sv.TemplateData(s.escape))
}

// escape sanitizes user text for HTML output.
func (s *Server) escape(text string) string {
	return s.policy.Sanitize(text)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data template.Value) {
	src, err := pageFS.ReadFile("templates/" + name)
	if err != nil {
		s.log.Error("loading page template", "page", name, "error", err)
		httputil.WriteInternalError(w, types.ErrCodeRender, fmt.Sprintf("page %s is unavailable", name))
		return
	}

	report, err := s.engine.RenderReport(string(src), data)
	if err != nil {
		s.log.Error("rendering page", "page", name, "error", err)
		httputil.WriteInternalError(w, types.ErrCodeRender, err.Error())
		return
	}
	page := strings.TrimSuffix(name, ".html")
	_ = s.metrics.PageRenders.Inc(page)
	if len(report.Unresolved) > 0 {
		_ = s.metrics.UnresolvedReferences.Add(float64(len(report.Unresolved)), page)
		s.log.Debug("page references missing data", "page", name, "paths", report.Unresolved,
			"requestId", RequestIDFromContext(r.Context()))
	}
	httputil.WriteHTML(w, http.StatusOK, report.Output)
}
