// Package api exposes the flow pipeline and template catalog over HTTP.
//
// Routes are versioned under /api/v1. Request bodies pass through the
// shared validation middleware before handlers run; handlers map
// service errors onto HTTP statuses and a JSON error envelope. The
// operational surface (/healthz, /metrics, /debug) is mounted on the
// same router so a single listener serves everything.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/dto"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/services"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// Server bundles the HTTP handlers with their collaborating services.
type Server struct {
	flows     *services.FlowService
	templates *services.TemplateService
	logger    *log.Logger
}

// NewServer creates the HTTP surface over the given services. A nil
// logger falls back to the package default.
func NewServer(flows *services.FlowService, templates *services.TemplateService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{flows: flows, templates: templates, logger: logger}
}

// Router assembles the chi router with the API, health and debug routes.
func (s *Server) Router() http.Handler {
	v := validation.NewMiddleware(nil)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/flows", func(r chi.Router) {
			r.With(v.ValidateJSON(dto.ValidateFlowRequest{})).Post("/validate", s.handleValidateFlow)
			r.With(v.ValidateJSON(dto.LayoutFlowRequest{})).Post("/layout", s.handleLayoutFlow)
			r.With(v.ValidateJSON(dto.SanitizeFlowRequest{})).Post("/sanitize", s.handleSanitizeFlow)
			r.With(v.ValidateJSON(dto.SubmitFlowRequest{})).Post("/submit", s.handleSubmitFlow)
		})
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", s.handleListTemplates)
			r.With(v.ValidateJSON(dto.CreateTemplateRequest{})).Post("/", s.handleCreateTemplate)
			r.With(v.ValidateJSON(dto.SearchTemplatesRequest{})).Post("/search", s.handleSearchTemplates)
			r.Post("/seed", s.handleSeedTemplates)
			r.Route("/{templateID}", func(r chi.Router) {
				r.Get("/", s.handleGetTemplate)
				r.Delete("/", s.handleDeleteTemplate)
				r.Post("/instantiate", s.handleInstantiateTemplate)
			})
		})
	})

	r.Get("/healthz", handleHealthz)
	r.Get("/metrics", promMetricsHandler)
	// Profiler also serves /debug/vars via expvar.
	r.Mount("/debug", chimw.Profiler())

	return r
}

// logRequests logs every completed request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "ok")
}
