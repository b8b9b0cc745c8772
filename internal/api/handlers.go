package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/dto"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// Flow pipeline handlers. Bodies arrive decoded and validated by the
// JSON middleware, so handlers only run the service call and map the
// outcome.

func (s *Server) handleValidateFlow(w http.ResponseWriter, r *http.Request) {
	req := validation.ValidatedBody(r).(*dto.ValidateFlowRequest)
	resp, err := s.flows.Validate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLayoutFlow(w http.ResponseWriter, r *http.Request) {
	req := validation.ValidatedBody(r).(*dto.LayoutFlowRequest)
	resp, err := s.flows.Layout(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSanitizeFlow(w http.ResponseWriter, r *http.Request) {
	req := validation.ValidatedBody(r).(*dto.SanitizeFlowRequest)
	resp, err := s.flows.Sanitize(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitFlow(w http.ResponseWriter, r *http.Request) {
	req := validation.ValidatedBody(r).(*dto.SubmitFlowRequest)
	resp, err := s.flows.Submit(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Template catalog handlers.

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	req := validation.ValidatedBody(r).(*dto.CreateTemplateRequest)
	meta, err := s.templates.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, meta)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.templates.Get(r.Context(), chi.URLParam(r, "templateID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.templates.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.templates.Delete(r.Context(), chi.URLParam(r, "templateID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInstantiateTemplate reads the template id from the URL; the
// body carries only optional parameters and may be absent entirely.
func (s *Server) handleInstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	var req dto.InstantiateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	req.TemplateID = chi.URLParam(r, "templateID")

	resp, err := s.templates.Instantiate(r.Context(), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSearchTemplates(w http.ResponseWriter, r *http.Request) {
	req := validation.ValidatedBody(r).(*dto.SearchTemplatesRequest)
	resp, err := s.templates.Search(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSeedTemplates(w http.ResponseWriter, r *http.Request) {
	resp, err := s.templates.Seed(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
