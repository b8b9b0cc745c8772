package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/dto"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/infrastructure/metrics"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/prebuilt"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/validation"
)

// TemplateService implements the template catalog workflows
// PRINCIPLES:
// - SRP: Catalog orchestration only; storage, embedding and flow
//   building live behind interfaces
// - DIP: Depends on TemplateStore and Embedder abstractions
type TemplateService struct {
	store        TemplateStore
	embedder     Embedder
	instantiator *template.Instantiator
}

// NewTemplateService creates a template service. The embedder may be
// nil; Search then fails fast and templates are stored unembedded.
func NewTemplateService(store TemplateStore, embedder Embedder) (*TemplateService, error) {
	inst, err := template.NewInstantiator(store)
	if err != nil {
		return nil, err
	}
	return &TemplateService{store: store, embedder: embedder, instantiator: inst}, nil
}

// Create validates a new template and stores it.
func (s *TemplateService) Create(ctx context.Context, req *dto.CreateTemplateRequest) (*template.Metadata, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tpl, err := req.ToTemplate()
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl.Metadata(), nil
}

// Get returns the stored template.
func (s *TemplateService) Get(ctx context.Context, templateID string) (*template.Template, error) {
	if templateID == "" {
		return nil, dto.ErrMissingTemplateID
	}
	return s.store.Get(ctx, templateID)
}

// List returns every stored template's metadata.
func (s *TemplateService) List(ctx context.Context) (*dto.ListTemplatesResponse, error) {
	metas, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	metrics.SetCatalogTemplates(len(metas))
	return &dto.ListTemplatesResponse{Templates: metas, Count: len(metas)}, nil
}

// Delete removes a template from the catalog.
func (s *TemplateService) Delete(ctx context.Context, templateID string) error {
	if templateID == "" {
		return dto.ErrMissingTemplateID
	}
	if err := s.store.Delete(ctx, templateID); err != nil {
		return err
	}
	s.refreshCatalogGauge(ctx)
	return nil
}

// Instantiate builds a flow from a stored template. Templates carrying
// flow data are instantiated by substitution with the request
// parameters overlaid on the template defaults; metadata-only templates
// produce a linear starter flow. The output is re-validated and the
// report travels with the flow.
func (s *TemplateService) Instantiate(ctx context.Context, req *dto.InstantiateTemplateRequest) (*dto.InstantiateTemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tpl, err := s.store.Get(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}

	var fd *flow.FlowData
	if tpl.FlowData != nil {
		fd, err = template.Substitute(tpl.FlowData, template.MergeParams(tpl.Parameters, req.Parameters))
		if err != nil {
			return nil, err
		}
		metrics.IncInstantiations("substitute")
	} else {
		fd, err = s.instantiator.BuildFromTemplate(ctx, req.TemplateID)
		if err != nil {
			return nil, err
		}
		metrics.IncInstantiations("starter")
	}

	violations := validation.ValidateFlow(fd)
	return &dto.InstantiateTemplateResponse{
		TemplateID: req.TemplateID,
		Flow:       fd,
		Valid:      len(violations) == 0,
		Violations: violations,
	}, nil
}

// Search embeds the query and ranks catalog entries by similarity.
func (s *TemplateService) Search(ctx context.Context, req *dto.SearchTemplatesRequest) (*dto.SearchTemplatesResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.embedder == nil {
		return nil, dto.ErrSearchUnavailable
	}

	vec, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("query embedding failed: %w", err)
	}
	results, err := s.store.Search(ctx, vec, req.Limit)
	if err != nil {
		return nil, err
	}
	metrics.IncSearches()

	if results == nil {
		results = []template.SearchResult{}
	}
	return &dto.SearchTemplatesResponse{Results: results}, nil
}

// Seed loads the built-in templates into the catalog. Entries with the
// same ids are replaced.
func (s *TemplateService) Seed(ctx context.Context) (*dto.SeedResponse, error) {
	templates, err := prebuilt.Templates()
	if err != nil {
		return nil, fmt.Errorf("building prebuilt templates: %w", err)
	}
	for _, tpl := range templates {
		if err := s.save(ctx, tpl); err != nil {
			return nil, fmt.Errorf("seeding %s: %w", tpl.TemplateID, err)
		}
	}
	return &dto.SeedResponse{Seeded: len(templates)}, nil
}

// save stores the template and refreshes the catalog gauge; when an
// embedder is configured the template is embedded first.
func (s *TemplateService) save(ctx context.Context, tpl *template.Template) error {
	var embedding []float32
	if s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, embeddingText(tpl))
		if err != nil {
			return fmt.Errorf("template embedding failed: %w", err)
		}
		embedding = vec
	}
	if err := s.store.Put(ctx, tpl, embedding); err != nil {
		return err
	}
	s.refreshCatalogGauge(ctx)
	return nil
}

// refreshCatalogGauge is best effort; a failed count never fails the
// operation that triggered it.
func (s *TemplateService) refreshCatalogGauge(ctx context.Context) {
	if metas, err := s.store.List(ctx); err == nil {
		metrics.SetCatalogTemplates(len(metas))
	}
}

// embeddingText flattens the searchable template fields into the string
// the embedder sees.
func embeddingText(tpl *template.Template) string {
	parts := []string{tpl.Name}
	if tpl.Description != "" {
		parts = append(parts, tpl.Description)
	}
	if len(tpl.RequiredNodes) > 0 {
		parts = append(parts, strings.Join(tpl.RequiredNodes, " "))
	}
	return strings.Join(parts, "\n")
}
