// Package memory provides a thread-safe in-memory template catalog
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/codec"
)

// Catalog implements template storage with thread-safe in-memory maps
// PRINCIPLES:
// - KISS: Simple map-based storage with proper concurrency
// - SRP: Single responsibility for in-memory template storage
// - DIP: Satisfies the app layer's TemplateStore interface
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]*entry

	// Memory management
	maxMemoryMB int64
	currentSize int64

	// Serialization
	serializer *codec.Serializer
}

// Config holds configuration for the in-memory catalog
type Config struct {
	MaxMemoryMB int64             // Maximum memory usage in MB
	Serializer  *codec.Serializer // Custom serializer (optional)
}

// entry holds a serialized template with its projection and embedding
type entry struct {
	metadata  *template.Metadata
	data      []byte // Serialized template
	embedding []float32
	size      int64
	savedAt   time.Time
}

// NewCatalog creates a new in-memory template catalog
// PRINCIPLES:
// - KISS: Simple constructor with sensible defaults
// - YAGNI: Only required configuration
func NewCatalog(config Config) *Catalog {
	if config.MaxMemoryMB == 0 {
		config.MaxMemoryMB = 256
	}
	if config.Serializer == nil {
		config.Serializer = codec.Default()
	}

	return &Catalog{
		entries:     make(map[string]*entry),
		maxMemoryMB: config.MaxMemoryMB,
		serializer:  config.Serializer,
	}
}

// DefaultCatalog creates a Catalog with default configuration
func DefaultCatalog() *Catalog {
	return NewCatalog(Config{})
}

// Put stores a template, replacing any previous entry with the same
// identifier. The embedding is optional; templates without one are
// simply invisible to Search.
func (c *Catalog) Put(_ context.Context, tpl *template.Template, embedding []float32) error {
	if tpl == nil {
		return template.ErrNilTemplate
	}
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}

	data, err := c.serializer.Serialize(tpl)
	if err != nil {
		return fmt.Errorf("template serialization failed: %w", err)
	}

	size := int64(len(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	var replaced int64
	if prev, ok := c.entries[tpl.TemplateID]; ok {
		replaced = prev.size
	}

	if err := c.checkMemoryLimit(size - replaced); err != nil {
		return err
	}

	c.entries[tpl.TemplateID] = &entry{
		metadata:  tpl.Metadata(),
		data:      data,
		embedding: embedding,
		size:      size,
		savedAt:   time.Now(),
	}
	c.currentSize += size - replaced

	return nil
}

// Get retrieves a template by identifier. The returned template is a
// fresh copy; callers may mutate it freely.
func (c *Catalog) Get(_ context.Context, templateID string) (*template.Template, error) {
	c.mu.RLock()
	e, ok := c.entries[templateID]
	c.mu.RUnlock()

	if !ok {
		return nil, &template.NotFoundError{TemplateID: templateID}
	}

	var tpl template.Template
	if err := c.serializer.Deserialize(e.data, &tpl); err != nil {
		return nil, fmt.Errorf("template deserialization failed: %w", err)
	}

	return &tpl, nil
}

// GetMetadata retrieves the catalog projection for a template.
func (c *Catalog) GetMetadata(_ context.Context, templateID string) (*template.Metadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[templateID]
	if !ok {
		return nil, &template.NotFoundError{TemplateID: templateID}
	}

	md := *e.metadata
	return &md, nil
}

// List returns the metadata of every stored template, ordered by
// template identifier for stable output.
func (c *Catalog) List(_ context.Context) ([]*template.Metadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*template.Metadata, 0, len(c.entries))
	for _, e := range c.entries {
		md := *e.metadata
		out = append(out, &md)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TemplateID < out[j].TemplateID
	})

	return out, nil
}

// Search ranks stored templates by cosine similarity against the query
// embedding. Entries without an embedding are skipped.
func (c *Catalog) Search(_ context.Context, embedding []float32, limit int) ([]template.SearchResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var results []template.SearchResult
	for _, e := range c.entries {
		if len(e.embedding) == 0 {
			continue
		}

		md := *e.metadata
		results = append(results, template.SearchResult{
			Metadata:   &md,
			Similarity: cosineSimilarity(embedding, e.embedding),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Metadata.TemplateID < results[j].Metadata.TemplateID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Delete removes a template from the catalog.
func (c *Catalog) Delete(_ context.Context, templateID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[templateID]
	if !ok {
		return &template.NotFoundError{TemplateID: templateID}
	}

	c.currentSize -= e.size
	delete(c.entries, templateID)
	return nil
}

// Stats reports memory usage of the catalog
type Stats struct {
	Count              int64   `json:"count"`
	SizeBytes          int64   `json:"size_bytes"`
	MaxSizeMB          int64   `json:"max_size_mb"`
	UtilizationPercent float64 `json:"utilization_percent"`
}

func (c *Catalog) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var utilization float64
	if c.maxMemoryMB > 0 {
		utilization = float64(c.currentSize) / float64(c.maxMemoryMB*1024*1024) * 100
	}

	return Stats{
		Count:              int64(len(c.entries)),
		SizeBytes:          c.currentSize,
		MaxSizeMB:          c.maxMemoryMB,
		UtilizationPercent: utilization,
	}
}

// checkMemoryLimit rejects writes that would exceed the configured
// budget. Catalog entries are configuration, not run state, so the
// catalog refuses instead of evicting.
func (c *Catalog) checkMemoryLimit(delta int64) error {
	maxBytes := c.maxMemoryMB * 1024 * 1024
	if c.currentSize+delta > maxBytes {
		return fmt.Errorf("memory limit exceeded: current=%dMB, max=%dMB",
			c.currentSize/(1024*1024), c.maxMemoryMB)
	}
	return nil
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched lengths or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
