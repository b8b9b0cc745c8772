package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/codec"
)

func TestPostgresCatalog(t *testing.T) {
	t.Skip("Integration test requires PostgreSQL with pgvector")

	// This test would require an actual PostgreSQL instance.
	// For CI/CD, this should be run with docker-compose or testcontainers;
	// see test/integration for the full round-trip suite.
}

func TestPostgresCatalog_Errors(t *testing.T) {
	ctx := context.Background()

	// Catalog with a nil pool still rejects bad input before touching
	// the database.
	catalog := &Catalog{
		pool:       nil,
		serializer: codec.Default(),
		tableName:  "templates",
		dimensions: 3,
	}

	t.Run("Put nil template", func(t *testing.T) {
		err := catalog.Put(ctx, nil, nil)
		assert.ErrorIs(t, err, template.ErrNilTemplate)
	})

	t.Run("Put invalid template", func(t *testing.T) {
		err := catalog.Put(ctx, &template.Template{TemplateID: "BadID", Name: "x"}, nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("Get with empty ID", func(t *testing.T) {
		_, err := catalog.Get(ctx, "")
		assert.ErrorIs(t, err, template.ErrInvalidTemplateID)
	})

	t.Run("GetMetadata with empty ID", func(t *testing.T) {
		_, err := catalog.GetMetadata(ctx, "")
		assert.ErrorIs(t, err, template.ErrInvalidTemplateID)
	})

	t.Run("Delete with empty ID", func(t *testing.T) {
		err := catalog.Delete(ctx, "")
		assert.ErrorIs(t, err, template.ErrInvalidTemplateID)
	})
}

func TestSplitNodes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single", "chatOpenAI", []string{"chatOpenAI"}},
		{"multiple", "chatOpenAI,promptTemplate", []string{"chatOpenAI", "promptTemplate"}},
		{"whitespace", " chatOpenAI , promptTemplate ", []string{"chatOpenAI", "promptTemplate"}},
		{"stray commas", "chatOpenAI,,promptTemplate,", []string{"chatOpenAI", "promptTemplate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitNodes(tt.in))
		})
	}
}
