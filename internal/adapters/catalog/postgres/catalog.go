// Package postgres provides a pgvector-backed template catalog
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/codec"
)

// Catalog implements template storage backed by PostgreSQL with the
// pgvector extension for similarity search
// PRINCIPLES:
// - SRP: Only responsible for template persistence
// - DIP: Satisfies the app layer's TemplateStore interface
type Catalog struct {
	pool       *pgxpool.Pool
	serializer *codec.Serializer
	tableName  string
	dimensions int
}

// Config holds connection settings for the catalog
type Config struct {
	DatabaseURL string
	Dimensions  int // Embedding vector width
	MaxConns    int
	MinConns    int
	Serializer  *codec.Serializer // Custom serializer (optional)
}

// NewCatalog opens a connection pool, verifies connectivity and
// initializes the schema.
func NewCatalog(ctx context.Context, config Config) (*Catalog, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = int32(config.MaxConns)
	}
	if config.MinConns > 0 {
		poolConfig.MinConns = int32(config.MinConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	catalog := NewCatalogWithPool(pool, config.Serializer, config.Dimensions)

	if err := catalog.InitializeSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return catalog, nil
}

// NewCatalogWithPool wraps an existing pool without touching the schema.
func NewCatalogWithPool(pool *pgxpool.Pool, serializer *codec.Serializer, dimensions int) *Catalog {
	if serializer == nil {
		serializer = codec.Default()
	}
	if dimensions == 0 {
		dimensions = 1536
	}

	return &Catalog{
		pool:       pool,
		serializer: serializer,
		tableName:  "templates",
		dimensions: dimensions,
	}
}

// InitializeSchema creates the pgvector extension, the templates table
// and its indexes.
func (c *Catalog) InitializeSchema(ctx context.Context) error {
	queries := []string{
		"CREATE EXTENSION IF NOT EXISTS vector;",

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				template_id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				required_nodes TEXT NOT NULL DEFAULT '',
				parameters JSONB DEFAULT '{}',
				flow_data BYTEA,
				embedding vector(%d),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
			);
		`, c.tableName, c.dimensions),

		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);",
			c.tableName, c.tableName),

		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s_name_idx ON %s (name);",
			c.tableName, c.tableName),
	}

	for _, query := range queries {
		if _, err := c.pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	return nil
}

// Put stores a template, replacing any previous row with the same
// identifier. A nil embedding leaves the row out of similarity search.
func (c *Catalog) Put(ctx context.Context, tpl *template.Template, embedding []float32) error {
	if tpl == nil {
		return template.ErrNilTemplate
	}
	if err := tpl.Validate(); err != nil {
		return fmt.Errorf("template validation failed: %w", err)
	}

	var flowBytes []byte
	if tpl.FlowData != nil {
		data, err := c.serializer.Serialize(tpl.FlowData)
		if err != nil {
			return fmt.Errorf("flow serialization failed: %w", err)
		}
		flowBytes = data
	}

	var vec interface{}
	if len(embedding) > 0 {
		vec = pgvector.NewVector(embedding)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (template_id, name, description, required_nodes, parameters, flow_data, embedding, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (template_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			required_nodes = EXCLUDED.required_nodes,
			parameters = EXCLUDED.parameters,
			flow_data = EXCLUDED.flow_data,
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`, c.tableName)

	_, err := c.pool.Exec(ctx, query,
		tpl.TemplateID,
		tpl.Name,
		tpl.Description,
		strings.Join(tpl.RequiredNodes, ","),
		tpl.Parameters,
		flowBytes,
		vec,
	)
	if err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	return nil
}

// Get retrieves a full template by identifier.
func (c *Catalog) Get(ctx context.Context, templateID string) (*template.Template, error) {
	if templateID == "" {
		return nil, template.ErrInvalidTemplateID
	}

	query := fmt.Sprintf(`
		SELECT template_id, name, description, required_nodes, parameters, flow_data
		FROM %s
		WHERE template_id = $1
	`, c.tableName)

	var tpl template.Template
	var requiredNodes string
	var flowBytes []byte

	err := c.pool.QueryRow(ctx, query, templateID).Scan(
		&tpl.TemplateID, &tpl.Name, &tpl.Description, &requiredNodes, &tpl.Parameters, &flowBytes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &template.NotFoundError{TemplateID: templateID}
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	tpl.RequiredNodes = splitNodes(requiredNodes)

	if len(flowBytes) > 0 {
		var fd flow.FlowData
		if err := c.serializer.Deserialize(flowBytes, &fd); err != nil {
			return nil, fmt.Errorf("flow deserialization failed: %w", err)
		}
		tpl.FlowData = &fd
	}

	return &tpl, nil
}

// GetMetadata retrieves the catalog projection for a template.
func (c *Catalog) GetMetadata(ctx context.Context, templateID string) (*template.Metadata, error) {
	if templateID == "" {
		return nil, template.ErrInvalidTemplateID
	}

	query := fmt.Sprintf(`
		SELECT template_id, name, description, required_nodes, parameters
		FROM %s
		WHERE template_id = $1
	`, c.tableName)

	md, err := scanMetadata(c.pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &template.NotFoundError{TemplateID: templateID}
		}
		return nil, fmt.Errorf("failed to load template metadata: %w", err)
	}

	return md, nil
}

// List returns the metadata of every stored template ordered by
// identifier.
func (c *Catalog) List(ctx context.Context) ([]*template.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT template_id, name, description, required_nodes, parameters
		FROM %s
		ORDER BY template_id
	`, c.tableName)

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var out []*template.Metadata
	for rows.Next() {
		md, err := scanMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		out = append(out, md)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return out, nil
}

// Search performs cosine similarity search over stored embeddings.
func (c *Catalog) Search(ctx context.Context, embedding []float32, limit int) ([]template.SearchResult, error) {
	query := fmt.Sprintf(`
		SELECT
			template_id, name, description, required_nodes, parameters,
			1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2
	`, c.tableName)

	rows, err := c.pool.Query(ctx, query, pgvector.NewVector(embedding), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var results []template.SearchResult
	for rows.Next() {
		var md template.Metadata
		var requiredNodes string
		var similarity float64

		err := rows.Scan(&md.TemplateID, &md.Name, &md.Description, &requiredNodes, &md.Parameters, &similarity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		md.Nodes = requiredNodes
		md.RequiredNodes = splitNodes(requiredNodes)

		results = append(results, template.SearchResult{
			Metadata:   &md,
			Similarity: similarity,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return results, nil
}

// Delete removes a template by identifier.
func (c *Catalog) Delete(ctx context.Context, templateID string) error {
	if templateID == "" {
		return template.ErrInvalidTemplateID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE template_id = $1", c.tableName)
	result, err := c.pool.Exec(ctx, query, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &template.NotFoundError{TemplateID: templateID}
	}

	return nil
}

// HealthCheck pings the underlying pool.
func (c *Catalog) HealthCheck(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Close closes the connection pool.
func (c *Catalog) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// scanner abstracts pgx.Row and pgx.Rows for shared metadata scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanMetadata(row scanner) (*template.Metadata, error) {
	var md template.Metadata
	var requiredNodes string

	err := row.Scan(&md.TemplateID, &md.Name, &md.Description, &requiredNodes, &md.Parameters)
	if err != nil {
		return nil, err
	}

	md.Nodes = requiredNodes
	md.RequiredNodes = splitNodes(requiredNodes)
	return &md, nil
}

func splitNodes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
