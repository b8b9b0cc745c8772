// Package sqlite provides a template catalog backed by SQLite
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/template"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/codec"
)

// Catalog implements template storage for SQLite. SQLite has no vector
// type, so embeddings are stored as blobs and Search ranks in process.
type Catalog struct {
	db         *sql.DB
	serializer *codec.Serializer
	tableName  string
}

// NewCatalog creates a new SQLite template catalog
func NewCatalog(db *sql.DB, serializer *codec.Serializer) *Catalog {
	if serializer == nil {
		serializer = codec.Default()
	}
	return &Catalog{
		db:         db,
		serializer: serializer,
		tableName:  "templates",
	}
}

// WithTableName allows overriding the default table name with validation.
// Only alphanumeric and underscore are permitted to prevent SQL injection via identifiers.
func (c *Catalog) WithTableName(name string) *Catalog {
	if isSafeIdent(name) {
		c.tableName = name
	}
	return c
}

func isSafeIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '_' {
			continue
		}
		return false
	}
	return true
}

// CreateTables creates the necessary database tables
func (c *Catalog) CreateTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			template_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			required_nodes TEXT NOT NULL DEFAULT '',
			parameters TEXT,
			flow_data BLOB,
			embedding BLOB,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_%s_name ON %s (name);
	`, c.tableName, c.tableName, c.tableName)

	_, err := c.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// Put stores a template, replacing any previous row with the same
// identifier.
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

	paramsJSON, err := json.Marshal(tpl.Parameters)
	if err != nil {
		return fmt.Errorf("failed to serialize parameters: %w", err)
	}

	var embeddingBytes []byte
	if len(embedding) > 0 {
		data, err := c.serializer.Serialize(embedding)
		if err != nil {
			return fmt.Errorf("embedding serialization failed: %w", err)
		}
		embeddingBytes = data
	}

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (template_id, name, description, required_nodes, parameters, flow_data, embedding, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.tableName)

	_, err = c.db.ExecContext(ctx, query,
		tpl.TemplateID,
		tpl.Name,
		tpl.Description,
		strings.Join(tpl.RequiredNodes, ","),
		string(paramsJSON),
		flowBytes,
		embeddingBytes,
		time.Now().Unix(),
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
		WHERE template_id = ?
	`, c.tableName)

	var tpl template.Template
	var requiredNodes string
	var paramsJSON string
	var flowBytes []byte

	err := c.db.QueryRowContext(ctx, query, templateID).Scan(
		&tpl.TemplateID, &tpl.Name, &tpl.Description, &requiredNodes, &paramsJSON, &flowBytes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &template.NotFoundError{TemplateID: templateID}
		}
		return nil, fmt.Errorf("failed to load template: %w", err)
	}

	tpl.RequiredNodes = splitNodes(requiredNodes)

	if paramsJSON != "" && paramsJSON != "null" {
		if err := json.Unmarshal([]byte(paramsJSON), &tpl.Parameters); err != nil {
			return nil, fmt.Errorf("failed to deserialize parameters: %w", err)
		}
	}

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
		WHERE template_id = ?
	`, c.tableName)

	md, err := scanMetadata(c.db.QueryRowContext(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

	rows, err := c.db.QueryContext(ctx, query)
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

// Search loads every stored embedding and ranks by cosine similarity
// in process. Fine for the catalog sizes SQLite deployments carry.
func (c *Catalog) Search(ctx context.Context, embedding []float32, limit int) ([]template.SearchResult, error) {
	query := fmt.Sprintf(`
		SELECT template_id, name, description, required_nodes, parameters, embedding
		FROM %s
		WHERE embedding IS NOT NULL
	`, c.tableName)

	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var results []template.SearchResult
	for rows.Next() {
		var md template.Metadata
		var requiredNodes string
		var paramsJSON string
		var embeddingBytes []byte

		err := rows.Scan(&md.TemplateID, &md.Name, &md.Description, &requiredNodes, &paramsJSON, &embeddingBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}

		var stored []float32
		if err := c.serializer.Deserialize(embeddingBytes, &stored); err != nil {
			return nil, fmt.Errorf("embedding deserialization failed: %w", err)
		}

		md.Nodes = requiredNodes
		md.RequiredNodes = splitNodes(requiredNodes)
		if paramsJSON != "" && paramsJSON != "null" {
			if err := json.Unmarshal([]byte(paramsJSON), &md.Parameters); err != nil {
				return nil, fmt.Errorf("failed to deserialize parameters: %w", err)
			}
		}

		results = append(results, template.SearchResult{
			Metadata:   &md,
			Similarity: cosineSimilarity(embedding, stored),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
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

// Delete removes a template by identifier.
func (c *Catalog) Delete(ctx context.Context, templateID string) error {
	if templateID == "" {
		return template.ErrInvalidTemplateID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE template_id = ?", c.tableName)
	result, err := c.db.ExecContext(ctx, query, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &template.NotFoundError{TemplateID: templateID}
	}

	return nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMetadata(row scanner) (*template.Metadata, error) {
	var md template.Metadata
	var requiredNodes string
	var paramsJSON string

	err := row.Scan(&md.TemplateID, &md.Name, &md.Description, &requiredNodes, &paramsJSON)
	if err != nil {
		return nil, err
	}

	md.Nodes = requiredNodes
	md.RequiredNodes = splitNodes(requiredNodes)
	if paramsJSON != "" && paramsJSON != "null" {
		if err := json.Unmarshal([]byte(paramsJSON), &md.Parameters); err != nil {
			return nil, err
		}
	}

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
