package prebuilt

import (
	"fmt"
	"strings"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/fluentmind"
)

// RAGConfig defines inputs to the RAG Q&A builder. This prebuilt is
// metadata-only: it carries no flow data, so instantiation produces a
// linear starter flow from the node list instead of substituting into
// a stored graph.
type RAGConfig struct {
	TemplateID string   // Catalog id, must match tmpl_[a-z0-9_]+
	Name       string   // Display name
	Nodes      []string // Ordered node types of the starter pipeline
}

// DefaultRAGConfig creates the stock retrieval pipeline configuration:
// embed the question, retrieve context, answer with a chat model.
func DefaultRAGConfig() RAGConfig {
	return RAGConfig{
		TemplateID: "tmpl_rag_qa",
		Name:       "RAG Q&A",
		Nodes: []string{
			"openAIEmbeddings",
			"vectorStoreRetriever",
			"chatOpenAI",
			"retrievalQAChain",
		},
	}
}

// ValidateRAGConfig validates the RAGConfig for common issues.
func ValidateRAGConfig(cfg RAGConfig) error {
	if len(cfg.Nodes) == 0 {
		return fmt.Errorf("config must have at least one node")
	}
	for _, name := range cfg.Nodes {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("node names cannot be empty")
		}
	}
	return nil
}

// NewRAGQA returns the RAG Q&A prebuilt builder.
func NewRAGQA() Builder {
	return NewBuildFunc("rag_qa",
		func() any { return DefaultRAGConfig() },
		func(cfg any) (*fluentmind.Template, error) {
			c, ok := cfg.(RAGConfig)
			if !ok {
				return nil, fmt.Errorf("invalid config type for rag_qa, expected RAGConfig")
			}
			if err := ValidateRAGConfig(c); err != nil {
				return nil, fmt.Errorf("invalid configuration: %w", err)
			}

			if c.TemplateID == "" {
				c.TemplateID = "tmpl_rag_qa"
			}
			if c.Name == "" {
				c.Name = "RAG Q&A"
			}

			tpl := &fluentmind.Template{
				TemplateID:    c.TemplateID,
				Name:          c.Name,
				Description:   "Retrieval question answering: embeddings, a vector retriever, and a chat model chained into a QA pipeline.",
				RequiredNodes: c.Nodes,
			}
			if err := tpl.Validate(); err != nil {
				return nil, fmt.Errorf("rag_qa template invalid: %w", err)
			}
			return tpl, nil
		})
}

// init registers rag_qa into the default registry.
func init() {
	DefaultRegistry.MustRegister(NewRAGQA())
}
