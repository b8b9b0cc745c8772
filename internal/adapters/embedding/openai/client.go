// Package openai adapts the OpenAI embeddings API to the app layer's
// Embedder interface
package openai

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel balances cost and retrieval quality for
	// template descriptions.
	DefaultEmbeddingModel = "text-embedding-3-small"

	// DefaultRequestTimeout caps a single embeddings call.
	DefaultRequestTimeout = 30 * time.Second
)

// Client wraps the OpenAI client with timeout handling and usage
// accounting
// PRINCIPLES:
// - SRP: Only responsible for turning text into vectors
// - DIP: Satisfies the app layer's Embedder interface
type Client struct {
	client         *openai.Client
	embeddingModel string
	requestTimeout time.Duration

	// Token accounting across the client's lifetime
	totalTokens int64
}

// Config holds client settings
type Config struct {
	APIKey         string
	BaseURL        string // Override for tests and proxies (optional)
	EmbeddingModel string
	RequestTimeout time.Duration
}

// NewClient creates a new OpenAI embeddings client
func NewClient(config Config) *Client {
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = DefaultEmbeddingModel
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = DefaultRequestTimeout
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Client{
		client:         openai.NewClientWithConfig(clientConfig),
		embeddingModel: config.EmbeddingModel,
		requestTimeout: config.RequestTimeout,
	}
}

// Embed generates an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embeddings returned from API")
	}

	atomic.AddInt64(&c.totalTokens, int64(resp.Usage.TotalTokens))

	return resp.Data[0].Embedding, nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts provided")
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create batch embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("mismatch between input texts and returned embeddings")
	}

	atomic.AddInt64(&c.totalTokens, int64(resp.Usage.TotalTokens))

	embeddings := make([][]float32, len(texts))
	for i, data := range resp.Data {
		embeddings[i] = data.Embedding
	}

	return embeddings, nil
}

// TotalTokens reports the tokens consumed by this client so far.
func (c *Client) TotalTokens() int64 {
	return atomic.LoadInt64(&c.totalTokens)
}

// HealthCheck verifies the OpenAI API connection with a minimal
// embedding request.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.Embed(ctx, "health check")
	return err
}
