package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbeddingsServer answers the OpenAI embeddings endpoint with one
// vector per input text.
func fakeEmbeddingsServer(t *testing.T, vector []float32, tokens int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/embeddings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type datum struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}

		data := make([]datum, len(req.Input))
		for i := range req.Input {
			data[i] = datum{Object: "embedding", Index: i, Embedding: vector}
		}

		resp := map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
			"usage": map[string]int{
				"prompt_tokens": tokens,
				"total_tokens":  tokens,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	return httptest.NewServer(mux)
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
	})
}

func TestClient_Embed(t *testing.T) {
	server := fakeEmbeddingsServer(t, []float32{0.1, 0.2, 0.3}, 7)
	defer server.Close()

	client := newTestClient(t, server)

	embedding, err := client.Embed(context.Background(), "basic chat template")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, embedding)
	assert.Equal(t, int64(7), client.TotalTokens())
}

func TestClient_EmbedBatch(t *testing.T) {
	server := fakeEmbeddingsServer(t, []float32{1, 0}, 11)
	defer server.Close()

	client := newTestClient(t, server)

	embeddings, err := client.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, embeddings, 3)
	for _, e := range embeddings {
		assert.Equal(t, []float32{1, 0}, e)
	}
	assert.Equal(t, int64(11), client.TotalTokens())
}

func TestClient_EmbedBatch_Empty(t *testing.T) {
	server := fakeEmbeddingsServer(t, nil, 0)
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.EmbedBatch(context.Background(), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no texts provided")
}

func TestClient_Embed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "requests"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)

	_, err := client.Embed(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create embedding")
	assert.Equal(t, int64(0), client.TotalTokens())
}

func TestClient_HealthCheck(t *testing.T) {
	server := fakeEmbeddingsServer(t, []float32{0.5}, 1)
	defer server.Close()

	client := newTestClient(t, server)
	assert.NoError(t, client.HealthCheck(context.Background()))
}

func TestClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "k"})
	assert.Equal(t, DefaultEmbeddingModel, client.embeddingModel)
	assert.Equal(t, DefaultRequestTimeout, client.requestTimeout)
}
