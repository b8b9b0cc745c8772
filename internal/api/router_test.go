package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memcatalog "github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/adapters/catalog/memory"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/dto"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/app/services"
	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/internal/core/flow"
)

const serverChainFlowJSON = `{
	"nodes": [
		{"id": "promptTemplate_0", "type": "promptTemplate", "data": {"label": "Prompt", "internalNote": "drop me"}},
		{"id": "chatOpenAI_0", "type": "chatOpenAI", "data": {"label": "Chat"}}
	],
	"edges": [
		{"id": "promptTemplate_0-chatOpenAI_0", "source": "promptTemplate_0", "target": "chatOpenAI_0"}
	],
	"viewport": {"x": 0, "y": 0, "zoom": 1}
}`

const serverDanglingFlowJSON = `{
	"nodes": [{"id": "a", "type": "chatOpenAI", "data": {}}],
	"edges": [{"id": "a-ghost", "source": "a", "target": "ghost"}]
}`

type stubSubmitter struct {
	id  string
	err error
}

func (s *stubSubmitter) SubmitFlow(_ context.Context, _ string, _ *flow.FlowData) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.id, nil
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vec, nil
}

func newTestServer(t *testing.T, submitter services.FlowSubmitter, embedder services.Embedder) *httptest.Server {
	t.Helper()
	templates, err := services.NewTemplateService(memcatalog.DefaultCatalog(), embedder)
	require.NoError(t, err)
	srv := NewServer(services.NewFlowService(submitter), templates, log.New(io.Discard))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) (int, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func getURL(t *testing.T, url string) (int, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func doDelete(t *testing.T, url string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestFlowRoutes_Validate(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	t.Run("clean flow", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/flows/validate", `{"flow": `+serverChainFlowJSON+`}`)
		require.Equal(t, http.StatusOK, status)

		var resp dto.ValidateFlowResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.True(t, resp.Valid)
		assert.Empty(t, resp.Violations)
	})

	t.Run("violations are reported with 200", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/flows/validate", `{"flow": `+serverDanglingFlowJSON+`}`)
		require.Equal(t, http.StatusOK, status)

		var resp dto.ValidateFlowResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.False(t, resp.Valid)
		assert.NotEmpty(t, resp.Violations)
	})

	t.Run("missing flow is rejected by middleware", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/flows/validate", `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(body), "errors")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/flows/validate", `{"flow": `)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(body), "invalid JSON")
	})
}

func TestFlowRoutes_Layout(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	t.Run("assigns positions", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/flows/layout", `{"flow": `+serverChainFlowJSON+`}`)
		require.Equal(t, http.StatusOK, status)

		var resp dto.LayoutFlowResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		require.Len(t, resp.Flow.Nodes, 2)
		require.NotNil(t, resp.Flow.Nodes[0].Position)
		require.NotNil(t, resp.Flow.Nodes[1].Position)
		assert.Less(t, resp.Flow.Nodes[0].Position.X, resp.Flow.Nodes[1].Position.X)
		assert.Positive(t, resp.Bounds.Width)
	})

	t.Run("refuses invalid flows", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/flows/layout", `{"flow": `+serverDanglingFlowJSON+`}`)
		require.Equal(t, http.StatusUnprocessableEntity, status)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Contains(t, resp.Error, "failed validation")
		assert.NotEmpty(t, resp.Violations)
	})
}

func TestFlowRoutes_Sanitize(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	status, body := postJSON(t, ts.URL+"/api/v1/flows/sanitize", `{"flow": `+serverChainFlowJSON+`}`)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body), "internalNote")
	assert.Contains(t, string(body), "promptTemplate_0")
}

func TestFlowRoutes_Submit(t *testing.T) {
	t.Run("submits sanitized flow", func(t *testing.T) {
		ts := newTestServer(t, &stubSubmitter{id: "flow-123"}, nil)

		status, body := postJSON(t, ts.URL+"/api/v1/flows/submit",
			`{"name": "Demo Flow", "flow": `+serverChainFlowJSON+`}`)
		require.Equal(t, http.StatusOK, status)

		var resp dto.SubmitFlowResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "flow-123", resp.ID)
		assert.Equal(t, "Demo Flow", resp.Name)
	})

	t.Run("no execution host configured", func(t *testing.T) {
		ts := newTestServer(t, nil, nil)

		status, _ := postJSON(t, ts.URL+"/api/v1/flows/submit",
			`{"name": "Demo Flow", "flow": `+serverChainFlowJSON+`}`)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})

	t.Run("invalid flow is refused", func(t *testing.T) {
		ts := newTestServer(t, &stubSubmitter{id: "flow-123"}, nil)

		status, _ := postJSON(t, ts.URL+"/api/v1/flows/submit",
			`{"name": "Demo Flow", "flow": `+serverDanglingFlowJSON+`}`)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("missing name is rejected by middleware", func(t *testing.T) {
		ts := newTestServer(t, &stubSubmitter{id: "flow-123"}, nil)

		status, _ := postJSON(t, ts.URL+"/api/v1/flows/submit", `{"flow": `+serverChainFlowJSON+`}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestTemplateRoutes_CRUD(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	createBody := `{
		"template_id": "tmpl_http_demo",
		"name": "HTTP Demo",
		"description": "created over the wire",
		"flow": {
			"nodes": [{"id": "chatOpenAI_0", "type": "chatOpenAI", "data": {"model": "{{model}}"}}],
			"edges": []
		},
		"parameters": {"model": "gpt-4o-mini"}
	}`

	t.Run("create", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/templates", createBody)
		require.Equal(t, http.StatusCreated, status)
		assert.Contains(t, string(body), "tmpl_http_demo")
		assert.Contains(t, string(body), "HTTP Demo")
	})

	t.Run("create with malformed id is rejected by middleware", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/templates",
			`{"template_id": "BadID", "name": "Nope"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, string(body), "template identifier")
	})

	t.Run("get keeps placeholders", func(t *testing.T) {
		status, body := getURL(t, ts.URL+"/api/v1/templates/tmpl_http_demo")
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(body), "{{model}}")
	})

	t.Run("list", func(t *testing.T) {
		status, body := getURL(t, ts.URL+"/api/v1/templates")
		require.Equal(t, http.StatusOK, status)

		var resp dto.ListTemplatesResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, doDelete(t, ts.URL+"/api/v1/templates/tmpl_http_demo"))

		status, _ := getURL(t, ts.URL+"/api/v1/templates/tmpl_http_demo")
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestTemplateRoutes_Instantiate(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	createBody := `{
		"template_id": "tmpl_http_demo",
		"name": "HTTP Demo",
		"flow": {
			"nodes": [{"id": "chatOpenAI_0", "type": "chatOpenAI", "data": {"model": "{{model}}", "temperature": "{{temperature}}"}}],
			"edges": []
		},
		"parameters": {"model": "gpt-4o-mini", "temperature": "0.7"}
	}`
	status, _ := postJSON(t, ts.URL+"/api/v1/templates", createBody)
	require.Equal(t, http.StatusCreated, status)

	t.Run("request parameters win", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/templates/tmpl_http_demo/instantiate",
			`{"parameters": {"model": "gpt-5"}}`)
		require.Equal(t, http.StatusOK, status)

		var resp dto.InstantiateTemplateResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.True(t, resp.Valid)
		require.Len(t, resp.Flow.Nodes, 1)
		assert.Equal(t, "gpt-5", resp.Flow.Nodes[0].Data["model"])
		assert.Equal(t, 0.7, resp.Flow.Nodes[0].Data["temperature"])
	})

	t.Run("empty body applies defaults", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/templates/tmpl_http_demo/instantiate", "")
		require.Equal(t, http.StatusOK, status)

		var resp dto.InstantiateTemplateResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, "gpt-4o-mini", resp.Flow.Nodes[0].Data["model"])
	})

	t.Run("unknown template", func(t *testing.T) {
		status, _ := postJSON(t, ts.URL+"/api/v1/templates/tmpl_missing/instantiate", `{}`)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("uncoercible temperature", func(t *testing.T) {
		status, _ := postJSON(t, ts.URL+"/api/v1/templates/tmpl_http_demo/instantiate",
			`{"parameters": {"temperature": "hot"}}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestTemplateRoutes_SeedAndSearch(t *testing.T) {
	ts := newTestServer(t, nil, &stubEmbedder{vec: []float32{1, 0}})

	t.Run("seed loads the prebuilt catalog", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/templates/seed", "")
		require.Equal(t, http.StatusOK, status)

		var resp dto.SeedResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, 3, resp.Seeded)
	})

	t.Run("search ranks seeded templates", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/api/v1/templates/search", `{"query": "chat assistant"}`)
		require.Equal(t, http.StatusOK, status)

		var resp dto.SearchTemplatesResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.NotEmpty(t, resp.Results)
	})

	t.Run("missing query is rejected by middleware", func(t *testing.T) {
		status, _ := postJSON(t, ts.URL+"/api/v1/templates/search", `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("search without an embedder", func(t *testing.T) {
		bare := newTestServer(t, nil, nil)
		status, _ := postJSON(t, bare.URL+"/api/v1/templates/search", `{"query": "chat"}`)
		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}

func TestOpsRoutes(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	t.Run("healthz", func(t *testing.T) {
		status, body := getURL(t, ts.URL+"/healthz")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ok", string(body))
	})

	t.Run("metrics render in Prometheus text format", func(t *testing.T) {
		// Generate at least one sample.
		postJSON(t, ts.URL+"/api/v1/flows/validate", `{"flow": `+serverChainFlowJSON+`}`)

		status, body := getURL(t, ts.URL+"/metrics")
		require.Equal(t, http.StatusOK, status)
		text := string(body)
		assert.Contains(t, text, "# HELP fluentmind_validations_total")
		assert.Contains(t, text, "# TYPE fluentmind_validations_total counter")
		assert.Contains(t, text, `fluentmind_validations_total{outcome="valid"}`)
		assert.Contains(t, text, "fluentmind_layouts_total")
	})

	t.Run("expvar vars", func(t *testing.T) {
		status, body := getURL(t, ts.URL+"/debug/vars")
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(body), "memstats")
	})

	t.Run("pprof index", func(t *testing.T) {
		status, _ := getURL(t, ts.URL+"/debug/pprof/")
		assert.Equal(t, http.StatusOK, status)
	})
}
