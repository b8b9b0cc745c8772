package prebuilt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/fluentmind"
)

func TestTemplates_AllPrebuiltsBuild(t *testing.T) {
	templates, err := Templates()
	require.NoError(t, err)
	require.Len(t, templates, 3)

	ids := make([]string, 0, len(templates))
	for _, tpl := range templates {
		require.NoError(t, tpl.Validate())
		if tpl.FlowData != nil {
			assert.Empty(t, fluentmind.Validate(tpl.FlowData))
		}
		ids = append(ids, tpl.TemplateID)
	}
	assert.Equal(t, []string{"tmpl_basic_chat", "tmpl_rag_qa", "tmpl_tool_agent"}, ids)
}

func TestPrebuiltsInstantiateWithDefaults(t *testing.T) {
	rt := fluentmind.NewRuntime()
	ctx := context.Background()

	templates, err := Templates()
	require.NoError(t, err)
	for _, tpl := range templates {
		require.NoError(t, rt.RegisterTemplate(ctx, tpl))
	}

	for _, tpl := range templates {
		t.Run(tpl.TemplateID, func(t *testing.T) {
			fd, err := rt.Instantiate(ctx, tpl.TemplateID, nil)
			require.NoError(t, err)
			require.NotEmpty(t, fd.Nodes)
			assert.Empty(t, fluentmind.Validate(fd))
		})
	}
}

func TestBasicChat_Substitution(t *testing.T) {
	rt := fluentmind.NewRuntime()
	ctx := context.Background()

	builder, ok := DefaultRegistry.Get("basic_chat")
	require.True(t, ok)
	tpl, err := builder.Build(DefaultChatConfig())
	require.NoError(t, err)
	require.NoError(t, rt.RegisterTemplate(ctx, tpl))

	fd, err := rt.Instantiate(ctx, "tmpl_basic_chat", map[string]any{"temperature": "0.2"})
	require.NoError(t, err)

	chat := fd.Node("chatOpenAI_0")
	require.NotNil(t, chat)
	assert.Equal(t, "gpt-4o-mini", chat.Data["model"])
	assert.Equal(t, 0.2, chat.Data["temperature"])

	prompt := fd.Node("promptTemplate_0")
	require.NotNil(t, prompt)
	assert.Equal(t, "You are a helpful assistant.", prompt.Data["template"])

	// The stored template keeps its placeholders.
	stored, err := rt.Template(ctx, "tmpl_basic_chat")
	require.NoError(t, err)
	assert.Equal(t, "{{model}}", stored.FlowData.Node("chatOpenAI_0").Data["model"])
}

func TestToolAgent_CustomTools(t *testing.T) {
	builder := NewToolAgent()

	tpl, err := builder.Build(AgentConfig{Tools: []string{"calculator", "serpAPI"}})
	require.NoError(t, err)
	require.NotNil(t, tpl.FlowData)
	assert.Len(t, tpl.FlowData.Nodes, 4)
	assert.Len(t, tpl.FlowData.Edges, 3)
	assert.Contains(t, tpl.RequiredNodes, "serpAPI")
	assert.NotNil(t, tpl.FlowData.Node("serpAPI_1"))
}

func TestToolAgent_ConfigValidation(t *testing.T) {
	builder := NewToolAgent()

	_, err := builder.Build(AgentConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one tool")

	_, err = builder.Build(AgentConfig{Tools: []string{"calculator", "calculator"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool")

	_, err = builder.Build("not a config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config type")
}

func TestRAGQA_MetadataOnly(t *testing.T) {
	builder := NewRAGQA()

	tpl, err := builder.Build(DefaultRAGConfig())
	require.NoError(t, err)
	assert.Nil(t, tpl.FlowData)
	assert.Equal(t, []string{"openAIEmbeddings", "vectorStoreRetriever", "chatOpenAI", "retrievalQAChain"}, tpl.RequiredNodes)

	_, err = builder.Build(RAGConfig{Nodes: []string{" "}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.Register(NewBasicChat())
	r.Register(NewRAGQA())

	_, ok := r.Get("basic_chat")
	assert.True(t, ok)
	_, ok = r.Get("unknown")
	assert.False(t, ok)
	assert.Equal(t, []string{"basic_chat", "rag_qa"}, r.Names())

	assert.Panics(t, func() { r.MustRegister(NewBasicChat()) })
}
