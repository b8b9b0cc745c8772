package cli

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesCmd(t *testing.T) {
	cmd := newTemplatesCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(nil)
	ctx := withLogger(context.Background(), newLogger(io.Discard, log.InfoLevel))
	require.NoError(t, cmd.ExecuteContext(ctx))

	out := buf.String()
	assert.Contains(t, out, "tmpl_basic_chat")
	assert.Contains(t, out, "tmpl_rag_qa")
	assert.Contains(t, out, "tmpl_tool_agent")
}

func TestInstantiateCmd(t *testing.T) {
	t.Run("parameters override defaults", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "chat.json")
		require.NoError(t, runCmd(t, newInstantiateCmd(),
			"tmpl_basic_chat", "-p", "temperature=0.2", "-o", out))

		fd := readFlowOutput(t, out)
		chat := fd.Node("chatOpenAI_0")
		require.NotNil(t, chat)
		assert.Equal(t, 0.2, chat.Data["temperature"])
		assert.Equal(t, "gpt-4o-mini", chat.Data["model"])
	})

	t.Run("starter flow from metadata-only template", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "rag.json")
		require.NoError(t, runCmd(t, newInstantiateCmd(), "tmpl_rag_qa", "-o", out))

		fd := readFlowOutput(t, out)
		assert.Len(t, fd.Nodes, 4)
		assert.Len(t, fd.Edges, 3)
	})

	t.Run("unknown template", func(t *testing.T) {
		err := runCmd(t, newInstantiateCmd(), "tmpl_nope")
		assert.Error(t, err)
	})

	t.Run("malformed parameter", func(t *testing.T) {
		err := runCmd(t, newInstantiateCmd(), "tmpl_basic_chat", "-p", "temperature")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "key=value")
	})
}

func TestParseParams(t *testing.T) {
	t.Run("pairs become string values", func(t *testing.T) {
		params, err := parseParams([]string{"model=gpt-4o", "temperature=0.2"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"model": "gpt-4o", "temperature": "0.2"}, params)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		params, err := parseParams(nil)
		require.NoError(t, err)
		assert.Nil(t, params)
	})

	t.Run("value may contain equals signs", func(t *testing.T) {
		params, err := parseParams([]string{"systemMessage=a=b"})
		require.NoError(t, err)
		assert.Equal(t, "a=b", params["systemMessage"])
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := parseParams([]string{"model"})
		assert.Error(t, err)
	})

	t.Run("empty key", func(t *testing.T) {
		_, err := parseParams([]string{"=value"})
		assert.Error(t, err)
	})
}
