package prebuilt

import (
	"fmt"
	"strings"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/fluentmind"
)

// AgentConfig defines inputs to the tool agent builder. Each tool name
// becomes one node feeding the agent.
type AgentConfig struct {
	TemplateID    string   // Catalog id, must match tmpl_[a-z0-9_]+
	Name          string   // Display name
	Model         string   // Default chat model
	Temperature   string   // Default sampling temperature as a decimal string
	SystemMessage string   // Default agent instructions
	Tools         []string // Tool node types wired into the agent
}

// DefaultAgentConfig creates the stock configuration for a tool-calling
// agent with a calculator.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		TemplateID:    "tmpl_tool_agent",
		Name:          "Tool Agent",
		Model:         "gpt-4o-mini",
		Temperature:   "0",
		SystemMessage: "You are a precise assistant. Use the available tools when they help.",
		Tools:         []string{"calculator"},
	}
}

// ValidateAgentConfig validates the AgentConfig for common issues.
func ValidateAgentConfig(cfg AgentConfig) error {
	if len(cfg.Tools) == 0 {
		return fmt.Errorf("config must have at least one tool")
	}
	seen := make(map[string]bool, len(cfg.Tools))
	for _, name := range cfg.Tools {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("tool names cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate tool: %s", name)
		}
		seen[name] = true
	}
	return nil
}

// NewToolAgent returns the tool agent prebuilt builder.
func NewToolAgent() Builder {
	return NewBuildFunc("tool_agent",
		func() any { return DefaultAgentConfig() },
		func(cfg any) (*fluentmind.Template, error) {
			c, ok := cfg.(AgentConfig)
			if !ok {
				return nil, fmt.Errorf("invalid config type for tool_agent, expected AgentConfig")
			}
			if err := ValidateAgentConfig(c); err != nil {
				return nil, fmt.Errorf("invalid configuration: %w", err)
			}

			def := DefaultAgentConfig()
			if c.TemplateID == "" {
				c.TemplateID = def.TemplateID
			}
			if c.Name == "" {
				c.Name = def.Name
			}
			if c.Model == "" {
				c.Model = def.Model
			}
			if c.Temperature == "" {
				c.Temperature = def.Temperature
			}
			if c.SystemMessage == "" {
				c.SystemMessage = def.SystemMessage
			}

			fd := agentFlowData(c.Tools)
			if violations := fluentmind.Validate(fd); len(violations) > 0 {
				return nil, fmt.Errorf("tool_agent flow failed validation: %s", violations[0].Message)
			}

			required := append([]string{"chatOpenAI", "toolAgent"}, c.Tools...)
			tpl := &fluentmind.Template{
				TemplateID:    c.TemplateID,
				Name:          c.Name,
				Description:   "Tool-calling agent: a chat model plus tool nodes wired into an agent executor.",
				RequiredNodes: required,
				FlowData:      fd,
				Parameters: map[string]any{
					"model":         c.Model,
					"temperature":   c.Temperature,
					"systemMessage": c.SystemMessage,
				},
			}
			if err := tpl.Validate(); err != nil {
				return nil, fmt.Errorf("tool_agent template invalid: %w", err)
			}
			return tpl, nil
		})
}

// agentFlowData builds the agent flow: the model at depth zero, one
// node per tool below it, everything feeding the agent.
func agentFlowData(tools []string) *fluentmind.FlowData {
	fd := &fluentmind.FlowData{
		Viewport: fluentmind.DefaultViewport(),
		Nodes: []*fluentmind.Node{
			{
				ID:       "chatOpenAI_0",
				Type:     "chatOpenAI",
				Position: &fluentmind.Position{X: 100, Y: 100},
				Data: map[string]any{
					"id":          "chatOpenAI_0",
					"name":        "chatOpenAI",
					"label":       "ChatOpenAI",
					"category":    "Chat Models",
					"baseClasses": []any{"ChatOpenAI", "BaseChatModel"},
					"model":       "{{model}}",
					"temperature": "{{temperature}}",
					"outputAnchors": []any{
						map[string]any{"id": "chatOpenAI_0-output-chatOpenAI-ChatOpenAI", "name": "chatOpenAI", "label": "ChatOpenAI", "type": "ChatOpenAI"},
					},
				},
			},
			{
				ID:       "toolAgent_0",
				Type:     "toolAgent",
				Position: &fluentmind.Position{X: 500, Y: 100},
				Data: map[string]any{
					"id":            "toolAgent_0",
					"name":          "toolAgent",
					"label":         "Tool Agent",
					"category":      "Agents",
					"baseClasses":   []any{"AgentExecutor", "BaseChain"},
					"systemMessage": "{{systemMessage}}",
					"inputAnchors": []any{
						map[string]any{"id": "toolAgent_0-input-model-BaseChatModel", "name": "model", "label": "Chat Model", "type": "BaseChatModel"},
						map[string]any{"id": "toolAgent_0-input-tools-Tool", "name": "tools", "label": "Tools", "type": "Tool"},
					},
					"outputAnchors": []any{
						map[string]any{"id": "toolAgent_0-output-toolAgent-AgentExecutor", "name": "toolAgent", "label": "AgentExecutor", "type": "AgentExecutor"},
					},
				},
			},
		},
		Edges: []*fluentmind.Edge{
			{
				ID:     "chatOpenAI_0-toolAgent_0",
				Source: "chatOpenAI_0",
				Target: "toolAgent_0",
			},
		},
	}

	for i, tool := range tools {
		id := fmt.Sprintf("%s_%d", tool, i)
		fd.Nodes = append(fd.Nodes, &fluentmind.Node{
			ID:       id,
			Type:     tool,
			Position: &fluentmind.Position{X: 100, Y: 350 + float64(i)*250},
			Data: map[string]any{
				"id":          id,
				"name":        tool,
				"label":       tool,
				"category":    "Tools",
				"baseClasses": []any{"Tool"},
				"outputAnchors": []any{
					map[string]any{"id": id + "-output-" + tool + "-Tool", "name": tool, "label": tool, "type": "Tool"},
				},
			},
		})
		fd.Edges = append(fd.Edges, &fluentmind.Edge{
			ID:     id + "-toolAgent_0",
			Source: id,
			Target: "toolAgent_0",
		})
	}
	return fd
}

// init registers tool_agent into the default registry.
func init() {
	DefaultRegistry.MustRegister(NewToolAgent())
}
