package prebuilt

import (
	"fmt"

	"github.com/YermekIbrayev/fluent-mind-mcp-sub001/pkg/fluentmind"
)

// ChatConfig defines inputs to the basic chat builder. The values
// become the template's default parameters; the flow itself keeps its
// placeholders, so every instantiation may still override them.
type ChatConfig struct {
	TemplateID    string // Catalog id, must match tmpl_[a-z0-9_]+
	Name          string // Display name
	Model         string // Default chat model
	Temperature   string // Default sampling temperature as a decimal string
	SystemMessage string // Default system prompt
}

// DefaultChatConfig creates the stock configuration for a prompted chat
// flow: a prompt template and a chat model feeding a conversation chain.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		TemplateID:    "tmpl_basic_chat",
		Name:          "Basic Chat",
		Model:         "gpt-4o-mini",
		Temperature:   "0.7",
		SystemMessage: "You are a helpful assistant.",
	}
}

// NewBasicChat returns the basic chat prebuilt builder.
func NewBasicChat() Builder {
	return NewBuildFunc("basic_chat",
		func() any { return DefaultChatConfig() },
		func(cfg any) (*fluentmind.Template, error) {
			c, ok := cfg.(ChatConfig)
			if !ok {
				return nil, fmt.Errorf("invalid config type for basic_chat, expected ChatConfig")
			}

			def := DefaultChatConfig()
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

			fd := chatFlowData()
			if violations := fluentmind.Validate(fd); len(violations) > 0 {
				return nil, fmt.Errorf("basic_chat flow failed validation: %s", violations[0].Message)
			}

			tpl := &fluentmind.Template{
				TemplateID:    c.TemplateID,
				Name:          c.Name,
				Description:   "Prompted chat: a prompt template and a chat model wired into a conversation chain.",
				RequiredNodes: []string{"promptTemplate", "chatOpenAI", "conversationChain"},
				FlowData:      fd,
				Parameters: map[string]any{
					"model":         c.Model,
					"temperature":   c.Temperature,
					"systemMessage": c.SystemMessage,
				},
			}
			if err := tpl.Validate(); err != nil {
				return nil, fmt.Errorf("basic_chat template invalid: %w", err)
			}
			return tpl, nil
		})
}

// chatFlowData lays out the canonical chat flow. Placeholder tokens sit
// at the top level of node data where substitution finds them.
func chatFlowData() *fluentmind.FlowData {
	return &fluentmind.FlowData{
		Viewport: fluentmind.DefaultViewport(),
		Nodes: []*fluentmind.Node{
			{
				ID:       "promptTemplate_0",
				Type:     "promptTemplate",
				Position: &fluentmind.Position{X: 100, Y: 100},
				Data: map[string]any{
					"id":          "promptTemplate_0",
					"name":        "promptTemplate",
					"label":       "Prompt Template",
					"category":    "Prompts",
					"baseClasses": []any{"PromptTemplate", "BasePromptTemplate"},
					"template":    "{{systemMessage}}",
					"inputParams": []any{
						map[string]any{"id": "promptTemplate_0-input-template-string", "name": "template", "type": "string"},
					},
					"outputAnchors": []any{
						map[string]any{"id": "promptTemplate_0-output-promptTemplate-PromptTemplate", "name": "promptTemplate", "label": "PromptTemplate", "type": "PromptTemplate"},
					},
				},
			},
			{
				ID:       "chatOpenAI_0",
				Type:     "chatOpenAI",
				Position: &fluentmind.Position{X: 100, Y: 350},
				Data: map[string]any{
					"id":          "chatOpenAI_0",
					"name":        "chatOpenAI",
					"label":       "ChatOpenAI",
					"category":    "Chat Models",
					"baseClasses": []any{"ChatOpenAI", "BaseChatModel"},
					"model":       "{{model}}",
					"temperature": "{{temperature}}",
					"inputParams": []any{
						map[string]any{"id": "chatOpenAI_0-input-modelName-string", "name": "modelName", "type": "string"},
						map[string]any{"id": "chatOpenAI_0-input-temperature-number", "name": "temperature", "type": "number", "optional": true},
					},
					"outputAnchors": []any{
						map[string]any{"id": "chatOpenAI_0-output-chatOpenAI-ChatOpenAI", "name": "chatOpenAI", "label": "ChatOpenAI", "type": "ChatOpenAI"},
					},
				},
			},
			{
				ID:       "conversationChain_0",
				Type:     "conversationChain",
				Position: &fluentmind.Position{X: 500, Y: 100},
				Data: map[string]any{
					"id":          "conversationChain_0",
					"name":        "conversationChain",
					"label":       "Conversation Chain",
					"category":    "Chains",
					"baseClasses": []any{"ConversationChain", "BaseChain"},
					"inputAnchors": []any{
						map[string]any{"id": "conversationChain_0-input-model-BaseChatModel", "name": "model", "label": "Chat Model", "type": "BaseChatModel"},
						map[string]any{"id": "conversationChain_0-input-prompt-BasePromptTemplate", "name": "prompt", "label": "Prompt", "type": "BasePromptTemplate", "optional": true},
					},
					"outputAnchors": []any{
						map[string]any{"id": "conversationChain_0-output-conversationChain-ConversationChain", "name": "conversationChain", "label": "ConversationChain", "type": "ConversationChain"},
					},
				},
			},
		},
		Edges: []*fluentmind.Edge{
			{
				ID:     "promptTemplate_0-conversationChain_0",
				Source: "promptTemplate_0",
				Target: "conversationChain_0",
			},
			{
				ID:     "chatOpenAI_0-conversationChain_0",
				Source: "chatOpenAI_0",
				Target: "conversationChain_0",
			},
		},
	}
}

// init registers basic_chat into the default registry.
func init() {
	DefaultRegistry.MustRegister(NewBasicChat())
}
