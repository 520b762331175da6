package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
)

// Stop reasons reported in Completion.StopReason.
const (
	StopEndTurn   = "end_turn"
	StopToolUse   = "tool_use"
	StopMaxTokens = "max_tokens"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolDef describes one tool exposed to the model.
type ToolDef struct {
	// Name is the tool identifier.
	Name string
	// Description tells the model when to use the tool.
	Description string
	// Properties is the JSON schema properties map for the input.
	Properties map[string]interface{}
	// Required lists the mandatory input fields.
	Required []string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	// ID correlates the call with its result.
	ID string
	// Name is the requested tool.
	Name string
	// Input is the raw JSON input for the tool.
	Input json.RawMessage
}

// ToolResult is the outcome of a tool call fed back to the model.
type ToolResult struct {
	// CallID is the ToolCall.ID this result answers.
	CallID string
	// Content is the result text.
	Content string
	// IsError marks failed tool calls so the model can self-correct.
	IsError bool
}

// Message is one entry in the completion transcript.
type Message struct {
	// Role is user or assistant.
	Role Role
	// Text is the message text, may be empty for pure tool messages.
	Text string
	// ToolCalls are tool uses on an assistant message.
	ToolCalls []ToolCall
	// ToolResults are tool results on a user message.
	ToolResults []ToolResult
}

// Request is one completion request.
type Request struct {
	// System is the system prompt.
	System string
	// Messages is the conversation transcript, oldest first.
	Messages []Message
	// Tools lists the tools the model may call.
	Tools []ToolDef
	// MaxTokens caps the response length; 0 uses the default.
	MaxTokens int64
}

// Usage is token accounting for one completion.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Completion is the model's response.
type Completion struct {
	// Text is the concatenated text content.
	Text string
	// ToolCalls lists requested tool invocations, in order.
	ToolCalls []ToolCall
	// StopReason is end_turn, tool_use or max_tokens.
	StopReason string
	// Usage is the token accounting for this call.
	Usage Usage
}

// Completer is the narrow interface agents depend on, so tests can swap in
// a fake without touching the SDK.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

const defaultMaxTokens = 4096

// Complete implements Completer against the Anthropic API.
func (c *Client) Complete(ctx context.Context, req Request) (*Completion, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  buildMessages(req.Messages),
		Tools:     buildTools(req.Tools),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.inner.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic messages: %w", err)
	}

	c.tracker.Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	completion := &Completion{
		StopReason: string(resp.StopReason),
		Usage: Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}

	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			completion.Text += variant.Text
		case anthropic.ToolUseBlock:
			completion.ToolCalls = append(completion.ToolCalls, ToolCall{
				ID:    variant.ID,
				Name:  variant.Name,
				Input: json.RawMessage(variant.Input),
			})
		}
	}

	return completion, nil
}

// buildMessages translates the transcript into SDK message params.
func buildMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		var blocks []anthropic.ContentBlockParamUnion
		if m.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(m.Text))
		}
		for _, call := range m.ToolCalls {
			blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Input, call.Name))
		}
		for _, result := range m.ToolResults {
			blocks = append(blocks, anthropic.NewToolResultBlock(result.CallID, result.Content, result.IsError))
		}
		if len(blocks) == 0 {
			continue
		}
		if m.Role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

// buildTools translates tool definitions into SDK tool params.
func buildTools(defs []ToolDef) []anthropic.ToolUnionParam {
	if len(defs) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: def.Properties,
					Required:   def.Required,
				},
			},
		})
	}
	return out
}
