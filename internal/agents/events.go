package agents

import "github.com/asmayaseen/vitacoach/pkg/models"

// EventType identifies what a stream event carries.
type EventType string

const (
	// EventText is a chunk of assistant text.
	EventText EventType = "text"
	// EventToolUse announces a tool invocation.
	EventToolUse EventType = "tool_use"
	// EventToolResult carries a tool outcome, including validation errors.
	EventToolResult EventType = "tool_result"
	// EventHandoff announces an agent transfer (emitted by the orchestrator).
	EventHandoff EventType = "handoff"
	// EventDone closes a successful turn.
	EventDone EventType = "done"
	// EventError closes a failed turn with a user-facing message.
	EventError EventType = "error"
)

// Event is one unit of streamed turn output.
type Event struct {
	// Type identifies the event.
	Type EventType `json:"type"`
	// Agent is the agent that produced the event.
	Agent models.AgentKind `json:"agent,omitempty"`
	// Text is assistant text for text/done events, or the user-facing
	// message for error events.
	Text string `json:"text,omitempty"`
	// Tool is the tool name for tool events.
	Tool string `json:"tool,omitempty"`
	// IsError marks failed tool results.
	IsError bool `json:"is_error,omitempty"`
}
