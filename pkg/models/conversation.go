package models

import (
	"fmt"
	"time"
)

// AgentKind identifies one of the specialized coaching agents.
type AgentKind string

const (
	// AgentWellness is the general-purpose coach and initial agent.
	AgentWellness AgentKind = "wellness"
	// AgentNutrition handles diet, meals and food questions.
	AgentNutrition AgentKind = "nutrition"
	// AgentFitness handles exercise, workouts and injury questions.
	AgentFitness AgentKind = "fitness"
	// AgentProgress handles goal tracking, metrics and escalation to
	// a human coach.
	AgentProgress AgentKind = "progress"
)

// Valid returns true if the agent kind is a known value.
func (k AgentKind) Valid() bool {
	switch k {
	case AgentWellness, AgentNutrition, AgentFitness, AgentProgress:
		return true
	default:
		return false
	}
}

// AgentKinds returns all agent kinds in routing order.
func AgentKinds() []AgentKind {
	return []AgentKind{AgentWellness, AgentNutrition, AgentFitness, AgentProgress}
}

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationMessage is one entry in a session's ordered conversation log.
type ConversationMessage struct {
	// Role is who authored the message.
	Role Role `json:"role"`
	// Content is the message text.
	Content string `json:"content"`
	// Agent is the agent that produced an assistant message, empty for
	// user and system messages.
	Agent AgentKind `json:"agent,omitempty"`
	// Timestamp is when the message was recorded.
	Timestamp time.Time `json:"timestamp"`
}

// HandoffRecord is an immutable log entry describing a transfer of the
// active agent within a session. Records are append-only.
type HandoffRecord struct {
	// FromAgent is the agent that was active before the handoff.
	FromAgent AgentKind `json:"from_agent"`
	// ToAgent is the agent that became active.
	ToAgent AgentKind `json:"to_agent"`
	// Reason is a short explanation for the transfer.
	Reason string `json:"reason"`
	// Timestamp is when the handoff occurred.
	Timestamp time.Time `json:"timestamp"`
}

// String renders the record in the single-line log format.
func (h HandoffRecord) String() string {
	return fmt.Sprintf("%s: %s -> %s (%s)",
		h.Timestamp.Format(time.RFC3339), h.FromAgent, h.ToAgent, h.Reason)
}
