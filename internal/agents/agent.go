package agents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/asmayaseen/vitacoach/internal/llm"
	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/internal/tools"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

// ErrLLMUnavailable is returned when the model call failed after the
// retry. It is recoverable: the orchestrator surfaces a try-again message
// and leaves the session context unchanged.
var ErrLLMUnavailable = errors.New("language model unavailable")

// ErrToolNotAllowed is returned when the model requests a tool outside
// the agent's declared capability set.
var ErrToolNotAllowed = errors.New("tool not in agent capability set")

const (
	// defaultMaxIterations caps the tool-use loop per turn.
	defaultMaxIterations = 5
	// historyWindow is how many prior conversation messages each turn
	// carries into the prompt.
	historyWindow = 12
)

// Agent is one specialized coaching agent: a system prompt bundle plus
// the subset of tools it may invoke.
type Agent struct {
	kind          models.AgentKind
	completer     llm.Completer
	registry      *tools.Registry
	maxIterations int
}

// New creates an agent of the given kind.
func New(kind models.AgentKind, completer llm.Completer, registry *tools.Registry) *Agent {
	return &Agent{
		kind:          kind,
		completer:     completer,
		registry:      registry,
		maxIterations: defaultMaxIterations,
	}
}

// Kind returns the agent's kind.
func (a *Agent) Kind() models.AgentKind {
	return a.kind
}

// TurnResult is the committed outcome of a successful turn.
type TurnResult struct {
	// Reply is the assistant's full text response.
	Reply string
}

// Respond processes one user message against the session context,
// emitting stream events as output arrives. Tool effects and the reply
// are applied to the context only when the whole turn succeeds; a
// cancelled or failed turn leaves the context untouched except for
// conversation bookkeeping done by the caller.
func (a *Agent) Respond(ctx context.Context, sess *session.Context, message string, events chan<- Event) (*TurnResult, error) {
	transcript := a.historyMessages(sess)
	transcript = append(transcript, llm.Message{Role: llm.RoleUser, Text: message})

	system := buildSystemPrompt(a.kind, sess)
	defs := a.toolDefs()

	var replyParts []string
	var staged []interface{}

	for iter := 0; iter < a.maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		completion, err := a.complete(ctx, llm.Request{
			System:   system,
			Messages: transcript,
			Tools:    defs,
		})
		if err != nil {
			return nil, err
		}

		if completion.Text != "" {
			replyParts = append(replyParts, completion.Text)
			a.emit(ctx, events, Event{Type: EventText, Agent: a.kind, Text: completion.Text})
		}

		if len(completion.ToolCalls) == 0 || completion.StopReason == llm.StopEndTurn {
			result := &TurnResult{Reply: strings.Join(replyParts, "\n\n")}
			if err := a.applyEffects(sess, staged); err != nil {
				return nil, err
			}
			return result, nil
		}

		assistant := llm.Message{
			Role:      llm.RoleAssistant,
			Text:      completion.Text,
			ToolCalls: completion.ToolCalls,
		}
		var results []llm.ToolResult

		for _, call := range completion.ToolCalls {
			a.emit(ctx, events, Event{Type: EventToolUse, Agent: a.kind, Tool: call.Name})

			if !toolAllowed(a.kind, call.Name) {
				return nil, fmt.Errorf("agent %s requested %s: %w", a.kind, call.Name, ErrToolNotAllowed)
			}
			tool := a.registry.Get(call.Name)
			if tool == nil {
				return nil, fmt.Errorf("agent %s requested unregistered tool %s: %w", a.kind, call.Name, ErrToolNotAllowed)
			}

			result, err := tool.Execute(call.Input)
			var verr *tools.ValidationError
			switch {
			case errors.As(err, &verr):
				// Recoverable: feed the validation error back so the
				// model can correct its input or ask the user.
				a.emit(ctx, events, Event{Type: EventToolResult, Agent: a.kind, Tool: call.Name, Text: verr.Error(), IsError: true})
				results = append(results, llm.ToolResult{CallID: call.ID, Content: verr.Error(), IsError: true})
			case err != nil:
				return nil, fmt.Errorf("tool %s: %w", call.Name, err)
			default:
				staged = append(staged, result.Data)
				a.emit(ctx, events, Event{Type: EventToolResult, Agent: a.kind, Tool: call.Name, Text: result.Summary})
				results = append(results, llm.ToolResult{CallID: call.ID, Content: result.Summary})
			}
		}

		transcript = append(transcript, assistant)
		transcript = append(transcript, llm.Message{Role: llm.RoleUser, ToolResults: results})
	}

	return nil, fmt.Errorf("turn exceeded %d tool iterations", a.maxIterations)
}

// complete calls the model, retrying once on failure before reporting the
// call as unavailable.
func (a *Agent) complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	completion, err := a.completer.Complete(ctx, req)
	if err == nil {
		return completion, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	completion, retryErr := a.completer.Complete(ctx, req)
	if retryErr == nil {
		return completion, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrLLMUnavailable, retryErr)
}

// historyMessages converts the recent conversation log into transcript
// messages.
func (a *Agent) historyMessages(sess *session.Context) []llm.Message {
	var out []llm.Message
	for _, m := range sess.RecentMessages(historyWindow) {
		switch m.Role {
		case models.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Text: m.Content})
		case models.RoleAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Text: m.Content})
		}
	}
	return out
}

// toolDefs builds the LLM tool definitions for this agent's allowed set.
func (a *Agent) toolDefs() []llm.ToolDef {
	var defs []llm.ToolDef
	for _, name := range AllowedTools(a.kind) {
		tool := a.registry.Get(name)
		if tool == nil {
			continue
		}
		properties, required := tool.InputSchema()
		defs = append(defs, llm.ToolDef{
			Name:        tool.Name(),
			Description: tool.Description(),
			Properties:  properties,
			Required:    required,
		})
	}
	return defs
}

// applyEffects writes staged tool output into the session context. Each
// agent may only touch the context fields in its own domain; crossing
// domains is a contract violation.
func (a *Agent) applyEffects(sess *session.Context, staged []interface{}) error {
	for _, data := range staged {
		switch effect := data.(type) {
		case models.Goal:
			if a.kind != models.AgentWellness && a.kind != models.AgentProgress {
				return fmt.Errorf("agent %s may not write goals", a.kind)
			}
			sess.AddGoal(effect)
		case models.ProgressEntry:
			if a.kind != models.AgentProgress {
				return fmt.Errorf("agent %s may not write progress entries", a.kind)
			}
			sess.AddProgress(effect)
			syncActiveGoal(sess, effect)
		case models.MealPlan:
			if a.kind != models.AgentNutrition {
				return fmt.Errorf("agent %s may not write meal plans", a.kind)
			}
			if effect.ID == "" {
				effect.ID = uuid.NewString()
			}
			effect.UserID = sess.Profile.UserID
			plan := effect
			sess.MealPlan = &plan
			sess.Dirty = true
		case models.WorkoutPlan:
			if a.kind != models.AgentFitness {
				return fmt.Errorf("agent %s may not write workout plans", a.kind)
			}
			if effect.ID == "" {
				effect.ID = uuid.NewString()
			}
			effect.UserID = sess.Profile.UserID
			plan := effect
			sess.WorkoutPlan = &plan
			sess.Dirty = true
		case tools.CheckinSchedule:
			// Informational: surfaced in the reply, nothing to store.
		default:
			return fmt.Errorf("unknown tool effect %T", data)
		}
	}
	return nil
}

// syncActiveGoal moves the active goal's current value when a progress
// entry is recorded in the goal's unit. Weight goals are measured as the
// change from the profile's starting weight; everything else takes the
// entry value directly.
func syncActiveGoal(sess *session.Context, entry models.ProgressEntry) {
	goal := sess.ActiveGoal()
	if goal == nil || goal.Unit == "" || goal.Unit != entry.Unit {
		return
	}

	switch goal.Category {
	case models.GoalWeightLoss:
		if sess.Profile.WeightKg <= 0 {
			return
		}
		lost := sess.Profile.WeightKg - entry.Value
		if lost < 0 {
			lost = 0
		}
		goal.CurrentValue = lost
	case models.GoalWeightGain, models.GoalMuscleGain:
		if sess.Profile.WeightKg <= 0 {
			return
		}
		gained := entry.Value - sess.Profile.WeightKg
		if gained < 0 {
			gained = 0
		}
		goal.CurrentValue = gained
	default:
		goal.CurrentValue = entry.Value
	}
	goal.UpdatedAt = entry.RecordedAt
	sess.Dirty = true
}

// emit sends an event without blocking past cancellation.
func (a *Agent) emit(ctx context.Context, events chan<- Event, ev Event) {
	if events == nil {
		return
	}
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
