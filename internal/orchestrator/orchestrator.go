// Package orchestrator routes conversation turns to specialized coaching
// agents. It owns turn serialization, input guardrails, intent
// classification and the handoff policy; agents never transfer control
// between themselves.
package orchestrator

import (
	"context"
	"errors"
	"log"

	"github.com/asmayaseen/vitacoach/internal/agents"
	"github.com/asmayaseen/vitacoach/internal/llm"
	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/internal/tools"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

// ErrTurnInFlight is returned when a turn arrives while the session is
// still processing a previous one.
var ErrTurnInFlight = errors.New("a turn is already in progress for this session")

// Store persists session state between turns.
type Store interface {
	SaveSession(ctx context.Context, sess *session.Context) error
}

// Orchestrator is the sole entry point for conversation turns.
type Orchestrator struct {
	agents     map[models.AgentKind]*agents.Agent
	classifier *Classifier
	guard      *Guardrails
	store      Store
	logger     *DebugLogger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithStore enables persistence of session state after each turn.
func WithStore(s Store) Option {
	return func(o *Orchestrator) { o.store = s }
}

// WithLogger sets the debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an orchestrator with one agent per kind, all backed by the
// same completer and tool registry.
func New(completer llm.Completer, registry *tools.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agents:     make(map[models.AgentKind]*agents.Agent, len(models.AgentKinds())),
		classifier: NewClassifier(),
		guard:      NewGuardrails(),
		logger:     NopLogger(),
	}
	for _, kind := range models.AgentKinds() {
		o.agents[kind] = agents.New(kind, completer, registry)
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleTurn processes one user message against a session. Guardrail and
// concurrency failures are reported synchronously; otherwise the returned
// channel streams events and is closed when the turn finishes. The user
// and assistant messages are committed to the conversation log only when
// the turn succeeds.
func (o *Orchestrator) HandleTurn(ctx context.Context, sess *session.Context, message string) (<-chan agents.Event, error) {
	if err := o.guard.Check(message); err != nil {
		o.logger.Log("session %s rejected: %v", sess.ID, err)
		return nil, err
	}
	if !sess.TryBeginTurn() {
		return nil, ErrTurnInFlight
	}

	events := make(chan agents.Event, 16)
	go func() {
		defer close(events)
		defer sess.EndTurn()
		o.runTurn(ctx, sess, message, events)
	}()
	return events, nil
}

// runTurn classifies, hands off if needed, and dispatches to the active
// agent.
func (o *Orchestrator) runTurn(ctx context.Context, sess *session.Context, message string, events chan<- agents.Event) {
	o.route(ctx, sess, message, events)

	agent := o.agents[sess.ActiveAgent]
	result, err := agent.Respond(ctx, sess, message, events)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		o.logger.Log("session %s turn cancelled", sess.ID)
		return
	case errors.Is(err, agents.ErrLLMUnavailable):
		o.logger.Log("session %s llm unavailable: %v", sess.ID, err)
		o.emit(ctx, events, agents.Event{
			Type:  agents.EventError,
			Agent: sess.ActiveAgent,
			Text:  "Your coach is temporarily unavailable. Please try again in a moment.",
		})
		return
	case err != nil:
		o.logger.Log("session %s turn failed: %v", sess.ID, err)
		o.emit(ctx, events, agents.Event{
			Type:  agents.EventError,
			Agent: sess.ActiveAgent,
			Text:  "Something went wrong handling that message. Please try again.",
		})
		return
	}

	sess.AddMessage(models.RoleUser, message, sess.ActiveAgent)
	sess.AddMessage(models.RoleAssistant, result.Reply, sess.ActiveAgent)
	o.persist(ctx, sess)

	o.emit(ctx, events, agents.Event{
		Type:  agents.EventDone,
		Agent: sess.ActiveAgent,
		Text:  result.Reply,
	})
}

// route applies the handoff policy: when the classified intent belongs to
// a different agent, log the handoff and switch before responding. An
// unclassifiable message stays with the incumbent.
func (o *Orchestrator) route(ctx context.Context, sess *session.Context, message string, events chan<- agents.Event) {
	target, reason, ok := o.classifier.Classify(message)
	if !ok || target == sess.ActiveAgent {
		return
	}

	from := sess.ActiveAgent
	sess.LogHandoff(from, target, reason)
	o.logger.Log("session %s handoff %s -> %s (%s)", sess.ID, from, target, reason)
	o.emit(ctx, events, agents.Event{
		Type:  agents.EventHandoff,
		Agent: target,
		Text:  reason,
	})
}

// persist saves the session when a store is configured. A save failure
// keeps the context dirty; the next successful turn retries.
func (o *Orchestrator) persist(ctx context.Context, sess *session.Context) {
	if o.store == nil || !sess.Dirty {
		return
	}
	if err := o.store.SaveSession(ctx, sess); err != nil {
		log.Printf("[orchestrator] save session %s: %v", sess.ID, err)
		o.logger.Log("session %s save failed: %v", sess.ID, err)
		return
	}
	sess.Dirty = false
}

func (o *Orchestrator) emit(ctx context.Context, events chan<- agents.Event, ev agents.Event) {
	select {
	case events <- ev:
	case <-ctx.Done():
	}
}
