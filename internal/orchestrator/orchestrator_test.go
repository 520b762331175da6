package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/asmayaseen/vitacoach/internal/agents"
	"github.com/asmayaseen/vitacoach/internal/llm"
	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/internal/tools"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

var testNow = func() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

type fakeCompleter struct {
	completions []*llm.Completion
	errs        []error
	calls       int
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.completions) {
		i = len(f.completions) - 1
	}
	if i < 0 || f.completions[i] == nil {
		return nil, errors.New("no scripted completion")
	}
	return f.completions[i], nil
}

type fakeStore struct {
	saves   int
	saveErr error
}

func (f *fakeStore) SaveSession(ctx context.Context, sess *session.Context) error {
	f.saves++
	return f.saveErr
}

func testRegistry() *tools.Registry {
	return tools.NewRegistry(
		tools.NewMealPlannerTool(),
		tools.NewWorkoutPlannerTool(),
		tools.NewProgressTrackerTool(testNow),
		tools.NewGoalAnalyzerTool(testNow),
		tools.NewCheckinSchedulerTool(testNow),
	)
}

func testSession() *session.Context {
	return session.New(models.Profile{Name: "Asma", WeightKg: 60, HeightCm: 165})
}

// drain collects all events until the channel closes.
func drain(t *testing.T, ch <-chan agents.Event) []agents.Event {
	t.Helper()
	var out []agents.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			t.Fatal("timed out draining events")
		}
	}
}

func hasEvent(events []agents.Event, typ agents.EventType) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}

func TestClassify(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		message string
		want    models.AgentKind
		ok      bool
	}{
		{"What should I eat for breakfast?", models.AgentNutrition, true},
		{"Can you make me a meal plan?", models.AgentNutrition, true},
		{"I was diagnosed with diabetes last month", models.AgentNutrition, true},
		{"My knee hurts after running", models.AgentFitness, true},
		{"Suggest a workout for my arms", models.AgentFitness, true},
		{"I want to track my weight", models.AgentProgress, true},
		{"Can I talk to a human coach?", models.AgentProgress, true},
		{"I need help with my sleep", models.AgentWellness, true},
		{"Thanks, that makes sense", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, _, ok := c.Classify(tt.message)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Classify(%q) = %q, %v; want %q, %v", tt.message, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifyEscalationBeatsTopicWords(t *testing.T) {
	c := NewClassifier()
	got, _, ok := c.Classify("I want a human to review my diet")
	if !ok || got != models.AgentProgress {
		t.Errorf("escalation should win, got %q ok=%v", got, ok)
	}
}

func TestGuardrails(t *testing.T) {
	g := NewGuardrails()
	tests := []struct {
		name     string
		message  string
		category GuardrailCategory
	}{
		{"empty", "", GuardrailEmpty},
		{"whitespace only", "   \n\t ", GuardrailEmpty},
		{"too long", strings.Repeat("a", maxMessageLen+1), GuardrailTooLong},
		{"emergency", "I have chest pain and feel dizzy", GuardrailEmergency},
		{"unsafe", "Should I just stop eating for a week?", GuardrailUnsafe},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Check(tt.message)
			var gerr *GuardrailError
			if !errors.As(err, &gerr) {
				t.Fatalf("Check() = %v, want *GuardrailError", err)
			}
			if gerr.Category != tt.category {
				t.Errorf("category = %q, want %q", gerr.Category, tt.category)
			}
			if gerr.Message == "" {
				t.Error("guardrail message must be user-facing, not empty")
			}
		})
	}

	if err := g.Check("What should I eat today?"); err != nil {
		t.Errorf("normal message rejected: %v", err)
	}
}

func TestHandleTurnHandsOffToNutrition(t *testing.T) {
	fake := &fakeCompleter{completions: []*llm.Completion{
		{Text: "Oats with fruit is a solid start.", StopReason: llm.StopEndTurn},
	}}
	o := New(fake, testRegistry())
	sess := testSession()

	ch, err := o.HandleTurn(context.Background(), sess, "What should I eat for breakfast?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	events := drain(t, ch)

	if sess.ActiveAgent != models.AgentNutrition {
		t.Errorf("active agent = %q, want nutrition", sess.ActiveAgent)
	}
	if len(sess.Handoffs) != 1 {
		t.Fatalf("handoffs = %d, want 1", len(sess.Handoffs))
	}
	h := sess.Handoffs[0]
	if h.FromAgent != models.AgentWellness || h.ToAgent != models.AgentNutrition {
		t.Errorf("handoff = %s -> %s", h.FromAgent, h.ToAgent)
	}
	if !hasEvent(events, agents.EventHandoff) || !hasEvent(events, agents.EventDone) {
		t.Error("expected handoff and done events")
	}
	if len(sess.Conversation) != 2 {
		t.Errorf("conversation length = %d, want 2", len(sess.Conversation))
	}
}

func TestHandleTurnStaysWithIncumbent(t *testing.T) {
	fake := &fakeCompleter{completions: []*llm.Completion{
		{Text: "Happy to help.", StopReason: llm.StopEndTurn},
	}}
	o := New(fake, testRegistry())
	sess := testSession()

	// First turn moves to nutrition; the follow-ups must not log more
	// handoffs: one on topic, one unclassifiable.
	for _, msg := range []string{
		"Plan my meals for the week",
		"Can you add more variety to my lunch?",
		"Sounds great, thanks!",
	} {
		ch, err := o.HandleTurn(context.Background(), sess, msg)
		if err != nil {
			t.Fatalf("HandleTurn(%q) error = %v", msg, err)
		}
		drain(t, ch)
	}

	if len(sess.Handoffs) != 1 {
		t.Errorf("handoffs = %d, want 1 (default to incumbent)", len(sess.Handoffs))
	}
	if sess.ActiveAgent != models.AgentNutrition {
		t.Errorf("active agent = %q, want nutrition", sess.ActiveAgent)
	}
}

func TestHandleTurnRejectsConcurrent(t *testing.T) {
	o := New(&fakeCompleter{}, testRegistry())
	sess := testSession()
	if !sess.TryBeginTurn() {
		t.Fatal("could not take the turn slot")
	}
	defer sess.EndTurn()

	_, err := o.HandleTurn(context.Background(), sess, "hello there, any tips?")
	if !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("error = %v, want ErrTurnInFlight", err)
	}
}

func TestHandleTurnGuardrailIsSynchronous(t *testing.T) {
	o := New(&fakeCompleter{}, testRegistry())
	sess := testSession()

	_, err := o.HandleTurn(context.Background(), sess, "")
	var gerr *GuardrailError
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *GuardrailError", err)
	}
	// The turn slot must not be consumed by a rejected message.
	if !sess.TryBeginTurn() {
		t.Error("turn slot leaked after guardrail rejection")
	}
	sess.EndTurn()
}

func TestHandleTurnLLMFailureLeavesConversation(t *testing.T) {
	boom := errors.New("api down")
	fake := &fakeCompleter{errs: []error{boom, boom}}
	o := New(fake, testRegistry())
	sess := testSession()

	ch, err := o.HandleTurn(context.Background(), sess, "What should I eat for breakfast?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	events := drain(t, ch)

	if !hasEvent(events, agents.EventError) {
		t.Error("expected a user-facing error event")
	}
	if hasEvent(events, agents.EventDone) {
		t.Error("failed turn must not emit done")
	}
	if len(sess.Conversation) != 0 {
		t.Error("failed turn must not commit conversation messages")
	}
	// The handoff decision precedes the response and stays committed.
	if len(sess.Handoffs) != 1 {
		t.Errorf("handoffs = %d, want 1", len(sess.Handoffs))
	}

	// The session accepts the next turn.
	if !sess.TryBeginTurn() {
		t.Error("turn slot leaked after a failed turn")
	}
	sess.EndTurn()
}

func TestHandleTurnPersistsSession(t *testing.T) {
	fake := &fakeCompleter{completions: []*llm.Completion{
		{Text: "Noted.", StopReason: llm.StopEndTurn},
	}}
	store := &fakeStore{}
	o := New(fake, testRegistry(), WithStore(store))
	sess := testSession()

	ch, err := o.HandleTurn(context.Background(), sess, "I slept badly, any advice?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	drain(t, ch)

	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
	if sess.Dirty {
		t.Error("saved session must not stay dirty")
	}
}

func TestHandleTurnSaveFailureKeepsDirty(t *testing.T) {
	fake := &fakeCompleter{completions: []*llm.Completion{
		{Text: "Noted.", StopReason: llm.StopEndTurn},
	}}
	store := &fakeStore{saveErr: errors.New("disk full")}
	o := New(fake, testRegistry(), WithStore(store))
	sess := testSession()

	ch, err := o.HandleTurn(context.Background(), sess, "I slept badly, any advice?")
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	events := drain(t, ch)

	if !hasEvent(events, agents.EventDone) {
		t.Error("a save failure must not fail the turn")
	}
	if !sess.Dirty {
		t.Error("unsaved session must stay dirty for the next attempt")
	}
}
