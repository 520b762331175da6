package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asmayaseen/vitacoach/internal/agents"
	"github.com/asmayaseen/vitacoach/internal/llm"
	"github.com/asmayaseen/vitacoach/internal/orchestrator"
	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/internal/tools"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

type stubCompleter struct{}

func (stubCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	return &llm.Completion{Text: "ok", StopReason: llm.StopEndTurn}, nil
}

func testModel(t *testing.T) *ChatModel {
	t.Helper()
	registry := tools.NewRegistry(tools.NewMealPlannerTool())
	orch := orchestrator.New(stubCompleter{}, registry)
	sess := session.New(models.Profile{Name: "Asma"})
	return NewChatModel(orch, sess)
}

func TestAgentBadgeCoversAllAgents(t *testing.T) {
	for _, kind := range models.AgentKinds() {
		if _, ok := agentColors[kind]; !ok {
			t.Errorf("agent %q has no badge color", kind)
		}
	}
}

func TestHandleEventAppendsTranscript(t *testing.T) {
	m := testModel(t)
	before := len(m.lines)

	m.handleEvent(agents.Event{Type: agents.EventHandoff, Agent: models.AgentNutrition, Text: "diet topic"})
	m.handleEvent(agents.Event{Type: agents.EventText, Agent: models.AgentNutrition, Text: "Here is a plan."})
	m.handleEvent(agents.Event{Type: agents.EventError, Text: "try again"})

	if len(m.lines) != before+3 {
		t.Fatalf("lines = %d, want %d", len(m.lines), before+3)
	}
	joined := strings.Join(m.lines, "\n")
	for _, want := range []string{"nutrition", "Here is a plan.", "try again"} {
		if !strings.Contains(joined, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestDoneEventAddsNoLine(t *testing.T) {
	m := testModel(t)
	before := len(m.lines)
	m.handleEvent(agents.Event{Type: agents.EventDone, Text: "full reply"})
	if len(m.lines) != before {
		t.Error("done events must not duplicate streamed text")
	}
}

func TestWindowSizePreparesViewport(t *testing.T) {
	m := testModel(t)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	cm := model.(*ChatModel)
	if !cm.ready {
		t.Fatal("model should be ready after a window size message")
	}
	if view := cm.View(); !strings.Contains(view, "wellness coach") {
		t.Errorf("view missing active agent header: %q", view)
	}
}
