// Package tui implements the interactive chat interface for talking to
// the coaching agents from a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asmayaseen/vitacoach/internal/agents"
	"github.com/asmayaseen/vitacoach/internal/orchestrator"
	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

// agentColors maps each agent to its badge color.
var agentColors = map[models.AgentKind]lipgloss.Color{
	models.AgentWellness:  lipgloss.Color("36"),  // teal
	models.AgentNutrition: lipgloss.Color("114"), // green
	models.AgentFitness:   lipgloss.Color("208"), // orange
	models.AgentProgress:  lipgloss.Color("141"), // purple
}

var (
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	systemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	toolStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// eventMsg wraps one streamed agent event.
type eventMsg agents.Event

// turnDoneMsg signals that the event stream closed.
type turnDoneMsg struct{}

// ChatModel is the bubbletea model for an interactive coaching chat.
type ChatModel struct {
	orch *orchestrator.Orchestrator
	sess *session.Context

	input    textinput.Model
	viewport viewport.Model
	lines    []string

	waiting bool
	cancel  context.CancelFunc
	events  <-chan agents.Event

	width  int
	height int
	ready  bool
}

// NewChatModel creates a chat model bound to a session.
func NewChatModel(orch *orchestrator.Orchestrator, sess *session.Context) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask your coach anything..."
	ti.Focus()
	ti.CharLimit = 2000
	ti.Width = 60

	m := &ChatModel{
		orch:  orch,
		sess:  sess,
		input: ti,
	}
	m.appendLine(systemStyle.Render(
		fmt.Sprintf("Connected. Your %s coach is listening. Esc cancels a turn, Ctrl+C quits.", sess.ActiveAgent)))
	return m
}

// Init implements tea.Model.
func (m *ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 6
		vpHeight := msg.Height - 6
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "esc":
			if m.waiting && m.cancel != nil {
				m.cancel()
				m.appendLine(systemStyle.Render("Turn cancelled."))
			}
			return m, nil
		case "enter":
			if m.waiting {
				return m, nil
			}
			return m, m.submit()
		}

	case eventMsg:
		m.handleEvent(agents.Event(msg))
		return m, m.waitForEvent()

	case turnDoneMsg:
		m.waiting = false
		m.cancel = nil
		m.events = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts a turn for the typed message.
func (m *ChatModel) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	m.input.Reset()
	m.appendLine(userStyle.Render("you") + " " + text)

	ctx, cancel := context.WithCancel(context.Background())
	events, err := m.orch.HandleTurn(ctx, m.sess, text)
	if err != nil {
		cancel()
		var gerr *orchestrator.GuardrailError
		if errors.As(err, &gerr) {
			m.appendLine(errorStyle.Render(gerr.Message))
		} else if errors.Is(err, orchestrator.ErrTurnInFlight) {
			m.appendLine(errorStyle.Render("Hold on, your coach is still answering."))
		} else {
			m.appendLine(errorStyle.Render("Could not start the turn: " + err.Error()))
		}
		return nil
	}

	m.waiting = true
	m.cancel = cancel
	m.events = events
	return m.waitForEvent()
}

// waitForEvent reads the next event off the stream.
func (m *ChatModel) waitForEvent() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return turnDoneMsg{}
		}
		return eventMsg(ev)
	}
}

// handleEvent appends a streamed event to the transcript.
func (m *ChatModel) handleEvent(ev agents.Event) {
	switch ev.Type {
	case agents.EventHandoff:
		m.appendLine(systemStyle.Render(
			fmt.Sprintf("Transferring you to your %s coach (%s).", ev.Agent, ev.Text)))
	case agents.EventText:
		m.appendLine(m.agentBadge(ev.Agent) + " " + ev.Text)
	case agents.EventToolUse:
		m.appendLine(toolStyle.Render("· working: " + ev.Tool))
	case agents.EventToolResult:
		if ev.IsError {
			m.appendLine(toolStyle.Render("· retrying: " + ev.Text))
		}
	case agents.EventError:
		m.appendLine(errorStyle.Render(ev.Text))
	case agents.EventDone:
		// Text already streamed via EventText.
	}
}

// agentBadge renders a colored name tag for an agent.
func (m *ChatModel) agentBadge(kind models.AgentKind) string {
	color, ok := agentColors[kind]
	if !ok {
		color = lipgloss.Color("250")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(kind))
}

func (m *ChatModel) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.refreshViewport()
}

func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *ChatModel) View() string {
	if !m.ready {
		return "starting..."
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(agentColors[m.sess.ActiveAgent]).
		Render(fmt.Sprintf("vitacoach · %s coach", m.sess.ActiveAgent))
	if m.waiting {
		header += systemStyle.Render("  thinking...")
	}

	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.width - 2).
		Render(m.input.View())

	return header + "\n" + m.viewport.View() + "\n" + inputBox
}

// Run starts the chat program and blocks until the user quits.
func Run(orch *orchestrator.Orchestrator, sess *session.Context) error {
	p := tea.NewProgram(NewChatModel(orch, sess), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}
