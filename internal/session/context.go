// Package session holds the per-user mutable state threaded through every
// conversation turn. Each context is single-writer: the orchestrator
// serializes turns, so context methods do not lock around field access.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

// Context is one user's session state: profile, goals, progress history,
// conversation log and handoff log. It is owned by a single session and
// mutated only by the orchestrator and the agents acting on it.
type Context struct {
	// ID is the unique session identifier.
	ID string
	// Profile holds identity and anthropometrics.
	Profile models.Profile
	// Goals holds the user's goals, newest last.
	Goals []models.Goal
	// Progress holds recorded measurements, append-only.
	Progress []models.ProgressEntry
	// Conversation is the ordered message log.
	Conversation []models.ConversationMessage
	// Handoffs is the append-only handoff log.
	Handoffs []models.HandoffRecord
	// MealPlan is the most recent structured meal plan, if any.
	MealPlan *models.MealPlan
	// WorkoutPlan is the most recent structured workout plan, if any.
	WorkoutPlan *models.WorkoutPlan
	// ActiveAgent is the agent that owns the current turn.
	ActiveAgent models.AgentKind
	// StartedAt is when the session began.
	StartedAt time.Time
	// LastActivity is when the session last processed a turn.
	LastActivity time.Time
	// Dirty is true when in-memory state has not been persisted.
	Dirty bool

	// turnMu serializes turns: at most one in-flight turn per session.
	turnMu   sync.Mutex
	inFlight bool
}

// New creates a session context for the given profile. The initial active
// agent is always the wellness coach.
func New(profile models.Profile) *Context {
	now := time.Now()
	if profile.UserID == "" {
		profile.UserID = uuid.NewString()
	}
	if profile.ActivityLevel == "" {
		profile.ActivityLevel = models.ActivityModerate
	}
	return &Context{
		ID:           uuid.NewString(),
		Profile:      profile,
		ActiveAgent:  models.AgentWellness,
		StartedAt:    now,
		LastActivity: now,
	}
}

// TryBeginTurn marks a turn as in-flight. Returns false if another turn is
// already being processed for this session.
func (c *Context) TryBeginTurn() bool {
	c.turnMu.Lock()
	defer c.turnMu.Unlock()
	if c.inFlight {
		return false
	}
	c.inFlight = true
	return true
}

// EndTurn releases the in-flight turn marker.
func (c *Context) EndTurn() {
	c.turnMu.Lock()
	defer c.turnMu.Unlock()
	c.inFlight = false
}

// AddMessage appends a message to the conversation log and bumps
// LastActivity.
func (c *Context) AddMessage(role models.Role, content string, agent models.AgentKind) {
	c.Conversation = append(c.Conversation, models.ConversationMessage{
		Role:      role,
		Content:   content,
		Agent:     agent,
		Timestamp: time.Now(),
	})
	c.LastActivity = time.Now()
	c.Dirty = true
}

// RecentMessages returns the last n conversation messages.
func (c *Context) RecentMessages(n int) []models.ConversationMessage {
	if n <= 0 || len(c.Conversation) == 0 {
		return nil
	}
	if n > len(c.Conversation) {
		n = len(c.Conversation)
	}
	return c.Conversation[len(c.Conversation)-n:]
}

// AddProgress appends a progress entry to the history.
func (c *Context) AddProgress(entry models.ProgressEntry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.UserID = c.Profile.UserID
	c.Progress = append(c.Progress, entry)
	c.Dirty = true
}

// AddGoal appends a goal to the session.
func (c *Context) AddGoal(goal models.Goal) {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	goal.UserID = c.Profile.UserID
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}
	c.Goals = append(c.Goals, goal)
	c.Dirty = true
}

// ActiveGoal returns the most recently created active goal, or nil.
func (c *Context) ActiveGoal() *models.Goal {
	for i := len(c.Goals) - 1; i >= 0; i-- {
		if c.Goals[i].Status == models.GoalActive {
			return &c.Goals[i]
		}
	}
	return nil
}

// LogHandoff appends a handoff record and switches the active agent. This
// is the only way the active agent changes, which keeps the handoff log
// complete: one record per transfer, never mutated afterward.
func (c *Context) LogHandoff(from, to models.AgentKind, reason string) {
	c.Handoffs = append(c.Handoffs, models.HandoffRecord{
		FromAgent: from,
		ToAgent:   to,
		Reason:    reason,
		Timestamp: time.Now(),
	})
	c.ActiveAgent = to
	c.Dirty = true
}

// BMI returns the profile's body mass index, 0 when unknown.
func (c *Context) BMI() float64 {
	return c.Profile.BMI()
}
