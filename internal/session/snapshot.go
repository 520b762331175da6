package session

import (
	"time"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

// Snapshot is a deep-copied, read-only view of a session context. Report
// and export code consumes snapshots so it can never mutate live state.
type Snapshot struct {
	SessionID    string
	Profile      models.Profile
	Goals        []models.Goal
	Progress     []models.ProgressEntry
	Conversation []models.ConversationMessage
	Handoffs     []models.HandoffRecord
	MealPlan     *models.MealPlan
	WorkoutPlan  *models.WorkoutPlan
	ActiveAgent  models.AgentKind
	StartedAt    time.Time
	LastActivity time.Time
}

// Snapshot returns a deep copy of the context's exported state.
func (c *Context) Snapshot() Snapshot {
	s := Snapshot{
		SessionID:    c.ID,
		Profile:      c.Profile,
		Goals:        append([]models.Goal(nil), c.Goals...),
		Progress:     append([]models.ProgressEntry(nil), c.Progress...),
		Conversation: append([]models.ConversationMessage(nil), c.Conversation...),
		Handoffs:     append([]models.HandoffRecord(nil), c.Handoffs...),
		ActiveAgent:  c.ActiveAgent,
		StartedAt:    c.StartedAt,
		LastActivity: c.LastActivity,
	}
	s.Profile.DietaryPreferences = append([]models.DietaryPreference(nil), c.Profile.DietaryPreferences...)
	s.Profile.FoodAllergies = append([]string(nil), c.Profile.FoodAllergies...)
	s.Profile.MedicalConditions = append([]string(nil), c.Profile.MedicalConditions...)
	if c.MealPlan != nil {
		plan := *c.MealPlan
		plan.Days = append([]models.MealPlanDay(nil), c.MealPlan.Days...)
		s.MealPlan = &plan
	}
	if c.WorkoutPlan != nil {
		plan := *c.WorkoutPlan
		plan.Days = append([]models.WorkoutDay(nil), c.WorkoutPlan.Days...)
		s.WorkoutPlan = &plan
	}
	return s
}
