package session

import (
	"testing"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

func newTestContext() *Context {
	return New(models.Profile{Name: "Asma", WeightKg: 60, HeightCm: 165})
}

func TestNewDefaults(t *testing.T) {
	c := newTestContext()

	if c.ID == "" {
		t.Error("New() should assign a session ID")
	}
	if c.Profile.UserID == "" {
		t.Error("New() should assign a user ID")
	}
	if c.ActiveAgent != models.AgentWellness {
		t.Errorf("initial active agent = %q, want %q", c.ActiveAgent, models.AgentWellness)
	}
	if c.Profile.ActivityLevel != models.ActivityModerate {
		t.Errorf("default activity level = %q, want moderate", c.Profile.ActivityLevel)
	}
}

func TestAddMessageAndRecent(t *testing.T) {
	c := newTestContext()

	c.AddMessage(models.RoleUser, "hello", "")
	c.AddMessage(models.RoleAssistant, "hi there", models.AgentWellness)
	c.AddMessage(models.RoleUser, "what should I eat?", "")

	if len(c.Conversation) != 3 {
		t.Fatalf("conversation length = %d, want 3", len(c.Conversation))
	}
	if !c.Dirty {
		t.Error("AddMessage should mark context dirty")
	}

	recent := c.RecentMessages(2)
	if len(recent) != 2 {
		t.Fatalf("RecentMessages(2) length = %d, want 2", len(recent))
	}
	if recent[1].Content != "what should I eat?" {
		t.Errorf("last recent message = %q", recent[1].Content)
	}

	if got := c.RecentMessages(10); len(got) != 3 {
		t.Errorf("RecentMessages(10) length = %d, want 3", len(got))
	}
	if got := c.RecentMessages(0); got != nil {
		t.Error("RecentMessages(0) should return nil")
	}
}

func TestLogHandoffAppendOnly(t *testing.T) {
	c := newTestContext()

	c.LogHandoff(models.AgentWellness, models.AgentNutrition, "diet question")
	if c.ActiveAgent != models.AgentNutrition {
		t.Errorf("active agent = %q, want nutrition", c.ActiveAgent)
	}
	if len(c.Handoffs) != 1 {
		t.Fatalf("handoff log length = %d, want 1", len(c.Handoffs))
	}

	before := len(c.Handoffs)
	c.LogHandoff(models.AgentNutrition, models.AgentFitness, "workout question")
	if len(c.Handoffs) != before+1 {
		t.Error("handoff log length must never decrease")
	}
	if c.Handoffs[0].ToAgent != models.AgentNutrition {
		t.Error("earlier handoff records must not be mutated")
	}
}

func TestAddGoalAndActiveGoal(t *testing.T) {
	c := newTestContext()

	if c.ActiveGoal() != nil {
		t.Error("ActiveGoal() on empty context should be nil")
	}

	c.AddGoal(models.Goal{Title: "lose 5kg", Category: models.GoalWeightLoss, TargetValue: 5})
	c.AddGoal(models.Goal{Title: "run 10k", Category: models.GoalEndurance, TargetValue: 10, Status: models.GoalCompleted})

	g := c.ActiveGoal()
	if g == nil || g.Title != "lose 5kg" {
		t.Fatalf("ActiveGoal() = %+v, want the active weight goal", g)
	}
	if g.UserID != c.Profile.UserID {
		t.Error("AddGoal should scope the goal to the session user")
	}
}

func TestTurnSerialization(t *testing.T) {
	c := newTestContext()

	if !c.TryBeginTurn() {
		t.Fatal("first TryBeginTurn should succeed")
	}
	if c.TryBeginTurn() {
		t.Error("second TryBeginTurn while in-flight should fail")
	}
	c.EndTurn()
	if !c.TryBeginTurn() {
		t.Error("TryBeginTurn after EndTurn should succeed")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	c := newTestContext()
	c.AddGoal(models.Goal{Title: "lose 5kg", TargetValue: 5})
	c.AddProgress(models.ProgressEntry{Metric: "weight", Value: 60})
	c.LogHandoff(models.AgentWellness, models.AgentProgress, "tracking")

	snap := c.Snapshot()

	// Mutating the snapshot must not touch the live context.
	snap.Goals[0].Title = "changed"
	snap.Progress[0].Value = 0
	snap.Handoffs[0].Reason = "changed"

	if c.Goals[0].Title != "lose 5kg" {
		t.Error("snapshot goal mutation leaked into context")
	}
	if c.Progress[0].Value != 60 {
		t.Error("snapshot progress mutation leaked into context")
	}
	if c.Handoffs[0].Reason != "tracking" {
		t.Error("snapshot handoff mutation leaked into context")
	}
}
