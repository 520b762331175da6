package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var version int
	row := db.QueryRow("SELECT MAX(version) FROM schema_version")
	if err := row.Scan(&version); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if version != 3 {
		t.Errorf("schema version = %d, want 3", version)
	}
}

func TestSaveAndLoadSession(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	sess := session.New(models.Profile{
		Name:               "Asma",
		Age:                29,
		WeightKg:           60,
		HeightCm:           165,
		DietaryPreferences: []models.DietaryPreference{models.DietVegetarian},
		FoodAllergies:      []string{"peanuts"},
	})
	sess.AddGoal(models.Goal{
		Title:       "lose 5kg",
		Category:    models.GoalWeightLoss,
		TargetValue: 5,
		Unit:        "kg",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	})
	sess.AddProgress(models.ProgressEntry{
		Metric:     "weight",
		Value:      59.5,
		Unit:       "kg",
		RecordedAt: time.Now(),
	})
	sess.AddMessage(models.RoleUser, "What should I eat?", models.AgentWellness)
	sess.AddMessage(models.RoleAssistant, "Let's look at your meals.", models.AgentNutrition)
	sess.LogHandoff(models.AgentWellness, models.AgentNutrition, "diet topic")
	sess.MealPlan = &models.MealPlan{
		ID:            "plan-1",
		UserID:        sess.Profile.UserID,
		Preference:    models.DietVegetarian,
		CalorieTarget: 2000,
		Days: []models.MealPlanDay{
			{Day: "Monday", Meals: []models.Meal{{Type: "breakfast", Name: "Oatmeal", Calories: 400}}, TotalCalories: 400},
		},
		CreatedAt: time.Now(),
	}

	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	loaded, err := db.LoadSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadSession() returned nil for saved session")
	}

	if loaded.Profile.Name != "Asma" || loaded.Profile.WeightKg != 60 {
		t.Errorf("profile round trip mismatch: %+v", loaded.Profile)
	}
	if len(loaded.Profile.DietaryPreferences) != 1 || loaded.Profile.DietaryPreferences[0] != models.DietVegetarian {
		t.Errorf("dietary preferences = %v", loaded.Profile.DietaryPreferences)
	}
	if loaded.ActiveAgent != models.AgentNutrition {
		t.Errorf("active agent = %q, want nutrition", loaded.ActiveAgent)
	}
	if len(loaded.Goals) != 1 || loaded.Goals[0].Title != "lose 5kg" {
		t.Errorf("goals = %+v", loaded.Goals)
	}
	if len(loaded.Progress) != 1 || loaded.Progress[0].Value != 59.5 {
		t.Errorf("progress = %+v", loaded.Progress)
	}
	if len(loaded.Conversation) != 2 {
		t.Errorf("conversation length = %d, want 2", len(loaded.Conversation))
	}
	if len(loaded.Handoffs) != 1 || loaded.Handoffs[0].ToAgent != models.AgentNutrition {
		t.Errorf("handoffs = %+v", loaded.Handoffs)
	}
	if loaded.MealPlan == nil || len(loaded.MealPlan.Days) != 1 {
		t.Fatalf("meal plan = %+v", loaded.MealPlan)
	}
	if loaded.MealPlan.Days[0].Meals[0].Name != "Oatmeal" {
		t.Errorf("meal plan day round trip mismatch: %+v", loaded.MealPlan.Days[0])
	}
}

func TestSaveSessionIsIdempotentForProgress(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	sess := session.New(models.Profile{Name: "Asma"})
	sess.AddProgress(models.ProgressEntry{Metric: "weight", Value: 59, Unit: "kg", RecordedAt: time.Now()})

	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("first SaveSession() error = %v", err)
	}
	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("second SaveSession() error = %v", err)
	}

	entries, err := db.GetProgress(sess.Profile.UserID)
	if err != nil {
		t.Fatalf("GetProgress() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("progress entries = %d, want 1 (no duplicates on re-save)", len(entries))
	}
}

func TestLoadSessionMissing(t *testing.T) {
	db := testDB(t)
	loaded, err := db.LoadSession(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if loaded != nil {
		t.Errorf("LoadSession() = %+v, want nil", loaded)
	}
}

func TestLatestSessionID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	sess := session.New(models.Profile{Name: "Asma"})
	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	id, err := db.LatestSessionID(sess.Profile.UserID)
	if err != nil {
		t.Fatalf("LatestSessionID() error = %v", err)
	}
	if id != sess.ID {
		t.Errorf("latest session = %q, want %q", id, sess.ID)
	}

	id, err = db.LatestSessionID("nobody")
	if err != nil {
		t.Fatalf("LatestSessionID() error = %v", err)
	}
	if id != "" {
		t.Errorf("latest session for unknown user = %q, want empty", id)
	}
}

func TestGoalUpsertKeepsSingleRow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	sess := session.New(models.Profile{Name: "Asma", WeightKg: 60})
	sess.AddGoal(models.Goal{Title: "lose 5kg", Category: models.GoalWeightLoss, TargetValue: 5, Unit: "kg", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	sess.Goals[0].CurrentValue = 2
	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("re-save error = %v", err)
	}

	goals, err := db.GetGoals(sess.Profile.UserID)
	if err != nil {
		t.Fatalf("GetGoals() error = %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("goals = %d, want 1", len(goals))
	}
	if goals[0].CurrentValue != 2 {
		t.Errorf("current value = %v, want 2", goals[0].CurrentValue)
	}
}

func TestGetProfileCorruptColumn(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	sess := session.New(models.Profile{
		Name:               "Asma",
		DietaryPreferences: []models.DietaryPreference{models.DietVegan},
	})
	if err := db.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}

	if _, err := db.Exec(
		"UPDATE users SET dietary_preferences = ? WHERE id = ?",
		"{not json", sess.Profile.UserID,
	); err != nil {
		t.Fatalf("corrupt column: %v", err)
	}

	if _, err := db.GetProfile(sess.Profile.UserID); err == nil {
		t.Error("GetProfile() on corrupted column succeeded, want error")
	}
	if _, err := db.ListProfiles(); err == nil {
		t.Error("ListProfiles() on corrupted column succeeded, want error")
	}
}
