package tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

func TestWorkoutPlannerBuildsPlan(t *testing.T) {
	tool := NewWorkoutPlannerTool()

	result, err := tool.Execute(json.RawMessage(`{"goal_type": "weight_loss", "activity_level": "moderate", "days": 3}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	plan, ok := result.Data.(models.WorkoutPlan)
	if !ok {
		t.Fatalf("Data type = %T, want models.WorkoutPlan", result.Data)
	}
	if len(plan.Days) != 3 {
		t.Fatalf("plan has %d days, want 3", len(plan.Days))
	}
	for _, day := range plan.Days {
		if len(day.Exercises) == 0 {
			t.Errorf("day %s has no exercises", day.Day)
		}
		if day.DurationMinutes <= 0 {
			t.Errorf("day %s duration = %d", day.Day, day.DurationMinutes)
		}
	}
}

func TestWorkoutPlannerInjuryFilter(t *testing.T) {
	tool := NewWorkoutPlannerTool()

	result, err := tool.Execute(json.RawMessage(`{"goal_type": "endurance", "days": 7, "injury_notes": "knee pain"}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	plan := result.Data.(models.WorkoutPlan)
	for _, day := range plan.Days {
		for _, ex := range day.Exercises {
			if !ex.LowImpact {
				t.Errorf("day %s contains high-impact exercise %q despite injury notes", day.Day, ex.Name)
			}
		}
	}
}

func TestWorkoutPlannerActivityScaling(t *testing.T) {
	tool := NewWorkoutPlannerTool()

	sedentary, err := tool.Execute(json.RawMessage(`{"goal_type": "general_fitness", "activity_level": "sedentary", "days": 1}`))
	if err != nil {
		t.Fatal(err)
	}
	veryActive, err := tool.Execute(json.RawMessage(`{"goal_type": "general_fitness", "activity_level": "very_active", "days": 1}`))
	if err != nil {
		t.Fatal(err)
	}

	sedDur := sedentary.Data.(models.WorkoutPlan).Days[0].DurationMinutes
	actDur := veryActive.Data.(models.WorkoutPlan).Days[0].DurationMinutes
	if sedDur >= actDur {
		t.Errorf("sedentary duration %d should be shorter than very_active %d", sedDur, actDur)
	}
}

func TestWorkoutPlannerWeightGainUsesMuscleTemplates(t *testing.T) {
	tool := NewWorkoutPlannerTool()

	result, err := tool.Execute(json.RawMessage(`{"goal_type": "weight_gain", "days": 2}`))
	if err != nil {
		t.Fatal(err)
	}
	plan := result.Data.(models.WorkoutPlan)
	if plan.Category != models.GoalMuscleGain {
		t.Errorf("category = %q, want muscle_gain", plan.Category)
	}
}

func TestWorkoutPlannerValidation(t *testing.T) {
	tool := NewWorkoutPlannerTool()

	tests := []struct {
		name  string
		input string
		field string
	}{
		{"unknown goal", `{"goal_type": "flying"}`, "goal_type"},
		{"unknown level", `{"goal_type": "endurance", "activity_level": "heroic"}`, "activity_level"},
		{"too many days", `{"goal_type": "endurance", "days": 9}`, "days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(json.RawMessage(tt.input))
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
