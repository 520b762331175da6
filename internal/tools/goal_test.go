package tools

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

func TestGoalAnalyzerParsesQuantityAndDeadline(t *testing.T) {
	tool := NewGoalAnalyzerTool(fixedNow)

	result, err := tool.Execute(json.RawMessage(`{"text": "I want to lose 5kg in 2 months"}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	goal, ok := result.Data.(models.Goal)
	if !ok {
		t.Fatalf("Data type = %T, want models.Goal", result.Data)
	}
	if goal.Category != models.GoalWeightLoss {
		t.Errorf("category = %q, want weight_loss", goal.Category)
	}
	if goal.TargetValue != 5 {
		t.Errorf("target = %v, want 5", goal.TargetValue)
	}
	if goal.Unit != "kg" {
		t.Errorf("unit = %q, want kg", goal.Unit)
	}
	if goal.TargetDate == nil {
		t.Fatal("deadline missing")
	}
	want := fixedNow().Add(60 * 24 * time.Hour)
	if !goal.TargetDate.Equal(want) {
		t.Errorf("deadline = %v, want %v", goal.TargetDate, want)
	}
	if goal.Status != models.GoalActive {
		t.Errorf("status = %q, want active", goal.Status)
	}
}

func TestGoalAnalyzerCategories(t *testing.T) {
	tool := NewGoalAnalyzerTool(fixedNow)

	tests := []struct {
		text string
		want models.GoalType
	}{
		{"build muscle, add 3 kg of lean mass", models.GoalMuscleGain},
		{"drop 10 lbs before summer", models.GoalWeightLoss},
		{"run a marathon, train 30 minutes daily", models.GoalEndurance},
		{"rehab my knee, 20 minutes of mobility", models.GoalRehabilitation},
		{"just move more, 30 minutes a day", models.GoalGeneralFitness},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			input, _ := json.Marshal(map[string]string{"text": tt.text})
			result, err := tool.Execute(input)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			goal := result.Data.(models.Goal)
			if goal.Category != tt.want {
				t.Errorf("category = %q, want %q", goal.Category, tt.want)
			}
		})
	}
}

func TestGoalAnalyzerUnits(t *testing.T) {
	tool := NewGoalAnalyzerTool(fixedNow)

	tests := []struct {
		text  string
		value float64
		unit  string
	}{
		{"lose 5 kilograms", 5, "kg"},
		{"drop 12 pounds", 12, "lbs"},
		{"run 45 minutes without stopping", 45, "minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			input, _ := json.Marshal(map[string]string{"text": tt.text})
			result, err := tool.Execute(input)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			goal := result.Data.(models.Goal)
			if goal.TargetValue != tt.value || goal.Unit != tt.unit {
				t.Errorf("parsed %v %q, want %v %q", goal.TargetValue, goal.Unit, tt.value, tt.unit)
			}
		})
	}
}

func TestGoalAnalyzerRejectsUnmeasurable(t *testing.T) {
	tool := NewGoalAnalyzerTool(fixedNow)

	for _, text := range []string{"", "get healthier"} {
		input, _ := json.Marshal(map[string]string{"text": text})
		_, err := tool.Execute(input)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("text %q: error = %v, want *ValidationError", text, err)
		}
	}
}
