package tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

func TestMealPlannerBuildsPlan(t *testing.T) {
	tool := NewMealPlannerTool()

	result, err := tool.Execute(json.RawMessage(`{"dietary_preference": "vegetarian", "calorie_target": 2000, "days": 3}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	plan, ok := result.Data.(models.MealPlan)
	if !ok {
		t.Fatalf("Data type = %T, want models.MealPlan", result.Data)
	}
	if len(plan.Days) != 3 {
		t.Fatalf("plan has %d days, want 3", len(plan.Days))
	}
	if plan.Preference != models.DietVegetarian {
		t.Errorf("preference = %q, want vegetarian", plan.Preference)
	}
	for _, day := range plan.Days {
		if len(day.Meals) == 0 {
			t.Errorf("day %s has no meals", day.Day)
		}
		sum := 0
		for _, m := range day.Meals {
			sum += m.Calories
		}
		if day.TotalCalories != sum {
			t.Errorf("day %s total = %d, want %d", day.Day, day.TotalCalories, sum)
		}
	}
}

func TestMealPlannerDefaultsToSevenDays(t *testing.T) {
	tool := NewMealPlannerTool()

	result, err := tool.Execute(json.RawMessage(`{"dietary_preference": "vegan", "calorie_target": 1800}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	plan := result.Data.(models.MealPlan)
	if len(plan.Days) != 7 {
		t.Errorf("default plan length = %d days, want 7", len(plan.Days))
	}
}

func TestMealPlannerRestrictions(t *testing.T) {
	tool := NewMealPlannerTool()

	result, err := tool.Execute(json.RawMessage(`{"dietary_preference": "no_preference", "calorie_target": 2000, "days": 7, "restrictions": ["tuna", "salmon"]}`))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	plan := result.Data.(models.MealPlan)
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			if meal.Name == "Tuna Sandwich" || meal.Name == "Baked Salmon with Rice" {
				t.Errorf("restricted meal %q present on %s", meal.Name, day.Day)
			}
		}
	}
}

func TestMealPlannerValidation(t *testing.T) {
	tool := NewMealPlannerTool()

	tests := []struct {
		name  string
		input string
		field string
	}{
		{"unknown preference", `{"dietary_preference": "carnivore", "calorie_target": 2000}`, "dietary_preference"},
		{"calories too low", `{"dietary_preference": "vegan", "calorie_target": 800}`, "calorie_target"},
		{"calories too high", `{"dietary_preference": "vegan", "calorie_target": 9000}`, "calorie_target"},
		{"too many days", `{"dietary_preference": "vegan", "calorie_target": 2000, "days": 30}`, "days"},
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

func TestMealPlannerDeterministic(t *testing.T) {
	tool := NewMealPlannerTool()
	input := json.RawMessage(`{"dietary_preference": "keto", "calorie_target": 2200, "days": 5}`)

	a, err := tool.Execute(input)
	if err != nil {
		t.Fatal(err)
	}
	b, err := tool.Execute(input)
	if err != nil {
		t.Fatal(err)
	}

	planA := a.Data.(models.MealPlan)
	planB := b.Data.(models.MealPlan)
	for i := range planA.Days {
		for j := range planA.Days[i].Meals {
			if planA.Days[i].Meals[j].Name != planB.Days[i].Meals[j].Name {
				t.Fatal("same input should produce the same plan")
			}
		}
	}
}
