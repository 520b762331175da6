package models

import "time"

// Meal is a single meal within a day of a meal plan.
type Meal struct {
	// Type is the meal slot (breakfast, lunch, dinner, snack).
	Type string `json:"type"`
	// Name is the dish name.
	Name string `json:"name"`
	// Description summarizes the dish.
	Description string `json:"description,omitempty"`
	// Calories is the estimated energy content.
	Calories int `json:"calories"`
	// Tags marks dietary properties (vegetarian, gluten_free).
	Tags []string `json:"tags,omitempty"`
}

// MealPlanDay is one day of a structured meal plan.
type MealPlanDay struct {
	// Day is the day label (Monday..Sunday or Day 1..Day N).
	Day string `json:"day"`
	// Meals lists the meals for the day in serving order.
	Meals []Meal `json:"meals"`
	// TotalCalories sums the day's meal calories.
	TotalCalories int `json:"total_calories"`
}

// MealPlan is a structured day-wise eating plan.
type MealPlan struct {
	// ID is the unique identifier for this plan.
	ID string `json:"id"`
	// UserID scopes the plan to one user.
	UserID string `json:"user_id"`
	// Preference is the dietary preference the plan respects.
	Preference DietaryPreference `json:"preference"`
	// CalorieTarget is the daily calorie budget the plan was built for.
	CalorieTarget int `json:"calorie_target"`
	// Days holds the per-day meal breakdown.
	Days []MealPlanDay `json:"days"`
	// CreatedAt is when the plan was generated.
	CreatedAt time.Time `json:"created_at"`
}

// Exercise is one exercise within a workout day.
type Exercise struct {
	// Name is the exercise name.
	Name string `json:"name"`
	// Description explains how to perform it.
	Description string `json:"description,omitempty"`
	// Equipment lists required equipment, empty for bodyweight work.
	Equipment []string `json:"equipment,omitempty"`
	// TargetMuscles lists the primary muscle groups.
	TargetMuscles []string `json:"target_muscles,omitempty"`
	// LowImpact marks injury-safe variants.
	LowImpact bool `json:"low_impact,omitempty"`
}

// WorkoutDay is one day of a structured workout plan.
type WorkoutDay struct {
	// Day is the day label.
	Day string `json:"day"`
	// Focus is the day's primary focus (cardio, strength, flexibility, recovery).
	Focus string `json:"focus"`
	// Exercises lists the day's exercises in order.
	Exercises []Exercise `json:"exercises"`
	// DurationMinutes is the planned session length.
	DurationMinutes int `json:"duration_minutes"`
	// Intensity is light, moderate or high.
	Intensity string `json:"intensity"`
}

// WorkoutPlan is a structured day-wise training plan.
type WorkoutPlan struct {
	// ID is the unique identifier for this plan.
	ID string `json:"id"`
	// UserID scopes the plan to one user.
	UserID string `json:"user_id"`
	// Category is the goal type the plan serves.
	Category GoalType `json:"category"`
	// Days holds the per-day workout breakdown.
	Days []WorkoutDay `json:"days"`
	// CreatedAt is when the plan was generated.
	CreatedAt time.Time `json:"created_at"`
}
