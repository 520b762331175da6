package models

import "time"

// GoalType categorizes what a user is working toward.
type GoalType string

const (
	// GoalWeightLoss targets reducing body weight.
	GoalWeightLoss GoalType = "weight_loss"
	// GoalWeightGain targets increasing body weight.
	GoalWeightGain GoalType = "weight_gain"
	// GoalMuscleGain targets building muscle mass.
	GoalMuscleGain GoalType = "muscle_gain"
	// GoalEndurance targets cardiovascular endurance.
	GoalEndurance GoalType = "endurance"
	// GoalGeneralFitness is the default catch-all goal.
	GoalGeneralFitness GoalType = "general_fitness"
	// GoalRehabilitation targets recovery from injury.
	GoalRehabilitation GoalType = "rehabilitation"
)

// Valid returns true if the goal type is a known value.
func (g GoalType) Valid() bool {
	switch g {
	case GoalWeightLoss, GoalWeightGain, GoalMuscleGain,
		GoalEndurance, GoalGeneralFitness, GoalRehabilitation:
		return true
	default:
		return false
	}
}

// GoalStatus represents the lifecycle state of a goal.
// Goals are never deleted; they transition to completed or abandoned.
type GoalStatus string

const (
	// GoalActive indicates the goal is being worked on.
	GoalActive GoalStatus = "active"
	// GoalCompleted indicates the goal was achieved.
	GoalCompleted GoalStatus = "completed"
	// GoalAbandoned indicates the user gave up on the goal.
	GoalAbandoned GoalStatus = "abandoned"
)

// Valid returns true if the status is a known value.
func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalAbandoned:
		return true
	default:
		return false
	}
}

// CanTransitionGoal reports whether a goal status transition is allowed.
// Only active goals may move, and only to completed or abandoned.
func CanTransitionGoal(from, to GoalStatus) bool {
	if from != GoalActive {
		return false
	}
	return to == GoalCompleted || to == GoalAbandoned
}

// Goal represents a measurable health objective.
type Goal struct {
	// ID is the unique identifier for this goal.
	ID string `json:"id"`
	// UserID scopes the goal to one user.
	UserID string `json:"user_id"`
	// Title is a short label for the goal.
	Title string `json:"title"`
	// Description holds the user's original phrasing.
	Description string `json:"description,omitempty"`
	// Category is the goal type.
	Category GoalType `json:"category"`
	// TargetValue is the value to reach.
	TargetValue float64 `json:"target_value"`
	// CurrentValue is the most recent recorded value.
	CurrentValue float64 `json:"current_value"`
	// Unit is the measurement unit (kg, lbs, minutes, %).
	Unit string `json:"unit,omitempty"`
	// TargetDate is the deadline for the goal, if any.
	TargetDate *time.Time `json:"target_date,omitempty"`
	// Status is the lifecycle state.
	Status GoalStatus `json:"status"`
	// CreatedAt is when the goal was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the goal was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressPercent returns completion as a percentage of the target.
// Defined as 0 when the target is zero or negative.
func (g *Goal) ProgressPercent() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	return g.CurrentValue / g.TargetValue * 100
}
