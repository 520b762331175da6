package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

const (
	minWorkoutDays = 1
	maxWorkoutDays = 7
)

// workoutTemplate is one day template in the built-in workout tables.
type workoutTemplate struct {
	focus     string
	duration  int
	intensity string
	exercises []models.Exercise
}

// workoutTemplates maps goal categories to an ordered cycle of day
// templates. Plans rotate through the cycle.
var workoutTemplates = map[models.GoalType][]workoutTemplate{
	models.GoalWeightLoss: {
		{"cardio", 40, "moderate", []models.Exercise{
			{Name: "Brisk Walking", Description: "Sustained walk at a pace where talking is possible but singing is not.", TargetMuscles: []string{"legs", "core"}, LowImpact: true},
			{Name: "Jump Rope Intervals", Description: "30 seconds on, 30 seconds rest.", Equipment: []string{"jump rope"}, TargetMuscles: []string{"calves", "shoulders"}},
		}},
		{"strength", 35, "moderate", []models.Exercise{
			{Name: "Bodyweight Squats", Description: "Three sets of twelve with controlled descent.", TargetMuscles: []string{"quads", "glutes"}, LowImpact: true},
			{Name: "Push-ups", Description: "Three sets to form failure.", TargetMuscles: []string{"chest", "triceps"}, LowImpact: true},
		}},
		{"recovery", 25, "light", []models.Exercise{
			{Name: "Gentle Yoga Flow", Description: "Slow sequence focusing on breath.", Equipment: []string{"mat"}, TargetMuscles: []string{"full body"}, LowImpact: true},
		}},
	},
	models.GoalMuscleGain: {
		{"strength", 50, "high", []models.Exercise{
			{Name: "Dumbbell Bench Press", Description: "Four sets of eight, progressive load.", Equipment: []string{"dumbbells", "bench"}, TargetMuscles: []string{"chest", "triceps"}},
			{Name: "Bent-over Rows", Description: "Four sets of eight, neutral spine.", Equipment: []string{"dumbbells"}, TargetMuscles: []string{"back", "biceps"}},
		}},
		{"strength", 50, "high", []models.Exercise{
			{Name: "Goblet Squats", Description: "Four sets of ten holding a dumbbell at the chest.", Equipment: []string{"dumbbell"}, TargetMuscles: []string{"quads", "glutes"}},
			{Name: "Romanian Deadlifts", Description: "Three sets of ten with a slow eccentric.", Equipment: []string{"dumbbells"}, TargetMuscles: []string{"hamstrings", "lower back"}},
		}},
		{"recovery", 30, "light", []models.Exercise{
			{Name: "Mobility Work", Description: "Hip and shoulder openers.", Equipment: []string{"mat"}, TargetMuscles: []string{"full body"}, LowImpact: true},
		}},
	},
	models.GoalEndurance: {
		{"cardio", 45, "moderate", []models.Exercise{
			{Name: "Steady-state Run", Description: "Conversational pace for the full duration.", TargetMuscles: []string{"legs"}},
		}},
		{"cardio", 35, "high", []models.Exercise{
			{Name: "Interval Run", Description: "Five rounds of 3 minutes hard, 2 minutes easy.", TargetMuscles: []string{"legs", "core"}},
		}},
		{"flexibility", 25, "light", []models.Exercise{
			{Name: "Runner's Stretch Routine", Description: "Calves, hamstrings, hip flexors.", Equipment: []string{"mat"}, TargetMuscles: []string{"legs"}, LowImpact: true},
		}},
	},
	models.GoalRehabilitation: {
		{"recovery", 20, "light", []models.Exercise{
			{Name: "Range-of-motion Circles", Description: "Slow controlled circles within a pain-free range.", TargetMuscles: []string{"affected joint"}, LowImpact: true},
			{Name: "Isometric Holds", Description: "Gentle holds, stop at discomfort.", TargetMuscles: []string{"affected area"}, LowImpact: true},
		}},
		{"flexibility", 20, "light", []models.Exercise{
			{Name: "Assisted Stretching", Description: "Band-assisted stretches held 30 seconds.", Equipment: []string{"band"}, TargetMuscles: []string{"full body"}, LowImpact: true},
		}},
	},
	models.GoalGeneralFitness: {
		{"cardio", 30, "moderate", []models.Exercise{
			{Name: "Brisk Walking", Description: "30 minutes at a moderate pace.", TargetMuscles: []string{"legs", "core"}, LowImpact: true},
		}},
		{"strength", 30, "moderate", []models.Exercise{
			{Name: "Bodyweight Circuit", Description: "Squats, push-ups, lunges, plank; three rounds.", TargetMuscles: []string{"full body"}, LowImpact: true},
		}},
		{"flexibility", 20, "light", []models.Exercise{
			{Name: "Full-body Stretch", Description: "Hold each stretch 30 seconds.", Equipment: []string{"mat"}, TargetMuscles: []string{"full body"}, LowImpact: true},
		}},
	},
}

// WorkoutPlannerTool validates workout requests and structures a day-wise
// training plan. When injury notes are present, only low-impact exercises
// are included.
type WorkoutPlannerTool struct{}

// NewWorkoutPlannerTool creates the workout planner.
func NewWorkoutPlannerTool() *WorkoutPlannerTool { return &WorkoutPlannerTool{} }

// workoutInput is the declared input schema for the planner.
type workoutInput struct {
	Category      string `json:"goal_type"`
	ActivityLevel string `json:"activity_level,omitempty"`
	Days          int    `json:"days,omitempty"`
	InjuryNotes   string `json:"injury_notes,omitempty"`
}

// Name implements Tool.
func (t *WorkoutPlannerTool) Name() string { return "workout_planner" }

// Description implements Tool.
func (t *WorkoutPlannerTool) Description() string {
	return "Build a structured day-wise workout plan for a goal type and activity level, with low-impact substitutions when injuries are noted."
}

// InputSchema implements Tool.
func (t *WorkoutPlannerTool) InputSchema() (map[string]interface{}, []string) {
	return map[string]interface{}{
		"goal_type": map[string]interface{}{
			"type":        "string",
			"description": "One of weight_loss, weight_gain, muscle_gain, endurance, general_fitness, rehabilitation",
		},
		"activity_level": map[string]interface{}{
			"type":        "string",
			"description": "One of sedentary, light, moderate, active, very_active; scales session length",
		},
		"days": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Training days per week, %d to %d, default 3", minWorkoutDays, maxWorkoutDays),
		},
		"injury_notes": map[string]interface{}{
			"type":        "string",
			"description": "Any injuries to work around; restricts the plan to low-impact work",
		},
	}, []string{"goal_type"}
}

// Execute implements Tool.
func (t *WorkoutPlannerTool) Execute(input json.RawMessage) (*Result, error) {
	var in workoutInput
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}

	category := models.GoalType(strings.ToLower(strings.TrimSpace(in.Category)))
	if !category.Valid() {
		return nil, invalid("goal_type", "%q is not a known goal type", in.Category)
	}
	// Weight gain trains like muscle gain.
	if category == models.GoalWeightGain {
		category = models.GoalMuscleGain
	}

	level := models.ActivityModerate
	if in.ActivityLevel != "" {
		level = models.ActivityLevel(strings.ToLower(in.ActivityLevel))
		if !level.Valid() {
			return nil, invalid("activity_level", "%q is not a known activity level", in.ActivityLevel)
		}
	}

	days := in.Days
	if days == 0 {
		days = 3
	}
	if days < minWorkoutDays || days > maxWorkoutDays {
		return nil, invalid("days", "must be between %d and %d", minWorkoutDays, maxWorkoutDays)
	}

	injured := strings.TrimSpace(in.InjuryNotes) != ""
	plan := buildWorkoutPlan(category, level, days, injured)

	return &Result{
		Summary: fmt.Sprintf("Built a %d-day %s workout plan", days, category),
		Data:    plan,
	}, nil
}

// buildWorkoutPlan assembles a plan by cycling the category's template
// days, scaling duration for activity level and filtering for injuries.
func buildWorkoutPlan(category models.GoalType, level models.ActivityLevel, days int, injured bool) models.WorkoutPlan {
	cycle := workoutTemplates[category]
	plan := models.WorkoutPlan{
		Category:  category,
		CreatedAt: time.Now(),
	}

	for d := 0; d < days; d++ {
		tmpl := cycle[d%len(cycle)]
		day := models.WorkoutDay{
			Day:             dayLabel(d),
			Focus:           tmpl.focus,
			DurationMinutes: scaleDuration(tmpl.duration, level),
			Intensity:       tmpl.intensity,
		}
		for _, ex := range tmpl.exercises {
			if injured && !ex.LowImpact {
				continue
			}
			day.Exercises = append(day.Exercises, ex)
		}
		// A day emptied by the injury filter becomes gentle recovery.
		if len(day.Exercises) == 0 {
			day.Focus = "recovery"
			day.Intensity = "light"
			day.Exercises = []models.Exercise{{
				Name:        "Gentle Walk",
				Description: "Easy walk within a comfortable range.",
				LowImpact:   true,
			}}
		}
		plan.Days = append(plan.Days, day)
	}

	return plan
}

// scaleDuration shortens sessions for less active users and lengthens them
// for very active ones.
func scaleDuration(base int, level models.ActivityLevel) int {
	switch level {
	case models.ActivitySedentary:
		return base * 70 / 100
	case models.ActivityLight:
		return base * 85 / 100
	case models.ActivityActive:
		return base * 110 / 100
	case models.ActivityVeryActive:
		return base * 120 / 100
	default:
		return base
	}
}
