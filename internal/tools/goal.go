package tools

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

// quantityPattern matches "5kg", "5 kg", "10 lbs", "30 minutes".
var quantityPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(kg|kilograms?|lbs|pounds?|%|minutes?|mins?)`)

// durationPattern matches "in 2 months", "within 6 weeks", "in 30 days".
var durationPattern = regexp.MustCompile(`(?i)(?:in|within|over)\s+(\d+)\s*(days?|weeks?|months?)`)

// categoryKeywords maps phrases to goal categories, checked in order so
// more specific phrases win.
var categoryKeywords = []struct {
	keywords []string
	category models.GoalType
}{
	{[]string{"muscle", "bulk", "stronger", "strength"}, models.GoalMuscleGain},
	{[]string{"lose", "slim", "cut", "drop"}, models.GoalWeightLoss},
	{[]string{"gain weight", "put on weight"}, models.GoalWeightGain},
	{[]string{"run", "marathon", "endurance", "stamina", "cardio"}, models.GoalEndurance},
	{[]string{"recover", "rehab", "injury"}, models.GoalRehabilitation},
}

// GoalAnalyzerTool parses a free-text goal description ("I want to lose
// 5kg in 2 months") into a structured models.Goal with target value, unit
// and deadline.
type GoalAnalyzerTool struct {
	now func() time.Time
}

// NewGoalAnalyzerTool creates the analyzer with the given clock. Pass
// time.Now outside of tests.
func NewGoalAnalyzerTool(now func() time.Time) *GoalAnalyzerTool {
	if now == nil {
		now = time.Now
	}
	return &GoalAnalyzerTool{now: now}
}

// goalInput is the declared input schema for the analyzer.
type goalInput struct {
	Text string `json:"text"`
}

// Name implements Tool.
func (t *GoalAnalyzerTool) Name() string { return "goal_analyzer" }

// Description implements Tool.
func (t *GoalAnalyzerTool) Description() string {
	return "Parse a free-text goal description into a structured goal with category, target value, unit and deadline."
}

// InputSchema implements Tool.
func (t *GoalAnalyzerTool) InputSchema() (map[string]interface{}, []string) {
	return map[string]interface{}{
		"text": map[string]interface{}{
			"type":        "string",
			"description": "The user's goal in their own words, e.g. 'lose 5kg in 2 months'",
		},
	}, []string{"text"}
}

// Execute implements Tool.
func (t *GoalAnalyzerTool) Execute(input json.RawMessage) (*Result, error) {
	var in goalInput
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, invalid("text", "must not be empty")
	}

	now := t.now()
	goal := models.Goal{
		Title:       text,
		Description: text,
		Category:    inferCategory(text),
		Status:      models.GoalActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if m := quantityPattern.FindStringSubmatch(text); m != nil {
		value, err := strconv.ParseFloat(m[1], 64)
		if err == nil && value > 0 {
			goal.TargetValue = value
			goal.Unit = normalizeUnit(m[2])
		}
	}

	if m := durationPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			deadline := now.Add(durationFor(n, m[2]))
			goal.TargetDate = &deadline
		}
	}

	if goal.TargetValue == 0 {
		return nil, invalid("text", "could not find a measurable target, try something like 'lose 5kg in 2 months'")
	}

	summary := fmt.Sprintf("Goal: %s %g%s", goal.Category, goal.TargetValue, goal.Unit)
	if goal.TargetDate != nil {
		summary += fmt.Sprintf(" by %s", goal.TargetDate.Format("2006-01-02"))
	}

	return &Result{Summary: summary, Data: goal}, nil
}

// inferCategory picks a goal category from keyword matches, defaulting to
// general fitness.
func inferCategory(text string) models.GoalType {
	lower := strings.ToLower(text)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return models.GoalGeneralFitness
}

// normalizeUnit folds unit spellings into the canonical progress units.
func normalizeUnit(unit string) string {
	switch strings.ToLower(unit) {
	case "kg", "kilogram", "kilograms":
		return "kg"
	case "lbs", "pound", "pounds":
		return "lbs"
	case "%":
		return "%"
	case "min", "mins", "minute", "minutes":
		return "minutes"
	default:
		return strings.ToLower(unit)
	}
}

// durationFor converts a count of days/weeks/months into a duration.
// Months are approximated as 30 days.
func durationFor(n int, unit string) time.Duration {
	day := 24 * time.Hour
	switch {
	case strings.HasPrefix(strings.ToLower(unit), "day"):
		return time.Duration(n) * day
	case strings.HasPrefix(strings.ToLower(unit), "week"):
		return time.Duration(n) * 7 * day
	default:
		return time.Duration(n) * 30 * day
	}
}
