package orchestrator

import (
	"strings"
	"unicode"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

// intentRule maps trigger words and phrases to the agent that owns them.
// Single words are matched against message tokens; phrases are matched as
// substrings. Rules are checked in order, first match wins.
type intentRule struct {
	agent   models.AgentKind
	reason  string
	words   []string
	phrases []string
}

// defaultRules is the fixed classification rule set. Escalation and
// medical triggers come first so they win over generic topic words.
var defaultRules = []intentRule{
	{
		agent:   models.AgentProgress,
		reason:  "escalation request",
		words:   []string{"human", "coach", "trainer"},
		phrases: []string{"real expert", "speak to a person", "talk to someone"},
	},
	{
		agent:   models.AgentNutrition,
		reason:  "medical nutrition topic",
		words:   []string{"diabetes", "hypertension", "insulin", "cholesterol"},
		phrases: []string{"blood sugar", "blood pressure"},
	},
	{
		agent:   models.AgentFitness,
		reason:  "injury topic",
		words:   []string{"pain", "injury", "injured", "arthritis", "rehab", "sprain", "knee", "shoulder"},
		phrases: []string{},
	},
	{
		agent:   models.AgentNutrition,
		reason:  "diet topic",
		words:   []string{"meal", "meals", "diet", "food", "eat", "eating", "nutrition", "breakfast", "lunch", "dinner", "snack", "recipe", "calories", "vegetarian", "vegan"},
		phrases: []string{"meal plan"},
	},
	{
		agent:   models.AgentFitness,
		reason:  "exercise topic",
		words:   []string{"exercise", "workout", "workouts", "fitness", "training", "gym", "cardio", "stretch", "strength"},
		phrases: []string{"work out"},
	},
	{
		agent:   models.AgentProgress,
		reason:  "goal or metric topic",
		words:   []string{"progress", "track", "update", "log", "weigh", "weighed", "goal", "goals", "target", "metric", "streak"},
		phrases: []string{"check in", "check-in", "weigh in", "weigh-in"},
	},
	{
		agent:   models.AgentWellness,
		reason:  "general wellness topic",
		words:   []string{"sleep", "stress", "hydration", "habit", "habits", "energy", "motivation", "wellness"},
		phrases: []string{},
	},
}

// Classifier maps a user message to the agent kind that owns its intent.
// Classification is heuristic keyword matching; unclassifiable input
// yields no intent and the caller keeps the incumbent agent.
type Classifier struct {
	rules []intentRule
}

// NewClassifier creates a classifier with the default rule set.
func NewClassifier() *Classifier {
	return &Classifier{rules: defaultRules}
}

// Classify returns the owning agent and the matched reason for a message.
// ok is false when no rule matches (default-to-incumbent policy applies).
func (c *Classifier) Classify(message string) (agent models.AgentKind, reason string, ok bool) {
	lower := strings.ToLower(message)
	tokens := tokenize(lower)

	for _, rule := range c.rules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.agent, rule.reason, true
			}
		}
		for _, word := range rule.words {
			if tokens[word] {
				return rule.agent, rule.reason, true
			}
		}
	}
	return "", "", false
}

// tokenize splits a lowercased message into a word set.
func tokenize(s string) map[string]bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})
	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}
