// Package agents implements the four specialized coaching agents. Each
// agent pairs a system prompt with the set of tools it may invoke and
// responds to one user message at a time against a session context.
package agents

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

//go:embed prompts.yaml
var promptsYAML []byte

// systemPrompts holds the per-agent system prompt bundles, loaded at init.
var systemPrompts map[models.AgentKind]string

func init() {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(promptsYAML, &raw); err != nil {
		panic(fmt.Sprintf("agents: parse prompts.yaml: %v", err))
	}
	systemPrompts = make(map[models.AgentKind]string, len(raw))
	for name, prompt := range raw {
		kind := models.AgentKind(name)
		if !kind.Valid() {
			panic(fmt.Sprintf("agents: prompts.yaml has unknown agent %q", name))
		}
		systemPrompts[kind] = strings.TrimSpace(prompt)
	}
	for _, kind := range models.AgentKinds() {
		if systemPrompts[kind] == "" {
			panic(fmt.Sprintf("agents: prompts.yaml missing prompt for %q", kind))
		}
	}
}

// SystemPrompt returns the base system prompt for an agent kind.
func SystemPrompt(kind models.AgentKind) string {
	return systemPrompts[kind]
}

// buildSystemPrompt extends the agent's base prompt with the user's
// profile facts so every turn is personalized.
func buildSystemPrompt(kind models.AgentKind, sess *session.Context) string {
	var b strings.Builder
	b.WriteString(systemPrompts[kind])
	b.WriteString("\n\n## User profile\n")
	fmt.Fprintf(&b, "Name: %s\n", sess.Profile.Name)
	if sess.Profile.Age > 0 {
		fmt.Fprintf(&b, "Age: %d\n", sess.Profile.Age)
	}
	if bmi := sess.BMI(); bmi > 0 {
		fmt.Fprintf(&b, "BMI: %.1f (%s)\n", bmi, models.BMICategory(bmi))
	}
	fmt.Fprintf(&b, "Activity level: %s\n", sess.Profile.ActivityLevel)
	if len(sess.Profile.DietaryPreferences) > 0 {
		prefs := make([]string, len(sess.Profile.DietaryPreferences))
		for i, p := range sess.Profile.DietaryPreferences {
			prefs[i] = string(p)
		}
		fmt.Fprintf(&b, "Dietary preferences: %s\n", strings.Join(prefs, ", "))
	}
	if len(sess.Profile.FoodAllergies) > 0 {
		fmt.Fprintf(&b, "Food allergies: %s\n", strings.Join(sess.Profile.FoodAllergies, ", "))
	}
	if len(sess.Profile.MedicalConditions) > 0 {
		fmt.Fprintf(&b, "Medical conditions: %s\n", strings.Join(sess.Profile.MedicalConditions, ", "))
	}
	if sess.Profile.InjuryNotes != "" {
		fmt.Fprintf(&b, "Injury notes: %s\n", sess.Profile.InjuryNotes)
	}
	if goal := sess.ActiveGoal(); goal != nil {
		fmt.Fprintf(&b, "Active goal: %s (%.0f%% complete)\n", goal.Title, goal.ProgressPercent())
	}
	return b.String()
}
