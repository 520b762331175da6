package agents

import "github.com/asmayaseen/vitacoach/pkg/models"

// capabilities is the explicit table of which tools each agent kind may
// invoke. An agent requesting a tool outside its row is a contract
// violation, not a user error.
var capabilities = map[models.AgentKind][]string{
	models.AgentWellness:  {"goal_analyzer", "checkin_scheduler"},
	models.AgentNutrition: {"meal_planner"},
	models.AgentFitness:   {"workout_planner"},
	models.AgentProgress:  {"progress_tracker", "goal_analyzer", "checkin_scheduler"},
}

// AllowedTools returns the tool names an agent kind may invoke.
func AllowedTools(kind models.AgentKind) []string {
	return capabilities[kind]
}

// toolAllowed reports whether an agent kind may invoke a tool.
func toolAllowed(kind models.AgentKind, tool string) bool {
	for _, name := range capabilities[kind] {
		if name == tool {
			return true
		}
	}
	return false
}
