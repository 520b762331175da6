package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

const (
	minCalorieTarget = 1200
	maxCalorieTarget = 4000
	minPlanDays      = 1
	maxPlanDays      = 14
)

// mealTemplate is one candidate meal in the built-in template tables.
type mealTemplate struct {
	mealType    string
	name        string
	description string
	calories    int
	ingredients []string
	tags        []string
}

// mealTemplates holds candidate meals per dietary preference. The
// no_preference table is the omnivore fallback. Templates are ordered so
// plan generation is deterministic.
var mealTemplates = map[models.DietaryPreference][]mealTemplate{
	models.DietNoPreference: {
		{"breakfast", "Oatmeal with Berries", "Rolled oats with mixed berries and honey.", 350, []string{"oats", "berries", "honey"}, nil},
		{"breakfast", "Scrambled Eggs on Toast", "Two eggs scrambled, wholegrain toast.", 400, []string{"eggs", "bread", "butter"}, nil},
		{"lunch", "Grilled Chicken Salad", "Grilled chicken breast over greens.", 450, []string{"chicken", "lettuce", "olive oil"}, nil},
		{"lunch", "Tuna Sandwich", "Tuna with light mayo on wholegrain.", 420, []string{"tuna", "bread", "mayo"}, nil},
		{"dinner", "Baked Salmon with Rice", "Salmon fillet, brown rice, steamed broccoli.", 600, []string{"salmon", "rice", "broccoli"}, nil},
		{"dinner", "Beef Stir-fry", "Lean beef with mixed vegetables.", 550, []string{"beef", "peppers", "soy sauce"}, nil},
	},
	models.DietVegetarian: {
		{"breakfast", "Greek Yogurt Parfait", "Yogurt layered with granola and fruit.", 320, []string{"yogurt", "granola", "fruit"}, []string{"vegetarian"}},
		{"breakfast", "Veggie Omelette", "Eggs with spinach, tomato and cheese.", 380, []string{"eggs", "spinach", "cheese"}, []string{"vegetarian"}},
		{"lunch", "Chickpea Buddha Bowl", "Chickpeas, quinoa and roasted vegetables.", 480, []string{"chickpeas", "quinoa", "vegetables"}, []string{"vegetarian"}},
		{"lunch", "Caprese Sandwich", "Mozzarella, tomato and basil on ciabatta.", 430, []string{"mozzarella", "tomato", "bread"}, []string{"vegetarian"}},
		{"dinner", "Vegetable Curry with Rice", "Mixed vegetable curry, basmati rice.", 560, []string{"vegetables", "coconut milk", "rice"}, []string{"vegetarian"}},
		{"dinner", "Spinach Lasagna", "Layered pasta with spinach and ricotta.", 580, []string{"pasta", "spinach", "ricotta"}, []string{"vegetarian"}},
	},
	models.DietVegan: {
		{"breakfast", "Overnight Oats with Almond Milk", "Oats soaked in almond milk with chia.", 340, []string{"oats", "almond milk", "chia"}, []string{"vegan"}},
		{"breakfast", "Tofu Scramble", "Turmeric tofu with peppers.", 330, []string{"tofu", "peppers", "turmeric"}, []string{"vegan"}},
		{"lunch", "Lentil Soup with Bread", "Hearty red lentil soup.", 420, []string{"lentils", "carrots", "bread"}, []string{"vegan"}},
		{"lunch", "Falafel Wrap", "Falafel with hummus in a wrap.", 470, []string{"chickpeas", "hummus", "wrap"}, []string{"vegan"}},
		{"dinner", "Black Bean Chili", "Spiced black beans with brown rice.", 540, []string{"black beans", "tomatoes", "rice"}, []string{"vegan"}},
		{"dinner", "Pad Thai with Tofu", "Rice noodles, tofu and peanuts.", 560, []string{"noodles", "tofu", "peanuts"}, []string{"vegan"}},
	},
	models.DietKeto: {
		{"breakfast", "Bacon and Eggs", "Fried eggs with bacon and avocado.", 450, []string{"eggs", "bacon", "avocado"}, []string{"keto"}},
		{"lunch", "Cobb Salad", "Chicken, egg, bacon and blue cheese.", 520, []string{"chicken", "eggs", "bacon", "cheese"}, []string{"keto"}},
		{"dinner", "Butter Steak with Asparagus", "Ribeye with garlic butter.", 650, []string{"beef", "butter", "asparagus"}, []string{"keto"}},
	},
	models.DietPaleo: {
		{"breakfast", "Sweet Potato Hash", "Sweet potato with eggs and greens.", 400, []string{"sweet potato", "eggs", "kale"}, []string{"paleo"}},
		{"lunch", "Grilled Chicken with Avocado", "Chicken thigh, avocado, greens.", 480, []string{"chicken", "avocado", "greens"}, []string{"paleo"}},
		{"dinner", "Herb Roasted Salmon", "Salmon with roasted root vegetables.", 580, []string{"salmon", "carrots", "parsnips"}, []string{"paleo"}},
	},
	models.DietMediterranean: {
		{"breakfast", "Tomato Feta Toast", "Wholegrain toast with feta and tomato.", 340, []string{"bread", "feta", "tomato"}, []string{"mediterranean"}},
		{"lunch", "Greek Salad with Pita", "Cucumber, olives, feta and pita.", 440, []string{"cucumber", "olives", "feta", "pita"}, []string{"mediterranean"}},
		{"dinner", "Lemon Garlic Fish", "White fish with couscous and greens.", 540, []string{"fish", "couscous", "lemon"}, []string{"mediterranean"}},
	},
}

// dayNames labels plan days starting from Monday.
var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// MealPlannerTool validates meal plan requests and structures a day-wise
// plan from the built-in template tables, filtered by dietary preference
// and allergies.
type MealPlannerTool struct{}

// NewMealPlannerTool creates the meal planner.
func NewMealPlannerTool() *MealPlannerTool { return &MealPlannerTool{} }

// mealPlanInput is the declared input schema for the planner.
type mealPlanInput struct {
	Preference    string   `json:"dietary_preference"`
	CalorieTarget int      `json:"calorie_target"`
	Days          int      `json:"days,omitempty"`
	Restrictions  []string `json:"restrictions,omitempty"`
}

// Name implements Tool.
func (t *MealPlannerTool) Name() string { return "meal_planner" }

// Description implements Tool.
func (t *MealPlannerTool) Description() string {
	return "Build a structured day-wise meal plan for a dietary preference and daily calorie target, excluding restricted ingredients."
}

// InputSchema implements Tool.
func (t *MealPlannerTool) InputSchema() (map[string]interface{}, []string) {
	return map[string]interface{}{
		"dietary_preference": map[string]interface{}{
			"type":        "string",
			"description": "One of vegetarian, vegan, keto, paleo, mediterranean, no_preference",
		},
		"calorie_target": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Daily calorie target between %d and %d", minCalorieTarget, maxCalorieTarget),
		},
		"days": map[string]interface{}{
			"type":        "integer",
			"description": fmt.Sprintf("Plan length in days, %d to %d, default 7", minPlanDays, maxPlanDays),
		},
		"restrictions": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "Ingredients to exclude, e.g. allergies",
		},
	}, []string{"dietary_preference", "calorie_target"}
}

// Execute implements Tool.
func (t *MealPlannerTool) Execute(input json.RawMessage) (*Result, error) {
	var in mealPlanInput
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}

	pref := models.DietaryPreference(strings.ToLower(strings.TrimSpace(in.Preference)))
	if !pref.Valid() {
		return nil, invalid("dietary_preference", "%q is not a known preference", in.Preference)
	}
	if in.CalorieTarget < minCalorieTarget || in.CalorieTarget > maxCalorieTarget {
		return nil, invalid("calorie_target", "must be between %d and %d", minCalorieTarget, maxCalorieTarget)
	}
	days := in.Days
	if days == 0 {
		days = 7
	}
	if days < minPlanDays || days > maxPlanDays {
		return nil, invalid("days", "must be between %d and %d", minPlanDays, maxPlanDays)
	}

	templates := filterTemplates(templatesFor(pref), in.Restrictions)
	if len(templates) == 0 {
		return nil, invalid("restrictions", "no meals remain after applying the restrictions")
	}

	plan := buildMealPlan(pref, in.CalorieTarget, days, templates)

	return &Result{
		Summary: fmt.Sprintf("Built a %d-day %s meal plan around %d kcal/day", days, pref, in.CalorieTarget),
		Data:    plan,
	}, nil
}

// templatesFor returns the candidate meals for a preference. Vegan users
// never receive the omnivore fallback; everyone else falls back to the
// no_preference table when their table is missing a slot.
func templatesFor(pref models.DietaryPreference) []mealTemplate {
	templates := mealTemplates[pref]
	if pref == models.DietNoPreference || pref == models.DietVegan {
		return templates
	}
	// Fill meal types the preference table lacks from the fallback table.
	have := make(map[string]bool)
	for _, m := range templates {
		have[m.mealType] = true
	}
	for _, m := range mealTemplates[models.DietNoPreference] {
		if !have[m.mealType] {
			templates = append(templates, m)
		}
	}
	return templates
}

// filterTemplates drops meals containing any restricted ingredient.
func filterTemplates(templates []mealTemplate, restrictions []string) []mealTemplate {
	if len(restrictions) == 0 {
		return templates
	}
	var kept []mealTemplate
	for _, m := range templates {
		if !containsRestricted(m.ingredients, restrictions) {
			kept = append(kept, m)
		}
	}
	return kept
}

func containsRestricted(ingredients, restrictions []string) bool {
	for _, ing := range ingredients {
		for _, r := range restrictions {
			if strings.EqualFold(strings.TrimSpace(r), ing) {
				return true
			}
		}
	}
	return false
}

// buildMealPlan assembles days by rotating through the candidate meals per
// slot, picking deterministically so the same input yields the same plan.
func buildMealPlan(pref models.DietaryPreference, calorieTarget, days int, templates []mealTemplate) models.MealPlan {
	byType := make(map[string][]mealTemplate)
	for _, m := range templates {
		byType[m.mealType] = append(byType[m.mealType], m)
	}

	plan := models.MealPlan{
		Preference:    pref,
		CalorieTarget: calorieTarget,
		CreatedAt:     time.Now(),
	}

	for d := 0; d < days; d++ {
		day := models.MealPlanDay{Day: dayLabel(d)}
		for _, slot := range []string{"breakfast", "lunch", "dinner"} {
			candidates := byType[slot]
			if len(candidates) == 0 {
				continue
			}
			tmpl := candidates[d%len(candidates)]
			day.Meals = append(day.Meals, models.Meal{
				Type:        tmpl.mealType,
				Name:        tmpl.name,
				Description: tmpl.description,
				Calories:    scaleCalories(tmpl.calories, calorieTarget),
				Tags:        tmpl.tags,
			})
		}
		for _, m := range day.Meals {
			day.TotalCalories += m.Calories
		}
		plan.Days = append(plan.Days, day)
	}

	return plan
}

// dayLabel returns weekday names for the first week, then numbered days.
func dayLabel(i int) string {
	if i < len(dayNames) {
		return dayNames[i]
	}
	return fmt.Sprintf("Day %d", i+1)
}

// scaleCalories adjusts a template's calories proportionally to the user's
// target, assuming templates were authored against a 2000 kcal baseline.
func scaleCalories(base, target int) int {
	return base * target / 2000
}
