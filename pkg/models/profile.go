package models

// ActivityLevel describes how physically active a user is day to day.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// Valid returns true if the activity level is a known value.
func (a ActivityLevel) Valid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
		return true
	default:
		return false
	}
}

// DietaryPreference is a named eating pattern the meal planner respects.
type DietaryPreference string

const (
	DietVegetarian    DietaryPreference = "vegetarian"
	DietVegan         DietaryPreference = "vegan"
	DietKeto          DietaryPreference = "keto"
	DietPaleo         DietaryPreference = "paleo"
	DietMediterranean DietaryPreference = "mediterranean"
	DietNoPreference  DietaryPreference = "no_preference"
)

// Valid returns true if the preference is a known value.
func (d DietaryPreference) Valid() bool {
	switch d {
	case DietVegetarian, DietVegan, DietKeto, DietPaleo, DietMediterranean, DietNoPreference:
		return true
	default:
		return false
	}
}

// Profile holds a user's identity, anthropometrics and preferences.
type Profile struct {
	// UserID is the unique identifier for this user.
	UserID string `json:"user_id"`
	// Name is the user's display name.
	Name string `json:"name"`
	// Email is optional contact info.
	Email string `json:"email,omitempty"`
	// Age in years.
	Age int `json:"age,omitempty"`
	// WeightKg is body weight in kilograms.
	WeightKg float64 `json:"weight_kg,omitempty"`
	// HeightCm is height in centimeters.
	HeightCm float64 `json:"height_cm,omitempty"`
	// ActivityLevel defaults to moderate.
	ActivityLevel ActivityLevel `json:"activity_level"`
	// DietaryPreferences is the set of eating patterns to respect.
	DietaryPreferences []DietaryPreference `json:"dietary_preferences,omitempty"`
	// FoodAllergies lists ingredients to exclude from meal plans.
	FoodAllergies []string `json:"food_allergies,omitempty"`
	// MedicalConditions lists conditions relevant to nutrition advice.
	MedicalConditions []string `json:"medical_conditions,omitempty"`
	// InjuryNotes describes injuries the workout planner must work around.
	InjuryNotes string `json:"injury_notes,omitempty"`
}

// BMI returns the profile's body mass index, or 0 if weight or height
// is missing.
func (p *Profile) BMI() float64 {
	return BMI(p.WeightKg, p.HeightCm)
}

// BMI computes body mass index from weight in kilograms and height in
// centimeters. Returns 0 when either input is not positive.
func BMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// BMICategory buckets a BMI value into the standard WHO classification.
// The bands are exhaustive and non-overlapping:
// <18.5 underweight, [18.5,25) normal, [25,30) overweight, >=30 obese.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}
