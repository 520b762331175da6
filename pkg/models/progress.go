package models

import "time"

// ProgressUnits lists the measurement units accepted by the progress tracker.
var ProgressUnits = []string{"kg", "lbs", "cm", "in", "%", "bpm", "kcal", "steps", "minutes", ""}

// ValidProgressUnit returns true if the unit is in the allowed set.
// The empty string is allowed for unitless metrics.
func ValidProgressUnit(unit string) bool {
	for _, u := range ProgressUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// ProgressEntry is one recorded measurement for a user metric.
// Entries are append-only; corrections are recorded as new entries.
type ProgressEntry struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id"`
	// UserID scopes the entry to one user.
	UserID string `json:"user_id"`
	// Metric is the measurement category (weight, steps, heart_rate).
	Metric string `json:"metric"`
	// Value is the recorded measurement.
	Value float64 `json:"value"`
	// Unit is the measurement unit, may be empty.
	Unit string `json:"unit,omitempty"`
	// Notes holds optional user commentary.
	Notes string `json:"notes,omitempty"`
	// RecordedAt is when the measurement was taken.
	RecordedAt time.Time `json:"recorded_at"`
}

// GroupProgressByMetric buckets entries by metric name, preserving order
// within each bucket. Used by report rendering.
func GroupProgressByMetric(entries []ProgressEntry) map[string][]ProgressEntry {
	grouped := make(map[string][]ProgressEntry)
	for _, e := range entries {
		grouped[e.Metric] = append(grouped[e.Metric], e)
	}
	return grouped
}
