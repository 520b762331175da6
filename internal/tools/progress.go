package tools

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/asmayaseen/vitacoach/pkg/models"
)

// metricPattern restricts metric names to letters, digits, spaces,
// underscores and dashes, starting with a letter.
var metricPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_ -]*$`)

const (
	minMetricLen = 2
	maxMetricLen = 50
	maxNotesLen  = 200
)

// ProgressTrackerTool validates progress measurements and structures them
// as models.ProgressEntry records. It enforces numeric-range checks and
// rejects future-dated entries.
type ProgressTrackerTool struct {
	now func() time.Time
}

// NewProgressTrackerTool creates the tracker with the given clock. Pass
// time.Now outside of tests.
func NewProgressTrackerTool(now func() time.Time) *ProgressTrackerTool {
	if now == nil {
		now = time.Now
	}
	return &ProgressTrackerTool{now: now}
}

// progressInput is the declared input schema for the tracker.
type progressInput struct {
	Metric     string  `json:"metric"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	RecordedAt string  `json:"recorded_at,omitempty"`
}

// Name implements Tool.
func (t *ProgressTrackerTool) Name() string { return "progress_tracker" }

// Description implements Tool.
func (t *ProgressTrackerTool) Description() string {
	return "Record a progress measurement (weight, steps, heart rate...) after validating the metric name, value, unit and date."
}

// InputSchema implements Tool.
func (t *ProgressTrackerTool) InputSchema() (map[string]interface{}, []string) {
	return map[string]interface{}{
		"metric": map[string]interface{}{
			"type":        "string",
			"description": "The metric being tracked, e.g. weight, steps, heart_rate",
		},
		"value": map[string]interface{}{
			"type":        "number",
			"description": "The measurement value, must be greater than 0",
		},
		"unit": map[string]interface{}{
			"type":        "string",
			"description": "Optional unit: kg, lbs, cm, in, %, bpm, kcal, steps, minutes",
		},
		"notes": map[string]interface{}{
			"type":        "string",
			"description": "Optional notes about this measurement",
		},
		"recorded_at": map[string]interface{}{
			"type":        "string",
			"description": "RFC3339 timestamp of the measurement, defaults to now",
		},
	}, []string{"metric", "value"}
}

// Execute implements Tool.
func (t *ProgressTrackerTool) Execute(input json.RawMessage) (*Result, error) {
	var in progressInput
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}

	metric := strings.ToLower(strings.TrimSpace(in.Metric))
	if len(metric) < minMetricLen || len(metric) > maxMetricLen {
		return nil, invalid("metric", "must be between %d and %d characters", minMetricLen, maxMetricLen)
	}
	if !metricPattern.MatchString(metric) {
		return nil, invalid("metric", "must contain only letters, numbers, spaces, underscores or dashes")
	}
	if in.Value <= 0 {
		return nil, invalid("value", "must be greater than 0")
	}
	if !models.ValidProgressUnit(in.Unit) {
		return nil, invalid("unit", "%q is not an accepted unit", in.Unit)
	}
	if len(in.Notes) > maxNotesLen {
		return nil, invalid("notes", "must be at most %d characters", maxNotesLen)
	}

	recordedAt := t.now()
	if in.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, in.RecordedAt)
		if err != nil {
			return nil, invalid("recorded_at", "must be an RFC3339 timestamp")
		}
		if parsed.After(t.now()) {
			return nil, invalid("recorded_at", "must not be in the future")
		}
		recordedAt = parsed
	}

	entry := models.ProgressEntry{
		Metric:     metric,
		Value:      in.Value,
		Unit:       in.Unit,
		Notes:      strings.TrimSpace(in.Notes),
		RecordedAt: recordedAt,
	}

	return &Result{
		Summary: fmt.Sprintf("Recorded %s = %g%s", metric, in.Value, in.Unit),
		Data:    entry,
	}, nil
}
