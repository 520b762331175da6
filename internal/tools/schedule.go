package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const maxCheckins = 26

// CheckinSchedule is the structured output of the check-in scheduler: a
// cadence plus concrete upcoming check-in dates.
type CheckinSchedule struct {
	// Cadence is daily, weekly or biweekly.
	Cadence string `json:"cadence"`
	// Checkins lists the scheduled check-in times in order.
	Checkins []time.Time `json:"checkins"`
	// Focus is what the user should record at each check-in.
	Focus string `json:"focus"`
}

// CheckinSchedulerTool builds a progress check-in schedule running from
// now until an optional end date. Pure: it returns dates, it does not
// register reminders anywhere.
type CheckinSchedulerTool struct {
	now func() time.Time
}

// NewCheckinSchedulerTool creates the scheduler with the given clock.
func NewCheckinSchedulerTool(now func() time.Time) *CheckinSchedulerTool {
	if now == nil {
		now = time.Now
	}
	return &CheckinSchedulerTool{now: now}
}

// scheduleInput is the declared input schema for the scheduler.
type scheduleInput struct {
	Cadence string `json:"cadence,omitempty"`
	Until   string `json:"until,omitempty"`
	Focus   string `json:"focus,omitempty"`
}

// Name implements Tool.
func (t *CheckinSchedulerTool) Name() string { return "checkin_scheduler" }

// Description implements Tool.
func (t *CheckinSchedulerTool) Description() string {
	return "Build a progress check-in schedule at a daily, weekly or biweekly cadence, optionally ending at a goal deadline."
}

// InputSchema implements Tool.
func (t *CheckinSchedulerTool) InputSchema() (map[string]interface{}, []string) {
	return map[string]interface{}{
		"cadence": map[string]interface{}{
			"type":        "string",
			"description": "daily, weekly or biweekly; default weekly",
		},
		"until": map[string]interface{}{
			"type":        "string",
			"description": "RFC3339 end date, usually the goal deadline; default 8 weeks out",
		},
		"focus": map[string]interface{}{
			"type":        "string",
			"description": "What to record at each check-in, e.g. weight",
		},
	}, nil
}

// Execute implements Tool.
func (t *CheckinSchedulerTool) Execute(input json.RawMessage) (*Result, error) {
	var in scheduleInput
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}

	cadence := strings.ToLower(strings.TrimSpace(in.Cadence))
	if cadence == "" {
		cadence = "weekly"
	}
	var step time.Duration
	switch cadence {
	case "daily":
		step = 24 * time.Hour
	case "weekly":
		step = 7 * 24 * time.Hour
	case "biweekly":
		step = 14 * 24 * time.Hour
	default:
		return nil, invalid("cadence", "%q is not daily, weekly or biweekly", in.Cadence)
	}

	now := t.now()
	until := now.Add(8 * 7 * 24 * time.Hour)
	if in.Until != "" {
		parsed, err := time.Parse(time.RFC3339, in.Until)
		if err != nil {
			return nil, invalid("until", "must be an RFC3339 timestamp")
		}
		if !parsed.After(now) {
			return nil, invalid("until", "must be in the future")
		}
		until = parsed
	}

	focus := strings.TrimSpace(in.Focus)
	if focus == "" {
		focus = "overall progress"
	}

	schedule := CheckinSchedule{Cadence: cadence, Focus: focus}
	for next := now.Add(step); !next.After(until) && len(schedule.Checkins) < maxCheckins; next = next.Add(step) {
		schedule.Checkins = append(schedule.Checkins, next)
	}
	if len(schedule.Checkins) == 0 {
		return nil, invalid("until", "too soon for a %s cadence", cadence)
	}

	return &Result{
		Summary: fmt.Sprintf("Scheduled %d %s check-ins for %s", len(schedule.Checkins), cadence, focus),
		Data:    schedule,
	}, nil
}
