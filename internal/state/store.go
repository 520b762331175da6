package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

// SaveSession writes a session context and everything it owns to the
// database in one transaction. Append-only logs (conversation, handoffs)
// are rewritten from the in-memory state, which is their source of truth
// while the session is live.
func (db *DB) SaveSession(ctx context.Context, sess *session.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return db.Transaction(func(tx *sql.Tx) error {
		if err := upsertUser(tx, &sess.Profile, sess.StartedAt); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO sessions (id, user_id, active_agent, started_at, last_activity)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				active_agent = excluded.active_agent,
				last_activity = excluded.last_activity
		`, sess.ID, sess.Profile.UserID, string(sess.ActiveAgent),
			formatTime(sess.StartedAt), formatTime(sess.LastActivity))
		if err != nil {
			return fmt.Errorf("save session row: %w", err)
		}

		for i := range sess.Goals {
			if err := upsertGoal(tx, &sess.Goals[i]); err != nil {
				return err
			}
		}
		for _, entry := range sess.Progress {
			if err := insertProgress(tx, entry); err != nil {
				return err
			}
		}

		if _, err := tx.Exec("DELETE FROM conversations WHERE session_id = ?", sess.ID); err != nil {
			return fmt.Errorf("clear conversation: %w", err)
		}
		for _, msg := range sess.Conversation {
			_, err := tx.Exec(`
				INSERT INTO conversations (session_id, role, agent, content, timestamp)
				VALUES (?, ?, ?, ?, ?)
			`, sess.ID, string(msg.Role), string(msg.Agent), msg.Content, formatTime(msg.Timestamp))
			if err != nil {
				return fmt.Errorf("save conversation message: %w", err)
			}
		}

		if _, err := tx.Exec("DELETE FROM handoffs WHERE session_id = ?", sess.ID); err != nil {
			return fmt.Errorf("clear handoffs: %w", err)
		}
		for _, h := range sess.Handoffs {
			_, err := tx.Exec(`
				INSERT INTO handoffs (session_id, from_agent, to_agent, reason, timestamp)
				VALUES (?, ?, ?, ?, ?)
			`, sess.ID, string(h.FromAgent), string(h.ToAgent), h.Reason, formatTime(h.Timestamp))
			if err != nil {
				return fmt.Errorf("save handoff: %w", err)
			}
		}

		if sess.MealPlan != nil {
			if err := upsertMealPlan(tx, sess.MealPlan); err != nil {
				return err
			}
		}
		if sess.WorkoutPlan != nil {
			if err := upsertWorkoutPlan(tx, sess.WorkoutPlan); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadSession reconstructs a session context by session ID.
// Returns nil when the session does not exist.
func (db *DB) LoadSession(ctx context.Context, sessionID string) (*session.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	row := db.QueryRow(`
		SELECT id, user_id, active_agent, started_at, last_activity
		FROM sessions WHERE id = ?
	`, sessionID)

	var userID, activeAgent, startedAt, lastActivity string
	var id string
	err := row.Scan(&id, &userID, &activeAgent, &startedAt, &lastActivity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	profile, err := db.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("session %s references missing user %s", id, userID)
	}

	sess := &session.Context{
		ID:          id,
		Profile:     *profile,
		ActiveAgent: models.AgentKind(activeAgent),
	}
	sess.StartedAt, _ = parseTime(startedAt)
	sess.LastActivity, _ = parseTime(lastActivity)

	if sess.Goals, err = db.GetGoals(userID); err != nil {
		return nil, err
	}
	if sess.Progress, err = db.GetProgress(userID); err != nil {
		return nil, err
	}
	if sess.Conversation, err = db.getConversation(id); err != nil {
		return nil, err
	}
	if sess.Handoffs, err = db.getHandoffs(id); err != nil {
		return nil, err
	}
	if sess.MealPlan, err = db.GetMealPlan(userID); err != nil {
		return nil, err
	}
	if sess.WorkoutPlan, err = db.GetWorkoutPlan(userID); err != nil {
		return nil, err
	}
	return sess, nil
}

// LatestSessionID returns the most recently active session for a user,
// or empty when the user has none.
func (db *DB) LatestSessionID(userID string) (string, error) {
	row := db.QueryRow(`
		SELECT id FROM sessions WHERE user_id = ?
		ORDER BY last_activity DESC LIMIT 1
	`, userID)
	var id string
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest session: %w", err)
	}
	return id, nil
}

// GetProfile retrieves a user profile by ID. Returns nil when not found.
func (db *DB) GetProfile(userID string) (*models.Profile, error) {
	row := db.QueryRow(`
		SELECT id, name, email, age, weight_kg, height_cm, activity_level,
			dietary_preferences, food_allergies, medical_conditions, injury_notes
		FROM users WHERE id = ?
	`, userID)

	var p models.Profile
	var level, prefs, allergies, conditions string
	err := row.Scan(&p.UserID, &p.Name, &p.Email, &p.Age, &p.WeightKg, &p.HeightCm,
		&level, &prefs, &allergies, &conditions, &p.InjuryNotes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.ActivityLevel = models.ActivityLevel(level)
	if err := unmarshalProfileLists(&p, prefs, allergies, conditions); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	return &p, nil
}

// unmarshalProfileLists decodes the JSON list columns of a user row. A
// corrupted column is an error, not an empty profile.
func unmarshalProfileLists(p *models.Profile, prefs, allergies, conditions string) error {
	if prefs == "" {
		prefs = "null"
	}
	if allergies == "" {
		allergies = "null"
	}
	if conditions == "" {
		conditions = "null"
	}
	if err := json.Unmarshal([]byte(prefs), &p.DietaryPreferences); err != nil {
		return fmt.Errorf("decode dietary_preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(allergies), &p.FoodAllergies); err != nil {
		return fmt.Errorf("decode food_allergies: %w", err)
	}
	if err := json.Unmarshal([]byte(conditions), &p.MedicalConditions); err != nil {
		return fmt.Errorf("decode medical_conditions: %w", err)
	}
	return nil
}

// SaveProfile upserts a user profile outside a session save.
func (db *DB) SaveProfile(p *models.Profile) error {
	return db.Transaction(func(tx *sql.Tx) error {
		return upsertUser(tx, p, time.Now())
	})
}

// ListProfiles returns all stored user profiles ordered by name.
func (db *DB) ListProfiles() ([]models.Profile, error) {
	rows, err := db.Query(`
		SELECT id, name, email, age, weight_kg, height_cm, activity_level,
			dietary_preferences, food_allergies, medical_conditions, injury_notes
		FROM users ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		var level, prefs, allergies, conditions string
		if err := rows.Scan(&p.UserID, &p.Name, &p.Email, &p.Age, &p.WeightKg, &p.HeightCm,
			&level, &prefs, &allergies, &conditions, &p.InjuryNotes); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		p.ActivityLevel = models.ActivityLevel(level)
		if err := unmarshalProfileLists(&p, prefs, allergies, conditions); err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetGoals returns all goals for a user, oldest first.
func (db *DB) GetGoals(userID string) ([]models.Goal, error) {
	rows, err := db.Query(`
		SELECT id, user_id, title, description, category, target_value,
			current_value, unit, target_date, status, created_at, updated_at
		FROM goals WHERE user_id = ? ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get goals: %w", err)
	}
	defer rows.Close()

	var out []models.Goal
	for rows.Next() {
		var g models.Goal
		var category, status, createdAt, updatedAt string
		var targetDate sql.NullString
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &category,
			&g.TargetValue, &g.CurrentValue, &g.Unit, &targetDate, &status,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Category = models.GoalType(category)
		g.Status = models.GoalStatus(status)
		g.TargetDate = parseNullableTime(targetDate)
		g.CreatedAt, _ = parseTime(createdAt)
		g.UpdatedAt, _ = parseTime(updatedAt)
		out = append(out, g)
	}
	return out, rows.Err()
}

// GetProgress returns all progress entries for a user, oldest first.
func (db *DB) GetProgress(userID string) ([]models.ProgressEntry, error) {
	rows, err := db.Query(`
		SELECT id, user_id, metric, value, unit, notes, recorded_at
		FROM progress WHERE user_id = ? ORDER BY recorded_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	defer rows.Close()

	var out []models.ProgressEntry
	for rows.Next() {
		var e models.ProgressEntry
		var recordedAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Metric, &e.Value, &e.Unit,
			&e.Notes, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan progress entry: %w", err)
		}
		e.RecordedAt, _ = parseTime(recordedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetMealPlan returns the user's most recent meal plan, or nil.
func (db *DB) GetMealPlan(userID string) (*models.MealPlan, error) {
	row := db.QueryRow(`
		SELECT id, user_id, preference, calorie_target, days, created_at
		FROM meal_plans WHERE user_id = ?
		ORDER BY created_at DESC LIMIT 1
	`, userID)

	var plan models.MealPlan
	var preference, days, createdAt string
	err := row.Scan(&plan.ID, &plan.UserID, &preference, &plan.CalorieTarget, &days, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal plan: %w", err)
	}

	plan.Preference = models.DietaryPreference(preference)
	plan.CreatedAt, _ = parseTime(createdAt)
	if err := json.Unmarshal([]byte(days), &plan.Days); err != nil {
		return nil, fmt.Errorf("decode meal plan days: %w", err)
	}
	return &plan, nil
}

// GetWorkoutPlan returns the user's most recent workout plan, or nil.
func (db *DB) GetWorkoutPlan(userID string) (*models.WorkoutPlan, error) {
	row := db.QueryRow(`
		SELECT id, user_id, category, days, created_at
		FROM workout_plans WHERE user_id = ?
		ORDER BY created_at DESC LIMIT 1
	`, userID)

	var plan models.WorkoutPlan
	var category, days, createdAt string
	err := row.Scan(&plan.ID, &plan.UserID, &category, &days, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workout plan: %w", err)
	}

	plan.Category = models.GoalType(category)
	plan.CreatedAt, _ = parseTime(createdAt)
	if err := json.Unmarshal([]byte(days), &plan.Days); err != nil {
		return nil, fmt.Errorf("decode workout plan days: %w", err)
	}
	return &plan, nil
}

func (db *DB) getConversation(sessionID string) ([]models.ConversationMessage, error) {
	rows, err := db.Query(`
		SELECT role, agent, content, timestamp
		FROM conversations WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	defer rows.Close()

	var out []models.ConversationMessage
	for rows.Next() {
		var m models.ConversationMessage
		var role, agent, timestamp string
		if err := rows.Scan(&role, &agent, &m.Content, &timestamp); err != nil {
			return nil, fmt.Errorf("scan conversation message: %w", err)
		}
		m.Role = models.Role(role)
		m.Agent = models.AgentKind(agent)
		m.Timestamp, _ = parseTime(timestamp)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (db *DB) getHandoffs(sessionID string) ([]models.HandoffRecord, error) {
	rows, err := db.Query(`
		SELECT from_agent, to_agent, reason, timestamp
		FROM handoffs WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get handoffs: %w", err)
	}
	defer rows.Close()

	var out []models.HandoffRecord
	for rows.Next() {
		var h models.HandoffRecord
		var from, to, timestamp string
		if err := rows.Scan(&from, &to, &h.Reason, &timestamp); err != nil {
			return nil, fmt.Errorf("scan handoff: %w", err)
		}
		h.FromAgent = models.AgentKind(from)
		h.ToAgent = models.AgentKind(to)
		h.Timestamp, _ = parseTime(timestamp)
		out = append(out, h)
	}
	return out, rows.Err()
}

func upsertUser(tx *sql.Tx, p *models.Profile, createdAt time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO users (id, name, email, age, weight_kg, height_cm, activity_level,
			dietary_preferences, food_allergies, medical_conditions, injury_notes,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			age = excluded.age,
			weight_kg = excluded.weight_kg,
			height_cm = excluded.height_cm,
			activity_level = excluded.activity_level,
			dietary_preferences = excluded.dietary_preferences,
			food_allergies = excluded.food_allergies,
			medical_conditions = excluded.medical_conditions,
			injury_notes = excluded.injury_notes,
			updated_at = excluded.updated_at
	`, p.UserID, p.Name, p.Email, p.Age, p.WeightKg, p.HeightCm, string(p.ActivityLevel),
		marshalJSON(p.DietaryPreferences), marshalJSON(p.FoodAllergies),
		marshalJSON(p.MedicalConditions), p.InjuryNotes,
		formatTime(createdAt), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func upsertGoal(tx *sql.Tx, g *models.Goal) error {
	var targetDate any
	if g.TargetDate != nil {
		targetDate = formatTime(*g.TargetDate)
	}
	_, err := tx.Exec(`
		INSERT INTO goals (id, user_id, title, description, category, target_value,
			current_value, unit, target_date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			target_value = excluded.target_value,
			current_value = excluded.current_value,
			unit = excluded.unit,
			target_date = excluded.target_date,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, g.ID, g.UserID, g.Title, g.Description, string(g.Category), g.TargetValue,
		g.CurrentValue, g.Unit, targetDate, string(g.Status),
		formatTime(g.CreatedAt), formatTime(g.UpdatedAt))
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func insertProgress(tx *sql.Tx, e models.ProgressEntry) error {
	// Entries are append-only; re-saving a session must not duplicate them.
	_, err := tx.Exec(`
		INSERT OR IGNORE INTO progress (id, user_id, metric, value, unit, notes, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.UserID, e.Metric, e.Value, e.Unit, e.Notes, formatTime(e.RecordedAt))
	if err != nil {
		return fmt.Errorf("save progress entry: %w", err)
	}
	return nil
}

func upsertMealPlan(tx *sql.Tx, plan *models.MealPlan) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO meal_plans (id, user_id, preference, calorie_target, days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, plan.ID, plan.UserID, string(plan.Preference), plan.CalorieTarget,
		marshalJSON(plan.Days), formatTime(plan.CreatedAt))
	if err != nil {
		return fmt.Errorf("save meal plan: %w", err)
	}
	return nil
}

func upsertWorkoutPlan(tx *sql.Tx, plan *models.WorkoutPlan) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO workout_plans (id, user_id, category, days, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, plan.ID, plan.UserID, string(plan.Category), marshalJSON(plan.Days),
		formatTime(plan.CreatedAt))
	if err != nil {
		return fmt.Errorf("save workout plan: %w", err)
	}
	return nil
}
