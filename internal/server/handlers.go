package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/asmayaseen/vitacoach/internal/orchestrator"
	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

// createUserRequest is the body for POST /api/users.
type createUserRequest struct {
	Name               string                     `json:"name"`
	Email              string                     `json:"email"`
	Age                int                        `json:"age"`
	WeightKg           float64                    `json:"weight_kg"`
	HeightCm           float64                    `json:"height_cm"`
	ActivityLevel      models.ActivityLevel       `json:"activity_level"`
	DietaryPreferences []models.DietaryPreference `json:"dietary_preferences"`
	FoodAllergies      []string                   `json:"food_allergies"`
	MedicalConditions  []string                   `json:"medical_conditions"`
	InjuryNotes        string                     `json:"injury_notes"`
}

// userResponse is the JSON view of a user profile.
type userResponse struct {
	models.Profile
	BMI         float64          `json:"bmi,omitempty"`
	BMICategory string           `json:"bmi_category,omitempty"`
	ActiveAgent models.AgentKind `json:"active_agent"`
	SessionID   string           `json:"session_id"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.ActivityLevel != "" && !req.ActivityLevel.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown activity level %q", req.ActivityLevel))
		return
	}
	for _, pref := range req.DietaryPreferences {
		if !pref.Valid() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown dietary preference %q", pref))
			return
		}
	}
	if req.Age < 0 || req.WeightKg < 0 || req.HeightCm < 0 {
		writeError(w, http.StatusBadRequest, "age, weight and height must not be negative")
		return
	}

	sess := session.New(models.Profile{
		Name:               req.Name,
		Email:              req.Email,
		Age:                req.Age,
		WeightKg:           req.WeightKg,
		HeightCm:           req.HeightCm,
		ActivityLevel:      req.ActivityLevel,
		DietaryPreferences: req.DietaryPreferences,
		FoodAllergies:      req.FoodAllergies,
		MedicalConditions:  req.MedicalConditions,
		InjuryNotes:        req.InjuryNotes,
	})
	// Claim the slot before the registry publishes the session so no other
	// request can touch it until the response is written.
	sess.TryBeginTurn()
	defer sess.EndTurn()
	s.sessions.add(sess)
	s.save(r, sess)

	writeJSON(w, http.StatusCreated, s.userView(sess))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.lockTurn(w, sess) {
		return
	}
	defer sess.EndTurn()
	writeJSON(w, http.StatusOK, s.userView(sess))
}

// chatRequest is the body for POST /api/users/{id}/chat.
type chatRequest struct {
	Message string `json:"message"`
}

// handleChat streams a conversation turn as server-sent events. Each
// event line carries the JSON-encoded agent event.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.turnTimeout)
	defer cancel()

	events, err := s.orch.HandleTurn(ctx, sess, req.Message)
	var gerr *orchestrator.GuardrailError
	switch {
	case errors.As(err, &gerr):
		writeError(w, http.StatusBadRequest, gerr.Message)
		return
	case errors.Is(err, orchestrator.ErrTurnInFlight):
		writeError(w, http.StatusConflict, "a turn is already in progress for this user")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not start turn")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
		flusher.Flush()
	}
}

// createGoalRequest is the body for POST /api/users/{id}/goals.
type createGoalRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    models.GoalType `json:"category"`
	TargetValue float64         `json:"target_value"`
	Unit        string          `json:"unit"`
	TargetDate  string          `json:"target_date"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.lockTurn(w, sess) {
		return
	}
	defer sess.EndTurn()

	var req createGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if !req.Category.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown goal category %q", req.Category))
		return
	}
	if req.TargetValue <= 0 {
		writeError(w, http.StatusBadRequest, "target_value must be positive")
		return
	}

	var targetDate *time.Time
	if req.TargetDate != "" {
		t, err := time.Parse(time.RFC3339, req.TargetDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "target_date must be RFC 3339")
			return
		}
		if !t.After(s.now()) {
			writeError(w, http.StatusBadRequest, "target_date must be in the future")
			return
		}
		targetDate = &t
	}

	now := s.now()
	goal := models.Goal{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		TargetDate:  targetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	sess.AddGoal(goal)
	s.save(r, sess)

	writeJSON(w, http.StatusCreated, sess.Goals[len(sess.Goals)-1])
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.lockTurn(w, sess) {
		return
	}
	defer sess.EndTurn()

	type goalView struct {
		models.Goal
		ProgressPercent float64 `json:"progress_percent"`
	}
	views := make([]goalView, 0, len(sess.Goals))
	for _, g := range sess.Goals {
		views = append(views, goalView{Goal: g, ProgressPercent: g.ProgressPercent()})
	}
	writeJSON(w, http.StatusOK, views)
}

// goalStatusRequest is the body for POST .../goals/{goalID}/status.
type goalStatusRequest struct {
	Status models.GoalStatus `json:"status"`
}

func (s *Server) handleGoalStatus(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.lockTurn(w, sess) {
		return
	}
	defer sess.EndTurn()

	var req goalStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	goalID := chi.URLParam(r, "goalID")
	for i := range sess.Goals {
		if sess.Goals[i].ID != goalID {
			continue
		}
		if !models.CanTransitionGoal(sess.Goals[i].Status, req.Status) {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("cannot move goal from %s to %s", sess.Goals[i].Status, req.Status))
			return
		}
		sess.Goals[i].Status = req.Status
		sess.Goals[i].UpdatedAt = s.now()
		sess.Dirty = true
		s.save(r, sess)
		writeJSON(w, http.StatusOK, sess.Goals[i])
		return
	}
	writeError(w, http.StatusNotFound, "goal not found")
}

// addProgressRequest is the body for POST /api/users/{id}/progress.
type addProgressRequest struct {
	Metric     string  `json:"metric"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Notes      string  `json:"notes"`
	RecordedAt string  `json:"recorded_at"`
}

func (s *Server) handleAddProgress(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.lockTurn(w, sess) {
		return
	}
	defer sess.EndTurn()

	var req addProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Metric == "" {
		writeError(w, http.StatusBadRequest, "metric is required")
		return
	}
	if req.Value <= 0 {
		writeError(w, http.StatusBadRequest, "value must be positive")
		return
	}
	if !models.ValidProgressUnit(req.Unit) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown unit %q", req.Unit))
		return
	}

	recordedAt := s.now()
	if req.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "recorded_at must be RFC 3339")
			return
		}
		if t.After(s.now()) {
			writeError(w, http.StatusBadRequest, "recorded_at must not be in the future")
			return
		}
		recordedAt = t
	}

	entry := models.ProgressEntry{
		ID:         uuid.NewString(),
		Metric:     req.Metric,
		Value:      req.Value,
		Unit:       req.Unit,
		Notes:      req.Notes,
		RecordedAt: recordedAt,
	}
	sess.AddProgress(entry)
	s.save(r, sess)

	writeJSON(w, http.StatusCreated, sess.Progress[len(sess.Progress)-1])
}

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.lockTurn(w, sess) {
		return
	}
	defer sess.EndTurn()
	if metric := r.URL.Query().Get("metric"); metric != "" {
		grouped := models.GroupProgressByMetric(sess.Progress)
		entries := grouped[metric]
		if entries == nil {
			entries = []models.ProgressEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}
	entries := sess.Progress
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if sess == nil {
		return
	}
	if !s.lockTurn(w, sess) {
		return
	}
	defer sess.EndTurn()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.reports.Render(w, sess.Snapshot()); err != nil {
		log.Printf("[server] render report: %v", err)
	}
}

// lockTurn claims the session's turn slot for the duration of a request.
// Sessions are single-writer: the slot that serializes chat turns also has
// to cover the CRUD handlers, or they would mutate the context while a
// turn's goroutine is writing to it. Returns false after answering 409.
func (s *Server) lockTurn(w http.ResponseWriter, sess *session.Context) bool {
	if !sess.TryBeginTurn() {
		writeError(w, http.StatusConflict, "a turn is already in progress for this user")
		return false
	}
	return true
}

// session resolves the user ID in the URL to a live session, writing a
// 404 when the user is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.Context {
	userID := chi.URLParam(r, "userID")
	sess, err := s.sessions.get(r.Context(), userID)
	if err != nil {
		log.Printf("[server] load session for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "could not load user")
		return nil
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return nil
	}
	return sess
}

// save persists the session when a store is configured.
func (s *Server) save(r *http.Request, sess *session.Context) {
	if s.db == nil {
		return
	}
	if err := s.db.SaveSession(r.Context(), sess); err != nil {
		log.Printf("[server] save session %s: %v", sess.ID, err)
		return
	}
	sess.Dirty = false
}

func (s *Server) userView(sess *session.Context) userResponse {
	resp := userResponse{
		Profile:     sess.Profile,
		ActiveAgent: sess.ActiveAgent,
		SessionID:   sess.ID,
	}
	if bmi := sess.BMI(); bmi > 0 {
		resp.BMI = bmi
		resp.BMICategory = models.BMICategory(bmi)
	}
	return resp
}
