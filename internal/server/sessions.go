package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/internal/state"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

// sessionRegistry keeps one live session context per user. Sessions are
// created on first contact and revived from the store when the process
// restarts.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session.Context
	db       *state.DB
}

func newSessionRegistry(db *state.DB) *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*session.Context),
		db:       db,
	}
}

// add registers a freshly created session.
func (r *sessionRegistry) add(sess *session.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.Profile.UserID] = sess
}

// get returns the live session for a user, reviving it from the store if
// needed. Returns nil when the user is unknown.
func (r *sessionRegistry) get(ctx context.Context, userID string) (*session.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[userID]; ok {
		return sess, nil
	}
	if r.db == nil {
		return nil, nil
	}

	sessionID, err := r.db.LatestSessionID(userID)
	if err != nil {
		return nil, fmt.Errorf("look up session: %w", err)
	}

	var sess *session.Context
	if sessionID != "" {
		sess, err = r.db.LoadSession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("revive session: %w", err)
		}
	}
	if sess == nil {
		// User exists in the store but has no session yet.
		profile, err := r.db.GetProfile(userID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			return nil, nil
		}
		sess = session.New(*profile)
	}
	if !sess.ActiveAgent.Valid() {
		sess.ActiveAgent = models.AgentWellness
	}

	r.sessions[userID] = sess
	return sess, nil
}
