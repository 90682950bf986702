package services

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/koti-agri/koti-backend/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionManager manages in-memory chat sessions
type SessionManager struct {
	sessions  map[string]*models.Session
	mu        sync.RWMutex
	maxAge    time.Duration
	languages []models.Language
	defLang   models.Language
	now       func() time.Time
	log       *slog.Logger
}

// NewSessionManager creates a new session manager. languages seeds the
// language distribution so every supported language is reported.
func NewSessionManager(maxAge time.Duration, defaultLang models.Language, languages []models.Language) *SessionManager {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &SessionManager{
		sessions:  make(map[string]*models.Session),
		maxAge:    maxAge,
		languages: languages,
		defLang:   defaultLang,
		now:       time.Now,
		log:       slog.Default().With("component", "sessions"),
	}
}

// Ensure returns the id of an existing session, creating it when absent.
// An empty id gets a fresh UUID.
func (sm *SessionManager) Ensure(sessionID string) string {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	return sm.ensureLocked(sessionID).SessionID
}

// RecordInteraction counts one conversation turn and remembers its language
func (sm *SessionManager) RecordInteraction(sessionID string, lang models.Language) models.Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s := sm.ensureLocked(sessionID)
	s.ConversationCount++
	s.LastActivity = sm.now()
	s.PreferredLanguage = lang
	return *s
}

// SetPreferredLanguage updates the language without counting a turn
func (sm *SessionManager) SetPreferredLanguage(sessionID string, lang models.Language) models.Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s := sm.ensureLocked(sessionID)
	s.PreferredLanguage = lang
	s.LastActivity = sm.now()
	return *s
}

// Get returns a snapshot of a session
func (sm *SessionManager) Get(sessionID string) (models.Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[sessionID]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return *s, nil
}

// CleanupOldSessions removes sessions idle for longer than maxAge and
// returns how many were removed.
func (sm *SessionManager) CleanupOldSessions(maxAge time.Duration) int {
	if maxAge <= 0 {
		maxAge = sm.maxAge
	}
	cutoff := sm.now().Add(-maxAge)

	sm.mu.Lock()
	removed := 0
	for id, s := range sm.sessions {
		if s.LastActivity.Before(cutoff) {
			delete(sm.sessions, id)
			removed++
		}
	}
	sm.mu.Unlock()

	if removed > 0 {
		sm.log.Info("cleaned up old sessions", "removed", removed, "max_age", maxAge)
	}
	return removed
}

// GetSessionStats returns current session statistics
func (sm *SessionManager) GetSessionStats() models.SessionStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	stats := models.SessionStats{
		TotalSessions:        len(sm.sessions),
		LanguageDistribution: make(map[models.Language]int, len(sm.languages)),
	}
	for _, l := range sm.languages {
		stats.LanguageDistribution[l] = 0
	}

	cutoff := sm.now().Add(-sm.maxAge)
	for _, s := range sm.sessions {
		stats.TotalConversations += s.ConversationCount
		stats.LanguageDistribution[s.PreferredLanguage]++
		if !s.LastActivity.Before(cutoff) {
			stats.ActiveSessions++
		}
	}
	return stats
}

func (sm *SessionManager) ensureLocked(sessionID string) *models.Session {
	sessionID = strings.TrimSpace(sessionID)
	if s, ok := sm.sessions[sessionID]; ok {
		return s
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := sm.now()
	s := &models.Session{
		SessionID:         sessionID,
		CreatedAt:         now,
		LastActivity:      now,
		PreferredLanguage: sm.defLang,
	}
	sm.sessions[sessionID] = s
	sm.log.Debug("session created", "session_id", sessionID)
	return s
}
