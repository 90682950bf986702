package models

import "time"

// Session is the in-memory conversational context of one chat user
type Session struct {
	SessionID         string    `json:"session_id"`
	CreatedAt         time.Time `json:"created_at"`
	LastActivity      time.Time `json:"last_activity"`
	ConversationCount int       `json:"conversation_count"`
	PreferredLanguage Language  `json:"preferred_language"`
}

// SessionStats aggregates the live session map for /api/stats
type SessionStats struct {
	TotalSessions        int              `json:"total_sessions"`
	TotalConversations   int              `json:"total_conversations"`
	LanguageDistribution map[Language]int `json:"language_distribution"`
	ActiveSessions       int              `json:"active_sessions"`
}
