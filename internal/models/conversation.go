package models

import (
	"time"

	"gorm.io/gorm"
)

// ConversationLog is one question/answer exchange kept for later analysis.
// The same struct is written to the JSON log file and to PostgreSQL.
type ConversationLog struct {
	ID                   uint           `json:"-" gorm:"primarykey"`
	Timestamp            time.Time      `json:"timestamp" gorm:"index"`
	SessionID            string         `json:"session_id" gorm:"index"`
	UserInput            string         `json:"user_input"`
	BotResponse          string         `json:"bot_response"`
	Language             Language       `json:"language" gorm:"size:8"`
	IsAgricultureRelated bool           `json:"is_agriculture_related"`
	CreatedAt            time.Time      `json:"-"`
	DeletedAt            gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName keeps the table name stable regardless of gorm's pluralizer
func (ConversationLog) TableName() string {
	return "conversation_logs"
}
