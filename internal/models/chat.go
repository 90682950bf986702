package models

import "time"

// Reply statuses returned by the chatbot pipeline
const (
	StatusSuccess  = "success"
	StatusRedirect = "redirect"
	StatusError    = "error"
)

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message   string   `json:"message" validate:"required"`
	SessionID string   `json:"session_id" validate:"omitempty,max=64"`
	Language  Language `json:"language" validate:"omitempty,max=8"`
}

// ChatResponse is the body returned by POST /api/chat
type ChatResponse struct {
	Answer    string    `json:"answer"`
	Language  Language  `json:"language"`
	Status    string    `json:"status"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerateRequest is the body of the legacy POST /generate endpoint
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// Reply is the outcome of one pass through the chatbot pipeline
type Reply struct {
	Response             string    `json:"response"`
	Language             Language  `json:"language"`
	Status               string    `json:"status"`
	SessionID            string    `json:"session_id"`
	Timestamp            time.Time `json:"timestamp"`
	IsAgricultureRelated bool      `json:"is_agriculture_related"`
	IsWelcome            bool      `json:"is_welcome,omitempty"`
}
