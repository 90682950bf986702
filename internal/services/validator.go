package services

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const DefaultMaxInputLength = 1000

// Validation reasons returned by InputValidator.Validate
const (
	ReasonValid   = "Valid input"
	ReasonEmpty   = "Empty input provided"
	ReasonHarmful = "Potentially harmful content detected"
)

var harmfulPatterns = []string{"<script", "javascript:", "onclick=", "onerror="}

// InputValidator gates raw user input before anything else sees it
type InputValidator struct {
	maxLength int
}

func NewInputValidator(maxLength int) *InputValidator {
	if maxLength <= 0 {
		maxLength = DefaultMaxInputLength
	}
	return &InputValidator{maxLength: maxLength}
}

// MaxLength returns the configured limit in characters
func (v *InputValidator) MaxLength() int {
	return v.maxLength
}

// Validate reports whether text may be processed and why
func (v *InputValidator) Validate(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, ReasonEmpty
	}

	if utf8.RuneCountInString(text) > v.maxLength {
		return false, fmt.Sprintf("Input too long. Maximum %d characters allowed", v.maxLength)
	}

	lower := strings.ToLower(text)
	for _, p := range harmfulPatterns {
		if strings.Contains(lower, p) {
			return false, ReasonHarmful
		}
	}

	return true, ReasonValid
}
