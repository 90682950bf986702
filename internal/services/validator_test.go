package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputValidator_Validate(t *testing.T) {
	v := NewInputValidator(10)

	tests := []struct {
		name   string
		input  string
		ok     bool
		reason string
	}{
		{"empty", "", false, ReasonEmpty},
		{"whitespace only", " \t\n ", false, ReasonEmpty},
		{"at limit", strings.Repeat("a", 10), true, ReasonValid},
		{"over limit", strings.Repeat("a", 11), false, "Input too long. Maximum 10 characters allowed"},
		{"devanagari counted as characters", strings.Repeat("शे", 5), true, ReasonValid},
		{"plain", "rice?", true, ReasonValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := v.Validate(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestInputValidator_HarmfulPatterns(t *testing.T) {
	v := NewInputValidator(100)

	tests := []struct {
		name  string
		input string
	}{
		{"script tag", "<SCRIPT>alert(1)</script>"},
		{"javascript url", "open JavaScript:alert(1)"},
		{"onclick", "<a onclick=steal()>rice</a>"},
		{"onerror", "<img onError=x>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := v.Validate(tt.input)
			assert.False(t, ok)
			assert.Equal(t, ReasonHarmful, reason)
		})
	}
}

func TestInputValidator_LengthCheckedBeforePatterns(t *testing.T) {
	v := NewInputValidator(10)

	ok, reason := v.Validate("JavaScript:x")
	assert.False(t, ok)
	assert.Equal(t, "Input too long. Maximum 10 characters allowed", reason)
}

func TestInputValidator_DefaultLimit(t *testing.T) {
	v := NewInputValidator(0)
	assert.Equal(t, DefaultMaxInputLength, v.MaxLength())

	ok, _ := v.Validate(strings.Repeat("x", 1000))
	assert.True(t, ok)

	ok, reason := v.Validate(strings.Repeat("x", 1001))
	assert.False(t, ok)
	assert.Equal(t, "Input too long. Maximum 1000 characters allowed", reason)
}

func TestInputValidator_Deterministic(t *testing.T) {
	v := NewInputValidator(100)
	ok1, r1 := v.Validate("what crop to plant?")
	ok2, r2 := v.Validate("what crop to plant?")
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, r1, r2)
}
