package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/authflow/authflow/internal/errors"
)

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "non-blank string", value: "hello", shouldErr: false},
		{name: "empty string", value: "", shouldErr: true},
		{name: "whitespace only", value: "   ", shouldErr: true},
		{name: "tabs and newlines", value: "\t\n", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNoWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "clean string", value: "hello", shouldErr: false},
		{name: "leading whitespace", value: " hello", shouldErr: true},
		{name: "trailing whitespace", value: "hello ", shouldErr: true},
		{name: "internal whitespace is allowed", value: "hello world", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NoWhitespace.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "https URL", value: "https://app.example.com/callback", shouldErr: false},
		{name: "http URL with port", value: "http://localhost:3000/cb", shouldErr: false},
		{name: "custom scheme for native apps", value: "myapp://oauth/callback", shouldErr: false},
		{name: "relative path", value: "/callback", shouldErr: true},
		{name: "missing scheme", value: "app.example.com/callback", shouldErr: true},
		{name: "with fragment", value: "https://app.example.com/cb#frag", shouldErr: true},
		{name: "empty string", value: "", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AbsoluteURL.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCodeVerifier(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "valid verifier", value: strings.Repeat("a", 43), shouldErr: false},
		{name: "maximum length", value: strings.Repeat("A", 128), shouldErr: false},
		{name: "unreserved punctuation", value: strings.Repeat("a-._~", 10), shouldErr: false},
		{name: "too short", value: strings.Repeat("a", 42), shouldErr: true},
		{name: "too long", value: strings.Repeat("a", 129), shouldErr: true},
		{name: "invalid character", value: strings.Repeat("a", 42) + "+", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CodeVerifier.Validate(tt.value)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})

	t.Run("wraps as invalid input", func(t *testing.T) {
		err := WrapValidationError(NotBlank.Validate(""))
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})
}
