package foodbook_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	"github.com/delcom/foodbook"
)

func TestFailureOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "No credential",
			err:      foodbook.ErrNoCredential,
			expected: foodbook.TextCodeNoCredential,
		},
		{
			name:     "Session not found",
			err:      foodbook.ErrSessionNotFound,
			expected: foodbook.TextCodeSessionNotFound,
		},
		{
			name:     "Wrapped user not found",
			err:      fmt.Errorf("resolve: %w", foodbook.ErrUserNotFound),
			expected: foodbook.TextCodeUserNotFound,
		},
		{
			name:     "Not an auth category",
			err:      foodbook.ErrEmailAlreadyExists,
			expected: "",
		},
		{
			name:     "Internal rich error",
			err:      goerrors.New("boom", goerrors.CategoryInternal),
			expected: "",
		},
		{
			name:     "Plain error",
			err:      errors.New("invalid token"),
			expected: "",
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, foodbook.FailureOf(tt.err))
			assert.Equal(t, tt.expected != "", foodbook.IsAuthFailure(tt.err))
		})
	}
}

func TestIsRecordNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Sentinel", foodbook.ErrRecordNotFound, true},
		{"With metadata", foodbook.NewRecordNotFound(map[string]any{"id": "x"}), true},
		{"sql.ErrNoRows", sql.ErrNoRows, true},
		{"Wrapped sql.ErrNoRows", fmt.Errorf("query: %w", sql.ErrNoRows), true},
		{"Other rich error", foodbook.ErrUserNotFound, false},
		{"Plain error", errors.New("connection refused"), false},
		{"Nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, foodbook.IsRecordNotFound(tt.err))
		})
	}
}

func TestAuthErrorsAreUnauthorized(t *testing.T) {
	for _, err := range []*goerrors.Error{
		foodbook.ErrNoCredential,
		foodbook.ErrInvalidCredential,
		foodbook.ErrMalformedCredential,
		foodbook.ErrSessionNotFound,
		foodbook.ErrUserNotFound,
	} {
		assert.Equal(t, goerrors.CategoryAuth, err.Category, err.TextCode)
		assert.Equal(t, 401, err.Code, err.TextCode)
	}
}
