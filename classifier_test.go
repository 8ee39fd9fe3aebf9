package foodbook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/delcom/foodbook"
)

func TestRequestClassifier_IsPublic(t *testing.T) {
	rc := foodbook.NewRequestClassifier("")

	tests := []struct {
		path   string
		public bool
	}{
		{"/api/auth", true},
		{"/api/auth/login", true},
		{"/api/authors", false},
		{"/auth/login", true},
		{"/authors", false},
		{"/assets/app.css", true},
		{"/health", true},
		{"/healthz", false},
		{"/error", true},
		{"/api/foods", false},
		{"/home", false},
		{"/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.public, rc.IsPublic(tt.path))
		})
	}
}

func TestRequestClassifier_CustomPrefixes(t *testing.T) {
	rc := foodbook.NewRequestClassifier("v1/", "open/", "  ", "/docs")

	assert.True(t, rc.IsPublic("/open"))
	assert.True(t, rc.IsPublic("/open/page"))
	assert.True(t, rc.IsPublic("/docs/index"))
	assert.False(t, rc.IsPublic("/api/auth/login"), "defaults are replaced")

	assert.True(t, rc.IsAPI("/v1"))
	assert.True(t, rc.IsAPI("/v1/foods"))
	assert.False(t, rc.IsAPI("/v10/foods"))
	assert.False(t, rc.IsAPI("/api/foods"))
}

func TestRequestClassifier_IsAPI(t *testing.T) {
	rc := foodbook.NewRequestClassifier(foodbook.DefaultAPIPrefix)

	assert.True(t, rc.IsAPI("/api/foods"))
	assert.True(t, rc.IsAPI("/api"))
	assert.False(t, rc.IsAPI("/apiary"))
	assert.False(t, rc.IsAPI("/home"))
}
