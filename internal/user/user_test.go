package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentUsername(t *testing.T) {
	t.Setenv(NameEnv, "")

	assert.NotEmpty(t, GetCurrentUsername(), "always returns a fallback")
}

func TestGetCurrentUsernameOverride(t *testing.T) {
	t.Setenv(NameEnv, "ana")

	assert.Equal(t, "ana", GetCurrentUsername())
}
