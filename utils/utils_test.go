package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("admin@arenarium.gg"))
	assert.False(t, IsValidEmail("admin"))
	assert.False(t, IsValidEmail("admin@local"))
}
