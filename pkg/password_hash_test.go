package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Password26!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Password26!", hash)

	assert.True(t, CheckPasswordHash("Password26!", hash))
	assert.False(t, CheckPasswordHash("Password26?", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestCheckPasswordHash_invalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("whatever", "not-a-bcrypt-hash"))
}
