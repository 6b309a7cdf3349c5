package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	h, err := HashPassword("password")
	require.NoError(t, err)
	assert.NotEqual(t, "password", h)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("password")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("wrong")))
}
