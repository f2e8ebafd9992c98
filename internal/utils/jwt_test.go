package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replaygear/replay_api/internal/utils"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := utils.GenerateJWT("test-secret", "user-1", "anita@example.com", "admin")
	require.NoError(t, err)

	claims, err := utils.ValidateJWT("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "anita@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := utils.GenerateJWT("test-secret", "user-1", "anita@example.com", "user")
	require.NoError(t, err)

	_, err = utils.ValidateJWT("other-secret", token)
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestJWTGarbageToken(t *testing.T) {
	_, err := utils.ValidateJWT("test-secret", "not.a.token")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestGenerateReferencePrefix(t *testing.T) {
	ref, err := utils.GenerateSellRequestReference()
	require.NoError(t, err)
	assert.Regexp(t, `^sr_[0-9a-f]{12}$`, ref)

	other, err := utils.GenerateSellRequestReference()
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)
}
