package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := DefaultConfig("test-secret")

	tok, err := GenerateToken("user-1", "u1@example.com", "rescuer", cfg)
	require.NoError(t, err)

	claims, err := ValidateToken(tok, "test-secret")
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "rescuer", claims.Role)

	expiry, err := GetTokenExpiry(tok, "test-secret")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(cfg.AccessExpiry), expiry, time.Minute)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("user-1", "", "citizen", DefaultConfig("a"))
	require.NoError(t, err)

	_, err = ValidateToken(tok, "b")
	require.Error(t, err)
}

func TestGenerateToken_RequiresConfig(t *testing.T) {
	_, err := GenerateToken("user-1", "", "", nil)
	require.Error(t, err)
}
