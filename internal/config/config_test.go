package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_TIMEOUT", "")
	t.Setenv("PICKUP_TIMEZONE", "")

	cfg := Load()
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 10*time.Second, cfg.StoreTimeout)
	require.Equal(t, time.UTC, cfg.PickupLocation())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "not-a-number")
	t.Setenv("PICKUP_TIMEZONE", "Europe/Madrid")

	cfg := Load()
	require.Equal(t, 3*time.Second, cfg.StoreTimeout)
	require.Equal(t, 60, cfg.RateLimitPerMinute)
	require.Equal(t, "Europe/Madrid", cfg.PickupLocation().String())
}

func TestAllowDebugAuth(t *testing.T) {
	cases := []struct {
		env, mode string
		debug     bool
		devTokens bool
	}{
		{"development", "debug", true, true},
		{"development", "jwt", false, true},
		{"development", "firebase", false, false},
		{"production", "debug", false, false},
		{"production", "jwt", false, false},
	}
	for _, tc := range cases {
		cfg := &Config{AppEnv: tc.env, AuthMode: tc.mode}
		require.Equal(t, tc.debug, cfg.AllowDebugAuth(), "%s/%s", tc.env, tc.mode)
		require.Equal(t, tc.devTokens, cfg.IssuesDevTokens(), "%s/%s", tc.env, tc.mode)
	}
}
