package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "test-secret", cfg.Auth.TokenSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Auth.Google.Enabled())
}

func TestAuthConfig_RequiresTokenSecret(t *testing.T) {
	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_SECRET")
}

func TestAuthConfig_SanitizeClampsBcryptCost(t *testing.T) {
	cfg := AuthConfig{BcryptCost: 99, TokenTTL: time.Hour}
	cfg.Sanitize()
	assert.Equal(t, maxBcryptCost, cfg.BcryptCost)

	cfg = AuthConfig{BcryptCost: 1, TokenTTL: time.Hour}
	cfg.Sanitize()
	assert.Equal(t, minBcryptCost, cfg.BcryptCost)
}

func TestAuthConfig_SanitizeRestoresTokenTTL(t *testing.T) {
	cfg := AuthConfig{BcryptCost: 10, TokenTTL: -time.Minute}
	cfg.Sanitize()
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")
	t.Setenv("NODE_ENV", "development")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}

func TestGoogleOAuthConfig_Enabled(t *testing.T) {
	g := GoogleOAuthConfig{ClientID: "id", ClientSecret: "secret"}
	assert.True(t, g.Enabled())

	g.ClientSecret = ""
	assert.False(t, g.Enabled())
}
