package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_ADDR", "JWT_TTL", "GENERATOR_PROVIDER", "GENERATOR_API_KEY", "GPT_API_KEY",
		"GENERATOR_MAX_TOKENS", "GENERATOR_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "1h", cfg.Auth.JWTTTL)
	assert.Equal(t, "openai", cfg.Generator.Provider)
	assert.Equal(t, "50", cfg.Generator.MaxTokens)
	assert.Equal(t, "10s", cfg.Generator.Timeout)
	assert.Empty(t, cfg.Generator.APIKey)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestLoadGeneratorKeyFallsBackToLegacyName(t *testing.T) {
	t.Setenv("GENERATOR_API_KEY", "")
	t.Setenv("GPT_API_KEY", "sk-legacy")

	assert.Equal(t, "sk-legacy", Load().Generator.APIKey)

	t.Setenv("GENERATOR_API_KEY", "sk-new")
	assert.Equal(t, "sk-new", Load().Generator.APIKey)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a , ,http://b"))
	assert.Nil(t, splitList(""))
}
