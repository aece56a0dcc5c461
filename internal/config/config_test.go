package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/go-modelguard/internal/config"
	"github.com/deppfellow/go-modelguard/internal/model"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MODELGUARD_PRIMARY__ENV", "development")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30, cfg.Server.ReadTimeout)
	assert.Nil(t, cfg.Redis)
	assert.True(t, cfg.Validation.DetectCycles)
	assert.Equal(t, model.DefaultMaxDepth, cfg.Validation.MaxDepth)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, config.ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MODELGUARD_PRIMARY__ENV", "production")
	t.Setenv("MODELGUARD_SERVER__PORT", "9090")
	t.Setenv("MODELGUARD_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("MODELGUARD_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("MODELGUARD_REDIS__SESSION_TTL", "600")
	t.Setenv("MODELGUARD_VALIDATION__DETECT_CYCLES", "false")
	t.Setenv("MODELGUARD_VALIDATION__MAX_DEPTH", "8")
	t.Setenv("MODELGUARD_OBSERVABILITY__LOGGING__LEVEL", "warn")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	require.NotNil(t, cfg.Redis)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
	assert.Equal(t, 600, cfg.Redis.SessionTTL)
	assert.False(t, cfg.Validation.DetectCycles)
	assert.Equal(t, 8, cfg.Validation.MaxDepth)
	assert.Equal(t, "warn", cfg.Observability.GetLogLevel())
	assert.Equal(t, "json", cfg.Observability.Logging.Format)
	assert.True(t, cfg.Observability.IsProduction())
}

func TestLoadConfigCORSOrigins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "single", value: "https://a.example", want: []string{"https://a.example"}},
		{name: "spaces and blanks", value: " https://a.example , ,https://b.example,", want: []string{"https://a.example", "https://b.example"}},
		{name: "empty", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MODELGUARD_PRIMARY__ENV", "development")
			t.Setenv("MODELGUARD_SERVER__CORS_ALLOWED_ORIGINS", tt.value)

			cfg, err := config.LoadConfig()
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, cfg.Server.CORSAllowedOrigins)
				return
			}
			assert.Equal(t, tt.want, cfg.Server.CORSAllowedOrigins)
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing env", env: map[string]string{}},
		{name: "bad log level", env: map[string]string{
			"MODELGUARD_PRIMARY__ENV":                  "development",
			"MODELGUARD_OBSERVABILITY__LOGGING__LEVEL": "loud",
		}},
		{name: "negative depth", env: map[string]string{
			"MODELGUARD_PRIMARY__ENV":          "development",
			"MODELGUARD_VALIDATION__MAX_DEPTH": "-1",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MODELGUARD_PRIMARY__ENV", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env, level, want string
	}{
		{env: "production", want: "info"},
		{env: "development", want: "debug"},
		{env: "staging", want: "debug"},
		{env: "production", level: "error", want: "error"},
	}

	for _, tt := range tests {
		c := &config.ObservabilityConfig{Environment: tt.env, Logging: config.LoggingConfig{Level: tt.level}}
		assert.Equal(t, tt.want, c.GetLogLevel(), "env=%s level=%s", tt.env, tt.level)
	}
}

func TestValidationOptions(t *testing.T) {
	t.Parallel()

	v := config.ValidationConfig{DetectCycles: true}.NewValidator()
	require.NotNil(t, v)
	assert.Len(t, config.ValidationConfig{}.Options(), 2)
}
