package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "STORE_BACKEND", "EMPLOYEE_CACHE_TTL_MINUTES", "JWT_EXPIRY_HOURS", "EXPOSE_ACTIVATION_TOKEN", "ALLOWED_ORIGINS", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "dynamo", cfg.StoreBackend)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Minute, cfg.EmployeeCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.ExposeActivationToken)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("EMPLOYEE_CACHE_TTL_MINUTES", "3")
	t.Setenv("EXPOSE_ACTIVATION_TOKEN", "false")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, 3*time.Minute, cfg.EmployeeCacheTTL)
	assert.False(t, cfg.ExposeActivationToken)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "soon")
	t.Setenv("EXPOSE_ACTIVATION_TOKEN", "maybe")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.ExposeActivationToken)
}
