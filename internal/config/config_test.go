package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("REVOCATION_BACKEND", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Revocation.Backend)
	assert.Equal(t, EventsGoChannel, cfg.Events.Backend)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
}

func TestLoad_PostgresBackendWhenDSNSet(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost/auth")
	t.Setenv("REVOCATION_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Revocation.Backend)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("AUTH_ACCESS_TOKEN_TTL_MINUTES=5\n"), 0o600))

	// godotenv never overrides variables already present in the environment.
	require.NoError(t, os.Unsetenv("AUTH_ACCESS_TOKEN_TTL_MINUTES"))
	t.Cleanup(func() { _ = os.Unsetenv("AUTH_ACCESS_TOKEN_TTL_MINUTES") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "memory ok", mutate: func(c *Config) {}},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Revocation.Backend = BackendPostgres }, wantErr: true},
		{name: "unknown revocation backend", mutate: func(c *Config) { c.Revocation.Backend = "etcd" }, wantErr: true},
		{name: "unknown events backend", mutate: func(c *Config) { c.Events.Backend = "kafka" }, wantErr: true},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Auth:       AuthConfig{JWTSecret: "secret"},
				Revocation: RevocationConfig{Backend: BackendMemory},
				Events:     EventsConfig{Backend: EventsGoChannel},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
