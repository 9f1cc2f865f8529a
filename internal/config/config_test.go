package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func validConfig() *Config {
	return &Config{
		HTTPPort: 8000,
		GRPCPort: 9090,
		LogLevel: "info",
		Events: EventsConfig{
			Prefix: "analysis",
			MaxLen: 10000,
		},
		Timeouts: TimeoutConfig{
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, 9090, cfg.GRPCPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RedisEnabled())
	assert.True(t, cfg.GRPCEnabled())
	assert.Equal(t, "analysis", cfg.Events.Prefix)
	assert.Equal(t, int64(10000), cfg.Events.MaxLen)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.ReadHeaderTimeout)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.ShutdownTimeout)
	assert.Equal(t, ":8000", cfg.GetHTTPAddr())
	assert.Equal(t, ":9090", cfg.GetGRPCAddr())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ANALYSIS_HTTP_PORT", "8081")
	t.Setenv("ANALYSIS_GRPC_PORT", "0")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,https://app.example.com")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("ANALYSIS_EVENTS_MAXLEN", "500")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.HTTPPort)
	assert.False(t, cfg.GRPCEnabled())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, int64(500), cfg.Events.MaxLen)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "ANALYSIS_EVENTS_PREFIX=from-file\nANALYSIS_EVENTS_MAXLEN=42\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv writes straight into the process environment
	t.Cleanup(func() {
		_ = os.Unsetenv("ANALYSIS_EVENTS_PREFIX")
		_ = os.Unsetenv("ANALYSIS_EVENTS_MAXLEN")
	})
	t.Setenv("ANALYSIS_EVENTS_MAXLEN", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Events.Prefix)
	assert.Equal(t, int64(7), cfg.Events.MaxLen, "environment must win over the env file")
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	t.Setenv("ANALYSIS_HTTP_PORT", "not-a-port")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "http port zero",
			mutate:  func(c *Config) { c.HTTPPort = 0 },
			wantErr: "invalid HTTP port",
		},
		{
			name:    "http port too large",
			mutate:  func(c *Config) { c.HTTPPort = 70000 },
			wantErr: "invalid HTTP port",
		},
		{
			name:   "grpc disabled",
			mutate: func(c *Config) { c.GRPCPort = 0 },
		},
		{
			name:    "grpc port negative",
			mutate:  func(c *Config) { c.GRPCPort = -1 },
			wantErr: "invalid gRPC port",
		},
		{
			name:    "ports collide",
			mutate:  func(c *Config) { c.GRPCPort = c.HTTPPort },
			wantErr: "must differ",
		},
		{
			name: "redis without stream prefix",
			mutate: func(c *Config) {
				c.Redis.Addr = "localhost:6379"
				c.Events.Prefix = " "
			},
			wantErr: "events stream prefix is required",
		},
		{
			name:    "negative stream cap",
			mutate:  func(c *Config) { c.Events.MaxLen = -1 },
			wantErr: "must not be negative",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Timeouts.ShutdownTimeout = 0 },
			wantErr: "shutdown timeout",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
