package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor_backend/internal/feature/scorecard/domain"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		secrets string // 空の場合はファイルを作らない
		env     string
		want    string
		wantErr error
	}{
		{name: "secrets file wins over env", secrets: "GOOGLE_API_KEY: file-key\n", env: "env-key", want: "file-key"},
		{name: "env used when file missing", env: "env-key", want: "env-key"},
		{name: "env used when file has no key", secrets: "OTHER: x\n", env: "env-key", want: "env-key"},
		{name: "missing everywhere", wantErr: domain.ErrMissingCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvKeyAPIKey, tt.env)
			path := filepath.Join(t.TempDir(), "absent.yaml")
			if tt.secrets != "" {
				path = writeSecrets(t, tt.secrets)
			}

			got, err := LoadAPIKey(path)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadAPIKey_InvalidYAML(t *testing.T) {
	t.Setenv(EnvKeyAPIKey, "env-key")
	path := writeSecrets(t, "GOOGLE_API_KEY: [broken")

	_, err := LoadAPIKey(path)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrMissingCredential)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv(EnvKeyAPIKey, "env-key")
	t.Setenv("LENIENT_JSON", "true")
	t.Setenv("GEMINI_TIMEOUT", "45s")
	t.Setenv("GEMINI_RATE_LIMIT_PER_MINUTE", "15")
	t.Setenv("ANALYSIS_CACHE_TTL", "not-a-duration")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.LenientJSON)
	assert.Equal(t, 45*time.Second, cfg.GeminiTimeout)
	assert.Equal(t, 15, cfg.RateLimitPerMinute)
	assert.Equal(t, time.Duration(0), cfg.AnalysisCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.False(t, cfg.VisionLogoFallback)
	assert.Empty(t, cfg.AuditDBDSN)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfig_NonPositiveSessionTTL(t *testing.T) {
	for _, v := range []string{"0", "-5m"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
			t.Setenv(EnvKeyAPIKey, "env-key")
			t.Setenv("SESSION_TTL", v)

			cfg, err := LoadConfig()

			require.NoError(t, err)
			assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
		})
	}
}

func TestLoadConfig_MissingCredential(t *testing.T) {
	t.Setenv("SECRETS_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv(EnvKeyAPIKey, "")

	_, err := LoadConfig()

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}
