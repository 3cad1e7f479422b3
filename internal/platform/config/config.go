// Package config はアプリケーション設定を環境変数とシークレットファイルから読み込みます。
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"advisor_backend/internal/feature/scorecard/domain"
)

const (
	// EnvKeyAPIKey はGemini APIキーの環境変数名です。シークレットファイルのキー名も同じです。
	EnvKeyAPIKey = "GOOGLE_API_KEY"
	// DefaultSecretsFile はシークレットファイルのデフォルトパスです。
	DefaultSecretsFile = ".secrets.yaml"
	// DefaultSessionTTL はSESSION_TTLが未指定または0以下の場合のセッション有効期間です。
	DefaultSessionTTL = 24 * time.Hour
)

// Config はサーバー全体の設定です。
type Config struct {
	Port   string
	APIKey string

	PromptFile    string
	LenientJSON   bool
	TierMarker    string
	VersionMarker string

	GeminiTimeout      time.Duration // 0の場合はSDKのデフォルト
	RateLimitPerMinute int           // 0の場合は無効

	VisionLogoFallback bool
	AnalysisCacheTTL   time.Duration // 0の場合はキャッシュしない
	AuditDBDSN         string        // 空の場合は監査記録を保存しない

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	Redis    RedisConfig
	LogLevel slog.Level
}

// RedisConfig はRedis接続設定です。Hostが空の場合はRedisを使用しません。
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr は host:port 形式のアドレスを返します。
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Enabled はRedisの接続先が設定されているかを返します。
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// LoadConfig は環境変数から設定を読み込みます。
// APIキーはシークレットファイル、環境変数の順に探し、見つからなければdomain.ErrMissingCredentialを返します。
func LoadConfig() (Config, error) {
	apiKey, err := LoadAPIKey(getEnv("SECRETS_FILE", DefaultSecretsFile))
	if err != nil {
		return Config{}, err
	}

	return Config{
		Port:   getEnv("PORT", "8080"),
		APIKey: apiKey,

		PromptFile:    os.Getenv("PROMPT_FILE"),
		LenientJSON:   getBoolEnv("LENIENT_JSON", false),
		TierMarker:    os.Getenv("MODEL_TIER_MARKER"),
		VersionMarker: os.Getenv("MODEL_VERSION_MARKER"),

		GeminiTimeout:      getDurationEnv("GEMINI_TIMEOUT", 0),
		RateLimitPerMinute: getIntEnv("GEMINI_RATE_LIMIT_PER_MINUTE", 0),

		VisionLogoFallback: getBoolEnv("VISION_LOGO_FALLBACK", false),
		AnalysisCacheTTL:   getDurationEnv("ANALYSIS_CACHE_TTL", 0),
		AuditDBDSN:         os.Getenv("AUDIT_DB_DSN"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getPositiveDurationEnv("SESSION_TTL", DefaultSessionTTL),
		CookieSecure:  getBoolEnv("COOKIE_SECURE", false),

		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		LogLevel: ParseLogLevel(os.Getenv("LOG_LEVEL")),
	}, nil
}

// secretsFile はシークレットファイルの形式です。
type secretsFile struct {
	GoogleAPIKey string `yaml:"GOOGLE_API_KEY"`
}

// LoadAPIKey はシークレットファイルを優先し、次に環境変数からAPIキーを取得します。
// ファイルが存在しない場合は環境変数のみを参照します。
func LoadAPIKey(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var s secretsFile
			if err := yaml.Unmarshal(data, &s); err != nil {
				return "", fmt.Errorf("failed to parse secrets file %s: %w", path, err)
			}
			if key := strings.TrimSpace(s.GoogleAPIKey); key != "" {
				return key, nil
			}
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("failed to read secrets file %s: %w", path, err)
		}
	}

	if key := strings.TrimSpace(os.Getenv(EnvKeyAPIKey)); key != "" {
		return key, nil
	}
	return "", domain.ErrMissingCredential
}

// ParseLogLevel はdebug/info/warn/errorをslog.Levelに変換します。不明な値はinfoです。
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}

// getPositiveDurationEnv は0以下の値をデフォルト値に置き換えます。
func getPositiveDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if d := getDurationEnv(key, defaultValue); d > 0 {
		return d
	}
	slog.Warn("non-positive duration in environment, using default", "key", key, "default", defaultValue)
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", value)
	}
	return defaultValue
}
