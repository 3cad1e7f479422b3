package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"advisor_backend/internal/app/di"
	"advisor_backend/internal/app/router"
	"advisor_backend/internal/platform/config"
	infradb "advisor_backend/internal/platform/db"
	platformhandler "advisor_backend/internal/platform/http/handler"
	jwtmw "advisor_backend/internal/platform/jwt"
	infraredis "advisor_backend/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// APIキーが無い場合はモデルを呼び出す前に停止する
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()
	var checks []platformhandler.Check

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running with in-memory sessions and without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
			checks = append(checks, platformhandler.Check{
				Name:  "redis",
				Probe: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			})
		}
	}

	// 監査DB（任意）
	var auditDB *gorm.DB
	if cfg.AuditDBDSN != "" {
		auditDB, err = infradb.OpenAuditDB(cfg.AuditDBDSN)
		if err != nil {
			log.Fatalf("[FATAL] audit database: %v", err)
		}
		sqlDB, err := auditDB.DB()
		if err != nil {
			log.Fatalf("[FATAL] audit database: %v", err)
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close audit database", "error", err)
			}
		}()
		checks = append(checks, platformhandler.Check{Name: "audit_db", Probe: sqlDB.PingContext})
	}

	// SESSION_SECRETチェック（開発中の注意喚起）
	secret := cfg.SessionSecret
	if secret == "" {
		secret = randomSecret()
		slog.Warn("SESSION_SECRET is not set. Sessions will not survive a restart.")
	}
	sessions := jwtmw.NewGenerator(secret, cfg.SessionTTL)

	// Handler
	scorecardH, cleanup, err := di.NewScorecardHandler(ctx, cfg, rdb, auditDB)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer cleanup()

	// ルータ生成
	r, err := router.NewRouter(scorecardH, sessions, jwtmw.CookieOptions{
		MaxAge: int(cfg.SessionTTL.Seconds()),
		Secure: cfg.CookieSecure,
	}, checks...)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	slog.Info("starting server", "port", cfg.Port, "redis", rdb != nil, "audit", auditDB != nil)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

// randomSecret は起動ごとに異なるセッション署名鍵を生成します。
func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("[FATAL] failed to generate session secret: %v", err)
	}
	return hex.EncodeToString(b)
}
