package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	scorecardadapters "advisor_backend/internal/feature/scorecard/adapters"
	"advisor_backend/internal/feature/scorecard/adapters/gemini"
	"advisor_backend/internal/feature/scorecard/adapters/vision"
	"advisor_backend/internal/feature/scorecard/transport/handler"
	"advisor_backend/internal/feature/scorecard/usecase"
	"advisor_backend/internal/platform/cache"
	"advisor_backend/internal/platform/config"
	infrahttp "advisor_backend/internal/platform/http"
	"advisor_backend/internal/shared/ratelimiter"
)

// NewAnalyzer wraps the Gemini client with the Redis reply cache when both Redis
// and a positive cache TTL are configured.
func NewAnalyzer(gc *gemini.GeminiClient, rdb *redis.Client, cfg config.Config) usecase.DocumentAnalyzer {
	if rdb == nil || cfg.AnalysisCacheTTL <= 0 {
		return gc
	}
	return cache.NewCachingAnalyzer(rdb, cfg.AnalysisCacheTTL, gc, "analysis", usecase.NewNormalizer(cfg.LenientJSON))
}

// NewScorecardHandler builds the scorecard feature from configuration.
// rdb and auditDB may be nil. The returned cleanup releases optional clients.
func NewScorecardHandler(ctx context.Context, cfg config.Config, rdb *redis.Client, auditDB *gorm.DB) (*handler.ScorecardHandler, func(), error) {
	httpClient := infrahttp.NewHTTPClient(cfg.GeminiTimeout)
	gc, err := gemini.NewGeminiClient(ctx, cfg.APIKey, httpClient)
	if err != nil {
		return nil, nil, err
	}

	prompt, err := usecase.LoadPrompt(cfg.PromptFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load prompt: %w", err)
	}

	cleanup := func() {}
	var opts []usecase.Option
	if auditDB != nil {
		opts = append(opts, usecase.WithAuditRecorder(scorecardadapters.NewAnalysisGorm(auditDB)))
	}
	if cfg.RateLimitPerMinute > 0 {
		opts = append(opts, usecase.WithThrottle(ratelimiter.NewPerMinute(cfg.RateLimitPerMinute)))
	}
	if cfg.VisionLogoFallback {
		identifier, err := vision.NewLogoCompanyIdentifier(ctx)
		if err != nil {
			slog.Warn("Vision API unavailable. Running without logo fallback.", "error", err)
		} else {
			opts = append(opts, usecase.WithCompanyIdentifier(identifier))
			cleanup = func() {
				if err := identifier.Close(); err != nil {
					slog.Warn("failed to close vision client", "error", err)
				}
			}
		}
	}

	uc := usecase.NewAnalysisUsecase(
		NewSessionRepository(rdb, cfg.SessionTTL),
		usecase.NewModelSelector(gc, cfg.TierMarker, cfg.VersionMarker),
		NewAnalyzer(gc, rdb, cfg),
		usecase.NewNormalizer(cfg.LenientJSON),
		prompt,
		opts...,
	)
	return handler.NewScorecardHandler(uc), cleanup, nil
}
