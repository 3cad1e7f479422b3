// Package cache provides caching decorators for scorecard ports.
package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"advisor_backend/internal/feature/scorecard/usecase"
)

// CachingAnalyzer decorates a DocumentAnalyzer with a Redis cache of raw model replies.
// The key is derived from the model and a BLAKE2b digest of the prompt and document,
// so re-uploading the same PDF with the same model and prompt skips the model call.
type CachingAnalyzer struct {
	inner     usecase.DocumentAnalyzer
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	// normalizer decides whether a reply is worth storing; it must match the usecase's parsing mode.
	normalizer *usecase.Normalizer
}

// Compile-time check to ensure CachingAnalyzer implements DocumentAnalyzer.
var _ usecase.DocumentAnalyzer = (*CachingAnalyzer)(nil)

// NewCachingAnalyzer decorates a DocumentAnalyzer with Redis caching.
// If ttl is 0, it defaults to 1 hour. If namespace is empty, it uses "analysis".
// If normalizer is nil, a strict normalizer is used.
func NewCachingAnalyzer(rdb *redis.Client, ttl time.Duration, inner usecase.DocumentAnalyzer, namespace string, normalizer *usecase.Normalizer) *CachingAnalyzer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if namespace == "" {
		namespace = "analysis"
	}
	if normalizer == nil {
		normalizer = usecase.NewNormalizer(false)
	}
	return &CachingAnalyzer{
		inner:      inner,
		rdb:        rdb,
		ttl:        ttl,
		namespace:  namespace,
		normalizer: normalizer,
	}
}

// AnalyzeDocument returns a cached reply when present, otherwise calls the inner analyzer
// and stores the reply. Cache errors never fail the call.
func (c *CachingAnalyzer) AnalyzeDocument(ctx context.Context, req usecase.AnalysisRequest) (string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.AnalyzeDocument(ctx, req)
	}

	key := c.cacheKey(req)

	// 1) Check cache (a miss and a Redis failure both fall through to the model)
	if v, err := c.rdb.Get(ctx, key).Result(); err == nil && v != "" {
		return v, nil
	}

	// 2) Fallback to the model
	reply, err := c.inner.AnalyzeDocument(ctx, req)
	if err != nil {
		return "", err
	}

	// 3) Store only replies that parse; a failed upload must reach the model again on retry
	if _, err := c.normalizer.Normalize(reply); err == nil {
		_ = c.rdb.Set(ctx, key, reply, c.ttl).Err()
	}
	return reply, nil
}

// cacheKey generates the cache key for a request.
func (c *CachingAnalyzer) cacheKey(req usecase.AnalysisRequest) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, safe(req.Model), Digest(req))
}

// Digest returns the hex BLAKE2b-256 digest of everything sent to the model except the model name.
func Digest(req usecase.AnalysisRequest) string {
	h, _ := blake2b.New256(nil) // nil key never fails
	for _, part := range [][]byte{
		[]byte(req.Instruction),
		[]byte(req.MIMEType),
		req.Document,
		[]byte(req.Closing),
	} {
		_, _ = h.Write(part)
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
