package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor_backend/internal/feature/scorecard/domain/entity"
	"advisor_backend/internal/feature/scorecard/usecase"
)

// setupTestRedis creates a miniredis instance for testing.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})

	return client, mr
}

// createTestSession creates a session entity for testing.
func createTestSession(id string) *entity.Session {
	s := entity.NewSession(id, time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC))
	s.Catalog = entity.ModelCatalog{
		Models:  []string{"models/gemini-1.0-pro", "models/gemini-1.5-flash"},
		Default: "models/gemini-1.5-flash",
	}
	s.CatalogLoaded = true
	return s
}

func TestNewSessionRedis(t *testing.T) {
	client, _ := setupTestRedis(t)

	repo := NewSessionRedis(client, "session", 0)

	assert.NotNil(t, repo.client, "client is nil")
	assert.Equal(t, "session", repo.prefix)
	assert.Equal(t, DefaultTTL, repo.ttl)
}

func TestSessionRedis_SaveAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session", time.Hour)
	ctx := context.Background()

	s := createTestSession("sess-001")
	s.SelectedModel = "models/gemini-1.0-pro"
	s.State = entity.StateRendered
	s.LastFile = "acme.pdf"
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "sess-001")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, s.SelectedModel, got.SelectedModel)
	assert.Equal(t, s.Catalog, got.Catalog)
	assert.Equal(t, entity.StateRendered, got.State)
	assert.Equal(t, "acme.pdf", got.LastFile)
	assert.True(t, s.CreatedAt.Equal(got.CreatedAt))

	assert.True(t, mr.Exists("session:sess-001"))
	assert.Equal(t, time.Hour, mr.TTL("session:sess-001"))
}

func TestSessionRedis_GetNotFound(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session", time.Hour)

	_, err := repo.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_GetCorrupted(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session", time.Hour)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := repo.Get(context.Background(), "bad")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_Expiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewSessionRedis(client, "session", time.Minute)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, createTestSession("sess-002")))
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "sess-002")
	assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
}

func TestSessionRedis_HaltedSessionRoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	repo := NewSessionRedis(client, "session", time.Hour)
	ctx := context.Background()

	s := entity.NewSession("sess-003", time.Now())
	s.Halted = true
	s.HaltReason = "model listing failed: permission denied"
	require.NoError(t, repo.Save(ctx, s))

	got, err := repo.Get(ctx, "sess-003")
	require.NoError(t, err)
	assert.True(t, got.Halted)
	assert.Equal(t, s.HaltReason, got.HaltReason)
	assert.False(t, got.CatalogLoaded)
}

func TestSessionRedis_KeyGeneration(t *testing.T) {
	repo := NewSessionRedis(nil, "dash", time.Hour)
	assert.Equal(t, "dash:abc", repo.sessionKey("abc"))
}
