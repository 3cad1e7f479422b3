package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisor_backend/internal/app/router"
	"advisor_backend/internal/feature/scorecard/domain/entity"
	"advisor_backend/internal/feature/scorecard/transport/handler"
	"advisor_backend/internal/feature/scorecard/usecase"
	jwtmw "advisor_backend/internal/platform/jwt"
	platformhandler "advisor_backend/internal/platform/http/handler"
)

// stubUsecase はセッションIDを記録するだけのScorecardUsecase実装です。
type stubUsecase struct {
	sessionIDs []string
}

func (s *stubUsecase) LoadSession(ctx context.Context, id string) (*entity.Session, error) {
	s.sessionIDs = append(s.sessionIDs, id)
	sess := entity.NewSession(id, time.Now())
	sess.Catalog = entity.ModelCatalog{Models: []string{"models/gemini-1.5-flash"}, Default: "models/gemini-1.5-flash"}
	sess.CatalogLoaded = true
	return sess, nil
}

func (s *stubUsecase) SelectModel(ctx context.Context, id, model string) (*entity.Session, error) {
	return s.LoadSession(ctx, id)
}

func (s *stubUsecase) Analyze(ctx context.Context, sessionID string, doc usecase.Document) (*usecase.AnalysisResult, error) {
	return nil, nil
}

func (s *stubUsecase) RecentAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	return []entity.AnalysisRecord{}, nil
}

func newTestRouter(t *testing.T, uc *stubUsecase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r, err := router.NewRouter(
		handler.NewScorecardHandler(uc),
		jwtmw.NewGenerator("test-secret", time.Hour),
		jwtmw.CookieOptions{MaxAge: 3600},
		platformhandler.Check{Name: "noop", Probe: func(ctx context.Context) error { return nil }},
	)
	require.NoError(t, err)
	return r
}

func TestRouter_HealthDoesNotIssueSession(t *testing.T) {
	r := newTestRouter(t, &stubUsecase{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"noop":"ok"}}`, w.Body.String())
	assert.Empty(t, w.Header().Get(jwtmw.HeaderSessionToken))
}

func TestRouter_SessionIsReusedAcrossRequests(t *testing.T) {
	uc := &stubUsecase{}
	r := newTestRouter(t, uc)

	// 1回目: 新しいセッションが発行される
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/models", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(jwtmw.HeaderSessionToken)
	require.NotEmpty(t, token)

	// 2回目: 同じトークンで同じセッションIDが使われる
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(jwtmw.HeaderSessionToken))
	require.Len(t, uc.sessionIDs, 2)
	assert.Equal(t, uc.sessionIDs[0], uc.sessionIDs[1])
}

func TestRouter_DashboardRendersHTML(t *testing.T) {
	r := newTestRouter(t, &stubUsecase{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Corporate Advisor IA")
}
