package router

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"advisor_backend/internal/feature/scorecard/transport/handler"
	"advisor_backend/internal/feature/scorecard/transport/view"
	jwtmw "advisor_backend/internal/platform/jwt"
	platformhandler "advisor_backend/internal/platform/http/handler"
)

func NewRouter(scorecard *handler.ScorecardHandler, sessions *jwtmw.Generator, cookie jwtmw.CookieOptions,
	checks ...platformhandler.Check) (*gin.Engine, error) {
	r := gin.Default()

	tmpl, err := view.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	// セッション不要
	// 導通確認用
	health := platformhandler.NewHealth(checks...)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	// セッション必須のルート
	// Cookie または Authorization ヘッダーのトークンが無ければ新しく発行する
	app := r.Group("/")
	app.Use(jwtmw.SessionRequired(sessions, cookie))
	{
		// ダッシュボード
		app.GET("/", scorecard.Dashboard)
		// PDFアップロードと分析
		app.POST("/analyze", scorecard.Analyze)

		api := app.Group("/api")
		api.GET("/models", scorecard.ListModels)
		api.PUT("/session/model", scorecard.SelectModel)
		api.GET("/session", scorecard.GetSession)
		api.GET("/analyses", scorecard.ListAnalyses)
	}

	return r, nil
}
