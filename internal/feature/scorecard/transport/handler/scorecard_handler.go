// Package handler はscorecardフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"advisor_backend/internal/api"
	"advisor_backend/internal/feature/scorecard/domain"
	"advisor_backend/internal/feature/scorecard/domain/entity"
	"advisor_backend/internal/feature/scorecard/transport/http/dto"
	"advisor_backend/internal/feature/scorecard/transport/view"
	"advisor_backend/internal/feature/scorecard/usecase"
	jwtmw "advisor_backend/internal/platform/jwt"
)

const (
	// DashboardTitle はダッシュボードのページタイトルです。
	DashboardTitle = "Corporate Advisor IA"

	// formOverhead はマルチパートのヘッダー分としてファイル上限に加算する余裕です。
	formOverhead = 1 << 20
)

// ScorecardUsecase はセッションと文書分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ScorecardUsecase interface {
	LoadSession(ctx context.Context, id string) (*entity.Session, error)
	SelectModel(ctx context.Context, id, model string) (*entity.Session, error)
	Analyze(ctx context.Context, sessionID string, doc usecase.Document) (*usecase.AnalysisResult, error)
	RecentAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

// ScorecardHandler はダッシュボードと分析APIのHTTPリクエストを処理します。
type ScorecardHandler struct {
	uc ScorecardUsecase
}

// NewScorecardHandler はScorecardHandlerの新しいインスタンスを生成します。
func NewScorecardHandler(uc ScorecardUsecase) *ScorecardHandler {
	return &ScorecardHandler{uc: uc}
}

// Dashboard はアップロードフォームとモデル選択を表示します。
// モデル一覧の取得に失敗したセッションではエラーのみを表示し、503を返します。
//
// エンドポイント: GET /
func (h *ScorecardHandler) Dashboard(c *gin.Context) {
	sessionID := jwtmw.SessionID(c)
	d, err := h.dashboard(c.Request.Context(), sessionID)
	if err != nil {
		c.HTML(statusFor(err), view.DashboardTemplate, d)
		return
	}
	c.HTML(http.StatusOK, view.DashboardTemplate, d)
}

// Analyze はPDFを受け取り、外部モデルで分析したスコアカードを返します。
// Acceptヘッダーに応じてJSONまたはHTMLで応答します。
//
// エンドポイント: POST /analyze
// Content-Type: multipart/form-data
// フィールド: document（PDF、最大20MB）、model（任意、カタログ内のモデルID）
func (h *ScorecardHandler) Analyze(c *gin.Context) {
	sessionID := jwtmw.SessionID(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, usecase.MaxDocumentSize+formOverhead)

	file, err := c.FormFile("document")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(c, sessionID, domain.ErrDocumentTooLarge, "")
			return
		}
		slog.Warn("文書ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		h.respondError(c, sessionID, domain.ErrEmptyDocument, "")
		return
	}
	if file.Size > usecase.MaxDocumentSize {
		h.respondError(c, sessionID, domain.ErrDocumentTooLarge, "")
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("文書ファイルのオープンに失敗", "error", err)
		h.respondError(c, sessionID, err, "")
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("文書ファイルのクローズに失敗", "error", err)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("文書データの読み取りに失敗", "error", err)
		h.respondError(c, sessionID, err, "")
		return
	}

	res, err := h.uc.Analyze(c.Request.Context(), sessionID, usecase.Document{
		Name:  file.Filename,
		Data:  data,
		Model: c.PostForm("model"),
	})
	if err != nil {
		slog.Error("文書分析に失敗",
			"session_id", sessionID,
			"file", file.Filename,
			"kind", usecase.ErrorKind(err),
			"error", err,
		)
		h.respondError(c, sessionID, err, rawReply(res, err))
		return
	}

	sc := dto.NewScorecardResponse(res.Scorecard)
	slog.Info("文書分析が完了",
		"session_id", sessionID,
		"file", file.Filename,
		"model", sc.Model,
		"areas", len(sc.Areas),
	)

	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
	case gin.MIMEHTML:
		c.HTML(http.StatusOK, view.DashboardTemplate, view.Dashboard{
			Title:     DashboardTitle,
			Models:    dto.NewModelsResponse(res.Session),
			FileName:  file.Filename,
			Scorecard: &sc,
		})
	default:
		c.JSON(http.StatusOK, sc)
	}
}

// ListModels はセッションのモデル一覧と現在の選択を返します。
//
// エンドポイント: GET /api/models
func (h *ScorecardHandler) ListModels(c *gin.Context) {
	sess, err := h.uc.LoadSession(c.Request.Context(), jwtmw.SessionID(c))
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error(), Kind: usecase.ErrorKind(err)})
		return
	}
	c.JSON(http.StatusOK, dto.NewModelsResponse(sess))
}

// SelectModel はセッションのモデル選択を上書きします。空文字でデフォルトに戻ります。
//
// エンドポイント: PUT /api/session/model
// Content-Type: application/json
func (h *ScorecardHandler) SelectModel(c *gin.Context) {
	var req dto.SelectModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("モデル選択リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	sess, err := h.uc.SelectModel(c.Request.Context(), jwtmw.SessionID(c), req.Model)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error(), Kind: usecase.ErrorKind(err)})
		return
	}
	c.JSON(http.StatusOK, dto.NewModelsResponse(sess))
}

// GetSession はセッションの状態を返します。停止中のセッションもそのまま返します。
//
// エンドポイント: GET /api/session
func (h *ScorecardHandler) GetSession(c *gin.Context) {
	sess, err := h.uc.LoadSession(c.Request.Context(), jwtmw.SessionID(c))
	if sess == nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error(), Kind: usecase.ErrorKind(err)})
		return
	}
	c.JSON(http.StatusOK, dto.NewSessionResponse(sess))
}

// ListAnalyses は直近の分析記録を新しい順に返します。
//
// エンドポイント例:
// GET /api/analyses?limit=20
func (h *ScorecardHandler) ListAnalyses(c *gin.Context) {
	// 不正な値は0になり、usecaseでデフォルト件数に置き換えられる
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	recs, err := h.uc.RecentAnalyses(c.Request.Context(), limit)
	if err != nil {
		slog.Error("分析記録の取得に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewAnalysisRecordResponses(recs))
}

// dashboard はセッションからダッシュボードの表示内容を組み立てます。
func (h *ScorecardHandler) dashboard(ctx context.Context, sessionID string) (view.Dashboard, error) {
	d := view.Dashboard{Title: DashboardTitle, Models: dto.ModelsResponse{Models: []string{}}}
	sess, err := h.uc.LoadSession(ctx, sessionID)
	if sess != nil {
		d.Models = dto.NewModelsResponse(sess)
		d.Halted = sess.Halted
		if sess.Halted {
			d.Error = sess.HaltReason
		}
	}
	if err != nil && d.Error == "" {
		d.Error = err.Error()
	}
	return d, err
}

// respondError はエラーをAcceptヘッダーに応じてJSONまたはHTMLで返します。
func (h *ScorecardHandler) respondError(c *gin.Context, sessionID string, err error, raw string) {
	status := statusFor(err)
	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
	case gin.MIMEHTML:
		d, loadErr := h.dashboard(c.Request.Context(), sessionID)
		if loadErr == nil {
			d.Error = err.Error()
			d.ErrorKind = usecase.ErrorKind(err)
			d.Raw = raw
		}
		c.HTML(status, view.DashboardTemplate, d)
	default:
		c.JSON(status, api.ErrorResponse{
			Error: err.Error(),
			Kind:  usecase.ErrorKind(err),
			Raw:   raw,
		})
	}
}

// rawReply は解析に失敗したモデルの生の返答を取り出します。
func rawReply(res *usecase.AnalysisResult, err error) string {
	if res != nil && res.Raw != "" {
		return res.Raw
	}
	var ne *domain.NormalizationError
	if errors.As(err, &ne) {
		return ne.Raw
	}
	return ""
}

// statusFor はドメインエラーをHTTPステータスに変換します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionHalted):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNormalization):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvocation):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrEmptyDocument), errors.Is(err, domain.ErrUnknownModel):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotPDF):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrDocumentTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
