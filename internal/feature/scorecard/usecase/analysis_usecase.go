package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"advisor_backend/internal/feature/scorecard/domain"
	"advisor_backend/internal/feature/scorecard/domain/entity"
)

const (
	// MaxDocumentSize はアップロード文書の最大サイズ（20MB）です。
	MaxDocumentSize = 20 * 1024 * 1024
	// DefaultRecentLimit は監査記録一覧のデフォルト件数です。
	DefaultRecentLimit = 20
	// MaxRecentLimit は監査記録一覧の最大件数です。
	MaxRecentLimit = 100

	logoFallbackWarning = "ragione sociale ricavata dal logo del documento"
)

var pdfMagic = []byte("%PDF-")

// Document はアップロードされた1件の文書です。
type Document struct {
	Name string
	Data []byte
	// Model が空でなければセッションの選択より優先します。
	Model string
}

// AnalysisResult は1回のアップロード処理の結果です。
type AnalysisResult struct {
	Scorecard entity.Scorecard
	Raw       string
	Session   *entity.Session
}

// Option はanalysisUsecaseの任意の依存を設定します。
type Option func(*analysisUsecase)

// WithAuditRecorder は監査記録の保存先を設定します。
func WithAuditRecorder(a AuditRecorder) Option {
	return func(u *analysisUsecase) { u.audit = a }
}

// WithCompanyIdentifier は企業名が欠落した場合の補完手段を設定します。
func WithCompanyIdentifier(ci CompanyIdentifier) Option {
	return func(u *analysisUsecase) { u.identifier = ci }
}

// WithThrottle は外部モデル呼び出し前の待機手段を設定します。
func WithThrottle(t Throttle) Option {
	return func(u *analysisUsecase) { u.throttle = t }
}

// WithClock はテスト用に現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(u *analysisUsecase) { u.now = now }
}

// analysisUsecase はセッション管理、モデル選択、文書分析のビジネスロジックを提供します。
type analysisUsecase struct {
	sessions   SessionRepository
	selector   *ModelSelector
	analyzer   DocumentAnalyzer
	normalizer *Normalizer
	prompt     Prompt

	audit      AuditRecorder
	identifier CompanyIdentifier
	throttle   Throttle
	now        func() time.Time

	// inflight はセッションごとに処理中のアップロードを1件に制限します。
	inflight sync.Map
}

// NewAnalysisUsecase はanalysisUsecaseの新しいインスタンスを生成します。
func NewAnalysisUsecase(
	sessions SessionRepository,
	selector *ModelSelector,
	analyzer DocumentAnalyzer,
	normalizer *Normalizer,
	prompt Prompt,
	opts ...Option,
) *analysisUsecase {
	u := &analysisUsecase{
		sessions:   sessions,
		selector:   selector,
		analyzer:   analyzer,
		normalizer: normalizer,
		prompt:     prompt,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// LoadSession はセッションを取得し、未取得であればモデル一覧を取得してカタログを確定します。
// 存在しないIDの場合は新しいセッションを作成します。
// 一覧の取得に失敗したセッションは停止状態として保存され、以降はErrSessionHaltedを返します。
func (u *analysisUsecase) LoadSession(ctx context.Context, id string) (*entity.Session, error) {
	sess, err := u.sessions.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		sess = entity.NewSession(id, u.now())
	} else if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if sess.Halted {
		return sess, fmt.Errorf("%w: %s", domain.ErrSessionHalted, sess.HaltReason)
	}
	if sess.CatalogLoaded {
		return sess, nil
	}

	catalog, resolveErr := u.selector.Resolve(ctx)
	if resolveErr != nil {
		sess.Halted = true
		sess.HaltReason = resolveErr.Error()
		sess.UpdatedAt = u.now()
		if err := u.sessions.Save(ctx, sess); err != nil {
			slog.Warn("停止状態のセッション保存に失敗", "session_id", id, "error", err)
		}
		return sess, fmt.Errorf("%w: %w", domain.ErrSessionHalted, resolveErr)
	}

	sess.Catalog = catalog
	sess.CatalogLoaded = true
	sess.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// SelectModel はセッションのモデル選択を上書きします。空文字はデフォルトに戻します。
func (u *analysisUsecase) SelectModel(ctx context.Context, id, model string) (*entity.Session, error) {
	sess, err := u.LoadSession(ctx, id)
	if err != nil {
		return sess, err
	}
	if model != "" && !sess.Catalog.Contains(model) {
		return sess, fmt.Errorf("%w: %q", domain.ErrUnknownModel, model)
	}
	sess.SelectedModel = model
	sess.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// Analyze は文書を検証し、外部モデルに1回だけ問い合わせてスコアカードを生成します。
// 状態はidleまたは前回の結果からprocessingを経てrenderedまたはfailedに遷移します。
func (u *analysisUsecase) Analyze(ctx context.Context, sessionID string, doc Document) (*AnalysisResult, error) {
	if err := ValidateDocument(doc.Data); err != nil {
		return nil, err
	}

	if _, busy := u.inflight.LoadOrStore(sessionID, struct{}{}); busy {
		return nil, domain.ErrSessionBusy
	}
	defer u.inflight.Delete(sessionID)

	sess, err := u.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	model := sess.EffectiveModel()
	if doc.Model != "" {
		if !sess.Catalog.Contains(doc.Model) {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownModel, doc.Model)
		}
		model = doc.Model
	}

	started := u.now()
	rec := entity.AnalysisRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		FileName:  doc.Name,
		FileSize:  len(doc.Data),
		Model:     model,
		CreatedAt: started,
	}

	sess.State = entity.StateProcessing
	sess.LastFile = doc.Name
	sess.LastError = ""
	sess.UpdatedAt = started
	if err := u.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if u.throttle != nil {
		if err := u.throttle.Wait(ctx); err != nil {
			return nil, u.fail(ctx, sess, &rec, fmt.Errorf("%w: %w", domain.ErrInvocation, err))
		}
	}

	raw, err := u.analyzer.AnalyzeDocument(ctx, AnalysisRequest{
		Model:       model,
		Instruction: u.prompt.Instruction,
		Document:    doc.Data,
		MIMEType:    MIMETypePDF,
		Closing:     u.prompt.Closing,
	})
	if err != nil {
		return nil, u.fail(ctx, sess, &rec, fmt.Errorf("%w: %w", domain.ErrInvocation, err))
	}

	parsed, err := u.normalizer.Normalize(raw)
	if err != nil {
		return &AnalysisResult{Raw: raw, Session: sess}, u.fail(ctx, sess, &rec, err)
	}

	sc := BuildScorecard(parsed, model)
	if sc.Company.Name == PlaceholderCompanyName && u.identifier != nil {
		name, err := u.identifier.IdentifyCompany(ctx, doc.Data)
		switch {
		case err != nil:
			slog.Warn("ロゴによる企業名の補完に失敗", "session_id", sessionID, "error", err)
		case name != "":
			sc.Company.Name = name
			sc.Warnings = append(sc.Warnings, logoFallbackWarning)
		}
	}

	sess.State = entity.StateRendered
	sess.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, sess); err != nil {
		slog.Warn("セッション状態の保存に失敗", "session_id", sessionID, "error", err)
	}

	rec.Outcome = entity.StateRendered
	rec.AreaCount = len(sc.Areas)
	u.record(ctx, &rec)

	return &AnalysisResult{Scorecard: sc, Raw: raw, Session: sess}, nil
}

// RecentAnalyses は新しい順に監査記録を返します。監査が無効の場合は空です。
func (u *analysisUsecase) RecentAnalyses(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	if u.audit == nil {
		return []entity.AnalysisRecord{}, nil
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	recs, err := u.audit.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return recs, nil
}

// ValidateDocument はサイズとPDFヘッダーを検証します。
func ValidateDocument(data []byte) error {
	if len(data) == 0 {
		return domain.ErrEmptyDocument
	}
	if len(data) > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes (max %d)", domain.ErrDocumentTooLarge, len(data), MaxDocumentSize)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return domain.ErrNotPDF
	}
	return nil
}

// fail はセッションをfailed状態にして記録を残し、元のエラーを返します。
func (u *analysisUsecase) fail(ctx context.Context, sess *entity.Session, rec *entity.AnalysisRecord, cause error) error {
	sess.State = entity.StateFailed
	sess.LastError = cause.Error()
	sess.UpdatedAt = u.now()
	if err := u.sessions.Save(ctx, sess); err != nil {
		slog.Warn("セッション状態の保存に失敗", "session_id", sess.ID, "error", err)
	}

	rec.Outcome = entity.StateFailed
	rec.ErrorKind = ErrorKind(cause)
	u.record(ctx, rec)
	return cause
}

// record は監査記録を保存します。失敗しても分析結果には影響しません。
func (u *analysisUsecase) record(ctx context.Context, rec *entity.AnalysisRecord) {
	if u.audit == nil {
		return
	}
	rec.Duration = u.now().Sub(rec.CreatedAt)
	if err := u.audit.Record(ctx, *rec); err != nil {
		slog.Warn("監査記録の保存に失敗", "analysis_id", rec.ID, "error", err)
	}
}

// ErrorKind はエラーを監査記録用の短い分類名に変換します。
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNormalization):
		return "normalization"
	case errors.Is(err, domain.ErrInvocation):
		return "invocation"
	case errors.Is(err, domain.ErrSessionHalted):
		return "halted"
	case errors.Is(err, domain.ErrSessionBusy):
		return "busy"
	case errors.Is(err, domain.ErrUnknownModel):
		return "unknown_model"
	case errors.Is(err, domain.ErrEmptyDocument),
		errors.Is(err, domain.ErrDocumentTooLarge),
		errors.Is(err, domain.ErrNotPDF):
		return "document"
	default:
		return "internal"
	}
}
