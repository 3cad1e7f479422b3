package usecase

import (
	"context"

	"advisor_backend/internal/feature/scorecard/domain/entity"
)

// MIMETypePDF はアップロード文書に付与するメディアタイプです。
const MIMETypePDF = "application/pdf"

// AnalysisRequest は外部モデルへの1回の呼び出し内容です。
// 指示テキスト、MIMEタイプ付きの添付文書、締めの指示の3パートで構成されます。
type AnalysisRequest struct {
	Model       string
	Instruction string
	Document    []byte
	MIMEType    string
	Closing     string
}

// DocumentAnalyzer は文書を外部モデルに送り、返答テキストをそのまま返すインターフェースです。
type DocumentAnalyzer interface {
	// AnalyzeDocument は1回の同期呼び出しを行います。再試行はしません。
	AnalyzeDocument(ctx context.Context, req AnalysisRequest) (string, error)
}

// SessionRepository はダッシュボードのセッション状態を保存するリポジトリインターフェースです。
type SessionRepository interface {
	// Get はセッションを取得します。存在しない場合はErrSessionNotFoundを返します。
	Get(ctx context.Context, id string) (*entity.Session, error)
	// Save はセッションを作成または更新します。
	Save(ctx context.Context, s *entity.Session) error
}

// AuditRecorder はアップロード処理の監査記録を保存します。
type AuditRecorder interface {
	Record(ctx context.Context, rec entity.AnalysisRecord) error
	Recent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error)
}

// CompanyIdentifier はモデルが企業名を返さなかった場合に文書から企業名を推定します。
type CompanyIdentifier interface {
	IdentifyCompany(ctx context.Context, document []byte) (string, error)
}

// Throttle は外部モデル呼び出しの頻度を制限します。
type Throttle interface {
	Wait(ctx context.Context) error
}
