package entity

import "time"

// UploadState はセッション内のアップロード状態です。
type UploadState string

const (
	StateIdle       UploadState = "idle"
	StateProcessing UploadState = "processing"
	StateRendered   UploadState = "rendered"
	StateFailed     UploadState = "failed"
)

// ModelCatalog はコンテンツ生成に対応したモデル一覧とデフォルト選択です。
type ModelCatalog struct {
	Models  []string `json:"models"`
	Default string   `json:"default"`
}

// Contains はモデルIDがカタログに含まれるかを返します。
func (c ModelCatalog) Contains(model string) bool {
	for _, m := range c.Models {
		if m == model {
			return true
		}
	}
	return false
}

// Session はダッシュボード利用者ごとの状態です。
// グローバル変数の代わりにハンドラーとユースケースへ明示的に渡されます。
type Session struct {
	ID            string       `json:"id"`
	SelectedModel string       `json:"selected_model,omitempty"`
	Catalog       ModelCatalog `json:"catalog"`
	CatalogLoaded bool         `json:"catalog_loaded"`
	// Halted はモデル一覧の取得に失敗したセッションを表します。再試行はしません。
	Halted     bool        `json:"halted"`
	HaltReason string      `json:"halt_reason,omitempty"`
	State      UploadState `json:"state"`
	LastError  string      `json:"last_error,omitempty"`
	LastFile   string      `json:"last_file,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewSession はidle状態の新しいセッションを生成します。
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EffectiveModel はユーザー選択があればそれを、なければカタログのデフォルトを返します。
func (s *Session) EffectiveModel() string {
	if s.SelectedModel != "" {
		return s.SelectedModel
	}
	return s.Catalog.Default
}
