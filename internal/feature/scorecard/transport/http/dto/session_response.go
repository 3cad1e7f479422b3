package dto

import (
	"time"

	"advisor_backend/internal/feature/scorecard/domain/entity"
)

// ModelsResponse はセッションのモデル一覧です。
type ModelsResponse struct {
	Models   []string `json:"models"`
	Default  string   `json:"default"`
	Selected string   `json:"selected"`
}

// SelectModelRequest はモデル選択の上書きリクエストです。空文字はデフォルトに戻します。
type SelectModelRequest struct {
	Model string `json:"model"`
}

// SessionResponse はセッション状態です。
type SessionResponse struct {
	ID         string         `json:"id"`
	State      string         `json:"state"`
	Halted     bool           `json:"halted"`
	HaltReason string         `json:"halt_reason,omitempty"`
	Models     ModelsResponse `json:"models"`
	LastFile   string         `json:"last_file,omitempty"`
	LastError  string         `json:"last_error,omitempty"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewModelsResponse はセッションからモデル一覧レスポンスを生成します。
func NewModelsResponse(s *entity.Session) ModelsResponse {
	models := s.Catalog.Models
	if models == nil {
		models = []string{}
	}
	return ModelsResponse{
		Models:   models,
		Default:  s.Catalog.Default,
		Selected: s.EffectiveModel(),
	}
}

// NewSessionResponse はセッションエンティティからレスポンスDTOを生成します。
func NewSessionResponse(s *entity.Session) SessionResponse {
	return SessionResponse{
		ID:         s.ID,
		State:      string(s.State),
		Halted:     s.Halted,
		HaltReason: s.HaltReason,
		Models:     NewModelsResponse(s),
		LastFile:   s.LastFile,
		LastError:  s.LastError,
		UpdatedAt:  s.UpdatedAt,
	}
}
