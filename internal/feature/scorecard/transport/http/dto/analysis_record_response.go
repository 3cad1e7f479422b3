package dto

import (
	"time"

	"advisor_backend/internal/feature/scorecard/domain/entity"
)

// AnalysisRecordResponse は監査記録1件のレスポンスDTOです。
type AnalysisRecordResponse struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	FileName   string    `json:"file_name"`
	FileSize   int       `json:"file_size"`
	Model      string    `json:"model"`
	Outcome    string    `json:"outcome"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	AreaCount  int       `json:"area_count"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewAnalysisRecordResponses はエンティティのスライスをレスポンスDTOに変換します。
func NewAnalysisRecordResponses(recs []entity.AnalysisRecord) []AnalysisRecordResponse {
	out := make([]AnalysisRecordResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, AnalysisRecordResponse{
			ID:         r.ID,
			SessionID:  r.SessionID,
			FileName:   r.FileName,
			FileSize:   r.FileSize,
			Model:      r.Model,
			Outcome:    string(r.Outcome),
			ErrorKind:  r.ErrorKind,
			AreaCount:  r.AreaCount,
			DurationMS: r.Duration.Milliseconds(),
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}
