package adapters

import (
	"time"

	"advisor_backend/internal/feature/scorecard/domain/entity"
)

// AnalysisModel is the GORM model for the analyses table.
type AnalysisModel struct {
	ID         string    `gorm:"primaryKey;size:36"`
	SessionID  string    `gorm:"index;size:36;not null"`
	FileName   string    `gorm:"size:255"`
	FileSize   int       `gorm:"not null"`
	Model      string    `gorm:"size:128"`
	Outcome    string    `gorm:"size:16;not null"`
	ErrorKind  string    `gorm:"size:32"`
	AreaCount  int       `gorm:"not null"`
	DurationMS int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (AnalysisModel) TableName() string {
	return "analyses"
}

// ToEntity converts the GORM model to a domain entity.
func (m *AnalysisModel) ToEntity() entity.AnalysisRecord {
	return entity.AnalysisRecord{
		ID:        m.ID,
		SessionID: m.SessionID,
		FileName:  m.FileName,
		FileSize:  m.FileSize,
		Model:     m.Model,
		Outcome:   entity.UploadState(m.Outcome),
		ErrorKind: m.ErrorKind,
		AreaCount: m.AreaCount,
		Duration:  time.Duration(m.DurationMS) * time.Millisecond,
		CreatedAt: m.CreatedAt,
	}
}

// AnalysisModelFromEntity converts a domain entity to a GORM model.
func AnalysisModelFromEntity(r entity.AnalysisRecord) *AnalysisModel {
	return &AnalysisModel{
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
	}
}
