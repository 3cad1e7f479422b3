// Package adapters provides repository implementations for the scorecard feature.
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"advisor_backend/internal/feature/scorecard/domain/entity"
	"advisor_backend/internal/feature/scorecard/usecase"
)

// analysisGorm is a GORM implementation of the AuditRecorder interface.
// It works with any dialector opened by platform/db (SQLite or PostgreSQL).
type analysisGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure analysisGorm implements AuditRecorder.
var _ usecase.AuditRecorder = (*analysisGorm)(nil)

// NewAnalysisGorm creates a new instance of analysisGorm.
func NewAnalysisGorm(db *gorm.DB) *analysisGorm {
	return &analysisGorm{db: db}
}

// Record persists one analysis record.
func (r *analysisGorm) Record(ctx context.Context, rec entity.AnalysisRecord) error {
	if err := r.db.WithContext(ctx).Create(AnalysisModelFromEntity(rec)).Error; err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}
	return nil
}

// Recent returns the latest records, newest first.
func (r *analysisGorm) Recent(ctx context.Context, limit int) ([]entity.AnalysisRecord, error) {
	var models []AnalysisModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list analysis records: %w", err)
	}

	out := make([]entity.AnalysisRecord, len(models))
	for i := range models {
		out[i] = models[i].ToEntity()
	}
	return out, nil
}
