package postgres

import (
	"context"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type ProctoringPostgreSQL struct {
	db *gorm.DB
}

func NewProctoringPostgreSQL(db *gorm.DB) repositories.ProctoringRepository {
	return &ProctoringPostgreSQL{db: db}
}

func (p *ProctoringPostgreSQL) Create(ctx context.Context, log *models.ProctoringLog) error {
	return p.db.WithContext(ctx).Create(log).Error
}

func (p *ProctoringPostgreSQL) ListBySession(ctx context.Context, sessionID uint) ([]*models.ProctoringLog, error) {
	var logs []*models.ProctoringLog
	if err := p.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (p *ProctoringPostgreSQL) CountBySeverity(ctx context.Context, sessionID uint, severity models.ProctoringSeverity) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&models.ProctoringLog{}).
		Where("session_id = ? AND severity = ?", sessionID, severity).
		Count(&count).Error
	return count, err
}
