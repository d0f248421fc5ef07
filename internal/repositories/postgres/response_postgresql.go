package postgres

import (
	"context"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type ResponsePostgreSQL struct {
	db *gorm.DB
}

func NewResponsePostgreSQL(db *gorm.DB) repositories.ResponseRepository {
	return &ResponsePostgreSQL{db: db}
}

func (r *ResponsePostgreSQL) Create(ctx context.Context, response *models.InterviewResponse) error {
	return r.db.WithContext(ctx).Create(response).Error
}

func (r *ResponsePostgreSQL) ListBySession(ctx context.Context, sessionID uint) ([]*models.InterviewResponse, error) {
	var responses []*models.InterviewResponse
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}
