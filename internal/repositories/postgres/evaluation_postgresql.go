package postgres

import (
	"context"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EvaluationPostgreSQL struct {
	db *gorm.DB
}

func NewEvaluationPostgreSQL(db *gorm.DB) repositories.EvaluationRepository {
	return &EvaluationPostgreSQL{db: db}
}

// Upsert keys on session_id so re-evaluation stays idempotent.
func (e *EvaluationPostgreSQL) Upsert(ctx context.Context, evaluation *models.FinalEvaluation) error {
	return e.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_score", "is_fit", "reasoning", "behavioral_note", "metrics", "updated_at",
			}),
		}).
		Create(evaluation).Error
}

func (e *EvaluationPostgreSQL) GetBySessionID(ctx context.Context, sessionID uint) (*models.FinalEvaluation, error) {
	var evaluation models.FinalEvaluation
	if err := e.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&evaluation).Error; err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (e *EvaluationPostgreSQL) ListByJob(ctx context.Context, jobID uint) ([]*models.FinalEvaluation, error) {
	var evaluations []*models.FinalEvaluation
	if err := e.db.WithContext(ctx).
		Joins("JOIN interview_sessions ON interview_sessions.id = final_evaluations.session_id").
		Where("interview_sessions.job_id = ?", jobID).
		Preload("Session").
		Preload("Session.Candidate").
		Order("final_evaluations.overall_score DESC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}
	return evaluations, nil
}
