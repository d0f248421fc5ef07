package postgres

import (
	"context"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

// CreateIfAbsent relies on the partial unique index over active sessions
// (see pkg.InitDatabase) so concurrent starts cannot create duplicates.
func (s *SessionPostgreSQL) CreateIfAbsent(ctx context.Context, session *models.InterviewSession) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(session)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *SessionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := s.db.WithContext(ctx).First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.InterviewSession, error) {
	var session models.InterviewSession
	if err := s.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Preload("Responses", func(db *gorm.DB) *gorm.DB {
			return db.Order("interview_responses.created_at ASC")
		}).
		Preload("Proctoring").
		First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetActiveByCandidateAndJob(ctx context.Context, candidateID, jobID uint) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND job_id = ? AND status NOT IN ?", candidateID, jobID,
			[]models.SessionStatus{models.SessionCompleted, models.SessionFailed}).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) GetLatestByCandidateAndJob(ctx context.Context, candidateID, jobID uint) (*models.InterviewSession, error) {
	var session models.InterviewSession
	err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		Order("created_at DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *SessionPostgreSQL) Update(ctx context.Context, session *models.InterviewSession) error {
	return s.db.WithContext(ctx).Save(session).Error
}

func (s *SessionPostgreSQL) ListByJob(ctx context.Context, jobID uint, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	var sessions []*models.InterviewSession
	var total int64

	query := s.db.WithContext(ctx).Model(&models.InterviewSession{}).Where("job_id = ?", jobID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Flagged != nil {
		query = query.Where("is_flagged = ?", *filters.Flagged)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Preload("Candidate").Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}
