package postgres

import (
	"context"
	"strings"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type CandidatePostgreSQL struct {
	db *gorm.DB
}

func NewCandidatePostgreSQL(db *gorm.DB) repositories.CandidateRepository {
	return &CandidatePostgreSQL{db: db}
}

func (c *CandidatePostgreSQL) Create(ctx context.Context, candidate *models.Candidate) error {
	return c.db.WithContext(ctx).Create(candidate).Error
}

func (c *CandidatePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := c.db.WithContext(ctx).First(&candidate, id).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (c *CandidatePostgreSQL) GetByAccessToken(ctx context.Context, token string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := c.db.WithContext(ctx).
		Where("access_token = ?", token).
		Preload("Job").
		First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (c *CandidatePostgreSQL) GetByJobAndEmail(ctx context.Context, jobID uint, email string) (*models.Candidate, error) {
	var candidate models.Candidate
	if err := c.db.WithContext(ctx).
		Where("job_id = ? AND lower(email) = ?", jobID, strings.ToLower(email)).
		First(&candidate).Error; err != nil {
		return nil, err
	}
	return &candidate, nil
}

func (c *CandidatePostgreSQL) Update(ctx context.Context, candidate *models.Candidate) error {
	return c.db.WithContext(ctx).Save(candidate).Error
}

func (c *CandidatePostgreSQL) ListByJob(ctx context.Context, jobID uint, filters repositories.CandidateFilters) ([]*models.Candidate, int64, error) {
	var candidates []*models.Candidate
	var total int64

	query := c.db.WithContext(ctx).Model(&models.Candidate{}).Where("job_id = ?", jobID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
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

	if err := query.Find(&candidates).Error; err != nil {
		return nil, 0, err
	}
	return candidates, total, nil
}
