package postgres

import (
	"context"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type JobPostgreSQL struct {
	db *gorm.DB
}

func NewJobPostgreSQL(db *gorm.DB) repositories.JobRepository {
	return &JobPostgreSQL{db: db}
}

func (j *JobPostgreSQL) Create(ctx context.Context, job *models.Job) error {
	return j.db.WithContext(ctx).Create(job).Error
}

func (j *JobPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := j.db.WithContext(ctx).First(&job, id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (j *JobPostgreSQL) Update(ctx context.Context, job *models.Job) error {
	return j.db.WithContext(ctx).Save(job).Error
}
