package postgres

import (
	"context"

	"github.com/NexHire-2025/interview-service/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB

	candidate  repositories.CandidateRepository
	job        repositories.JobRepository
	session    repositories.SessionRepository
	response   repositories.ResponseRepository
	proctoring repositories.ProctoringRepository
	evaluation repositories.EvaluationRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:         db,
		candidate:  NewCandidatePostgreSQL(db),
		job:        NewJobPostgreSQL(db),
		session:    NewSessionPostgreSQL(db),
		response:   NewResponsePostgreSQL(db),
		proctoring: NewProctoringPostgreSQL(db),
		evaluation: NewEvaluationPostgreSQL(db),
	}
}

func (r *gormRepository) Candidate() repositories.CandidateRepository   { return r.candidate }
func (r *gormRepository) Job() repositories.JobRepository               { return r.job }
func (r *gormRepository) Session() repositories.SessionRepository       { return r.session }
func (r *gormRepository) Response() repositories.ResponseRepository     { return r.response }
func (r *gormRepository) Proctoring() repositories.ProctoringRepository { return r.proctoring }
func (r *gormRepository) Evaluation() repositories.EvaluationRepository { return r.evaluation }

func (r *gormRepository) Transaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
