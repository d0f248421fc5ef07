package repositories

import (
	"context"
	"time"

	"github.com/NexHire-2025/interview-service/internal/models"
)

// Repository aggregates the per-entity repositories and gives services a
// single transactional boundary.
type Repository interface {
	Candidate() CandidateRepository
	Job() JobRepository
	Session() SessionRepository
	Response() ResponseRepository
	Proctoring() ProctoringRepository
	Evaluation() EvaluationRepository

	// Transaction runs fn against a repository bound to a single database
	// transaction, committing when fn returns nil.
	Transaction(ctx context.Context, fn func(Repository) error) error
}

type CandidateRepository interface {
	Create(ctx context.Context, candidate *models.Candidate) error
	GetByID(ctx context.Context, id uint) (*models.Candidate, error)
	GetByAccessToken(ctx context.Context, token string) (*models.Candidate, error)
	GetByJobAndEmail(ctx context.Context, jobID uint, email string) (*models.Candidate, error)
	Update(ctx context.Context, candidate *models.Candidate) error
	ListByJob(ctx context.Context, jobID uint, filters CandidateFilters) ([]*models.Candidate, int64, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uint) (*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
}

type SessionRepository interface {
	// CreateIfAbsent inserts the session unless an active one already exists
	// for the same (candidate, job); it reports whether the insert happened.
	CreateIfAbsent(ctx context.Context, session *models.InterviewSession) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.InterviewSession, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.InterviewSession, error)
	GetActiveByCandidateAndJob(ctx context.Context, candidateID, jobID uint) (*models.InterviewSession, error)
	GetLatestByCandidateAndJob(ctx context.Context, candidateID, jobID uint) (*models.InterviewSession, error)
	Update(ctx context.Context, session *models.InterviewSession) error
	ListByJob(ctx context.Context, jobID uint, filters SessionFilters) ([]*models.InterviewSession, int64, error)
}

type ResponseRepository interface {
	Create(ctx context.Context, response *models.InterviewResponse) error
	ListBySession(ctx context.Context, sessionID uint) ([]*models.InterviewResponse, error)
}

type ProctoringRepository interface {
	Create(ctx context.Context, log *models.ProctoringLog) error
	ListBySession(ctx context.Context, sessionID uint) ([]*models.ProctoringLog, error)
	CountBySeverity(ctx context.Context, sessionID uint, severity models.ProctoringSeverity) (int64, error)
}

type EvaluationRepository interface {
	// Upsert inserts or replaces the evaluation keyed by session id.
	Upsert(ctx context.Context, evaluation *models.FinalEvaluation) error
	GetBySessionID(ctx context.Context, sessionID uint) (*models.FinalEvaluation, error)
	ListByJob(ctx context.Context, jobID uint) ([]*models.FinalEvaluation, error)
}

// ===== SHARED FILTER STRUCTS =====

type CandidateFilters struct {
	Status    *models.CandidateStatus `json:"status"`
	DateFrom  *time.Time              `json:"date_from"`
	DateTo    *time.Time              `json:"date_to"`
	Limit     int                     `json:"limit"`
	Offset    int                     `json:"offset"`
	SortBy    string                  `json:"sort_by"`    // "created_at", "email", "status"
	SortOrder string                  `json:"sort_order"` // "asc", "desc"
}

type SessionFilters struct {
	Status    *models.SessionStatus `json:"status"`
	Flagged   *bool                 `json:"flagged"`
	DateFrom  *time.Time            `json:"date_from"`
	DateTo    *time.Time            `json:"date_to"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}
