package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
)

// JobService manages the interview-side job configuration: the default
// window, proctoring toggles, and the plan snapshot.
type JobService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewJobService(repo repositories.Repository, logger *slog.Logger) *JobService {
	return &JobService{repo: repo, logger: logger}
}

type CreateJobRequest struct {
	Title             string          `json:"title" validate:"required,min=1,max=200"`
	Description       *string         `json:"description" validate:"omitempty,max=5000"`
	InterviewStartsAt time.Time       `json:"interview_starts_at" validate:"required"`
	InterviewEndsAt   time.Time       `json:"interview_ends_at" validate:"required,gtfield=InterviewStartsAt"`
	Plan              models.PlanTier `json:"plan" validate:"omitempty,plan_tier"`

	TrackTabSwitches    *bool `json:"track_tab_switches"`
	TrackEyeMovement    *bool `json:"track_eye_movement"`
	DetectMultipleFaces *bool `json:"detect_multiple_faces"`
	EnforceFullScreen   *bool `json:"enforce_full_screen"`
	SuppressTextInput   *bool `json:"suppress_text_input"`

	CustomQuestions  []string `json:"custom_questions" validate:"omitempty,max=5,dive,min=1,max=1000"`
	RequirementNotes *string  `json:"requirement_notes" validate:"omitempty,max=5000"`
}

// Create stores a job with the company's current plan snapshotted onto it.
func (s *JobService) Create(ctx context.Context, companyID uint, req CreateJobRequest) (*models.Job, error) {
	plan := req.Plan
	if plan == "" {
		plan = models.PlanFree
	}

	job := &models.Job{
		CompanyID:         companyID,
		Title:             req.Title,
		Description:       req.Description,
		InterviewStartsAt: req.InterviewStartsAt,
		InterviewEndsAt:   req.InterviewEndsAt,
		PlanAtCreation:    plan,
		CustomQuestions:   datatypes.NewJSONSlice(req.CustomQuestions),
		RequirementNotes:  req.RequirementNotes,

		TrackTabSwitches:    boolOr(req.TrackTabSwitches, true),
		TrackEyeMovement:    boolOr(req.TrackEyeMovement, false),
		DetectMultipleFaces: boolOr(req.DetectMultipleFaces, true),
		EnforceFullScreen:   boolOr(req.EnforceFullScreen, false),
		SuppressTextInput:   boolOr(req.SuppressTextInput, false),
	}
	if err := s.repo.Job().Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// Get returns a job owned by the company.
func (s *JobService) Get(ctx context.Context, companyID, jobID uint) (*models.Job, error) {
	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job.CompanyID != companyID {
		return nil, NewPermissionError("job", "view")
	}
	return job, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
