package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NexHire-2025/interview-service/internal/events"
	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
)

// CandidateService manages the candidate lifecycle around the interview:
// invitations, profile completion, company verdicts, and re-interviews.
type CandidateService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewCandidateService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) *CandidateService {
	return &CandidateService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// InviteRequest describes one candidate to invite to a job's interview.
type InviteRequest struct {
	Email          string     `json:"email" validate:"required,email"`
	FullName       string     `json:"full_name" validate:"required,min=1,max=200"`
	WindowStartsAt *time.Time `json:"window_starts_at"`
	WindowEndsAt   *time.Time `json:"window_ends_at"`
}

// Invite creates a candidate for the job with a fresh access token and
// publishes the invitation event that drives the email notification.
func (s *CandidateService) Invite(ctx context.Context, companyID, jobID uint, req InviteRequest) (*models.Candidate, error) {
	job, err := s.jobOwnedBy(ctx, companyID, jobID)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repo.Candidate().GetByJobAndEmail(ctx, jobID, email)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing candidate: %w", err)
	}
	if existing != nil {
		return nil, ErrCandidateAlreadyInvited
	}

	candidate := &models.Candidate{
		JobID:          jobID,
		Email:          email,
		FullName:       req.FullName,
		Status:         models.CandidatePending,
		WindowStartsAt: req.WindowStartsAt,
		WindowEndsAt:   req.WindowEndsAt,
		AccessToken:    newAccessToken(),
	}
	if err := s.repo.Candidate().Create(ctx, candidate); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrCandidateAlreadyInvited
		}
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}

	s.publishInvited(ctx, candidate, job)
	return candidate, nil
}

// AcceptInvitation moves a pending candidate to Invited. Idempotent for a
// candidate who already accepted.
func (s *CandidateService) AcceptInvitation(ctx context.Context, token string) (*models.Candidate, error) {
	candidate, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}

	switch candidate.Status {
	case models.CandidateInvited:
		return candidate, nil
	case models.CandidatePending:
	default:
		return nil, ErrInterviewAlreadyCompleted
	}

	candidate.Status = models.CandidateInvited
	if err := s.repo.Candidate().Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	return candidate, nil
}

// CompleteProfile records the candidate's resume text and marks the profile
// ready, which is a precondition of starting the interview.
func (s *CandidateService) CompleteProfile(ctx context.Context, token, resumeText string) (*models.Candidate, error) {
	candidate, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if candidate.Status == models.CandidatePending {
		return nil, ErrInvitationNotAccepted
	}

	candidate.ResumeText = resumeText
	candidate.ProfileCompleted = true
	if err := s.repo.Candidate().Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to complete profile: %w", err)
	}
	return candidate, nil
}

// Decide applies the company's verdict on a reviewed candidate.
func (s *CandidateService) Decide(ctx context.Context, companyID, candidateID uint, status models.CandidateStatus) (*models.Candidate, error) {
	switch status {
	case models.CandidateRejected, models.CandidateConsidered, models.CandidateShortlisted:
	default:
		return nil, fmt.Errorf("invalid decision status %q", status)
	}

	candidate, err := s.byID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if _, err := s.jobOwnedBy(ctx, companyID, candidate.JobID); err != nil {
		return nil, err
	}

	candidate.Status = status
	if err := s.repo.Candidate().Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to record decision: %w", err)
	}
	return candidate, nil
}

// ReInterview sends a completed candidate through the process again: a fresh
// access token, a reset profile gate, and the extended eligibility window
// that re-interviewed candidates get.
func (s *CandidateService) ReInterview(ctx context.Context, companyID, candidateID uint) (*models.Candidate, error) {
	candidate, err := s.byID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	job, err := s.jobOwnedBy(ctx, companyID, candidate.JobID)
	if err != nil {
		return nil, err
	}
	if candidate.Status != models.CandidateCompleted && candidate.Status != models.CandidateReview {
		return nil, ErrSessionNotOngoing
	}

	candidate.Status = models.CandidatePending
	candidate.IsReInterviewed = true
	candidate.AccessToken = newAccessToken()
	if err := s.repo.Candidate().Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to reset candidate: %w", err)
	}

	s.publishInvited(ctx, candidate, job)
	return candidate, nil
}

// List returns a job's candidates for the owning company.
func (s *CandidateService) List(ctx context.Context, companyID, jobID uint, filters repositories.CandidateFilters) ([]*models.Candidate, int64, error) {
	if _, err := s.jobOwnedBy(ctx, companyID, jobID); err != nil {
		return nil, 0, err
	}
	return s.repo.Candidate().ListByJob(ctx, jobID, filters)
}

func (s *CandidateService) byToken(ctx context.Context, token string) (*models.Candidate, error) {
	candidate, err := s.repo.Candidate().GetByAccessToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	return candidate, nil
}

func (s *CandidateService) byID(ctx context.Context, id uint) (*models.Candidate, error) {
	candidate, err := s.repo.Candidate().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	return candidate, nil
}

func (s *CandidateService) jobOwnedBy(ctx context.Context, companyID, jobID uint) (*models.Job, error) {
	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job.CompanyID != companyID {
		return nil, NewPermissionError("job", "manage candidates for")
	}
	return job, nil
}

func (s *CandidateService) publishInvited(ctx context.Context, candidate *models.Candidate, job *models.Job) {
	window := ResolveWindow(candidate, job)
	event := &events.NotificationEvent{
		ID:        uuid.NewString(),
		Type:      events.EventCandidateInvited,
		Timestamp: s.now(),
		Source:    "interview-service",
		Version:   "1.0",
		Data: events.CandidateInvitedEvent{
			CandidateID:    candidate.ID,
			JobID:          job.ID,
			JobTitle:       job.Title,
			Email:          candidate.Email,
			AccessToken:    candidate.AccessToken,
			WindowStartsAt: window.StartsAt,
			WindowEndsAt:   window.EndsAt,
			IsReInterview:  candidate.IsReInterviewed,
		},
	}
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish invitation event", "candidate_id", candidate.ID, "error", err)
	}
}

func newAccessToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
