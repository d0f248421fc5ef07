package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/NexHire-2025/interview-service/internal/assessment"
	"github.com/NexHire-2025/interview-service/internal/cache"
	"github.com/NexHire-2025/interview-service/internal/events"
	"github.com/NexHire-2025/interview-service/internal/models"
	"github.com/NexHire-2025/interview-service/internal/repositories"
)

const (
	sessionLockTTL = 30 * time.Second
	statusCacheTTL = 30 * time.Second
)

// ChunkSink receives streamed answer-turn chunks, typically an SSE writer.
type ChunkSink interface {
	SendChunk(chunk string) error
}

// SessionService is the interview session engine. Every mutating operation
// runs under a per-candidate-and-job lock so concurrent requests from the
// same candidate serialize instead of corrupting the state machine.
type SessionService struct {
	repo          repositories.Repository
	orchestrator  *assessment.Orchestrator
	locker        cache.SessionLocker
	cache         cache.CacheService
	publisher     events.EventPublisher
	logger        *slog.Logger
	warningBudget int
	now           func() time.Time
}

func NewSessionService(
	repo repositories.Repository,
	orchestrator *assessment.Orchestrator,
	locker cache.SessionLocker,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	warningBudget int,
) *SessionService {
	if warningBudget <= 0 {
		warningBudget = DefaultWarningBudget
	}
	return &SessionService{
		repo:          repo,
		orchestrator:  orchestrator,
		locker:        locker,
		cache:         cacheService,
		publisher:     publisher,
		logger:        logger,
		warningBudget: warningBudget,
		now:           time.Now,
	}
}

// InterviewStatus is the candidate-facing view of where their interview
// stands, served before and during a session.
type InterviewStatus struct {
	CandidateStatus   models.CandidateStatus `json:"candidate_status"`
	JobTitle          string                 `json:"job_title"`
	Window            WindowVerdict          `json:"window"`
	SessionStatus     *models.SessionStatus  `json:"session_status,omitempty"`
	IsFlagged         bool                   `json:"is_flagged"`
	QuestionsTotal    int                    `json:"questions_total"`
	QuestionsAnswered int                    `json:"questions_answered"`
	CurrentQuestion   string                 `json:"current_question,omitempty"`
}

// StartResult is returned by Start: the session plus the question the
// candidate should answer next. Resumed is true when an existing active
// session was picked up instead of a new one created.
type StartResult struct {
	Session  *models.InterviewSession `json:"session"`
	Question string                   `json:"question"`
	Resumed  bool                     `json:"resumed"`
}

// TurnResult is the outcome of answering one question without streaming.
type TurnResult struct {
	Acknowledgment string `json:"acknowledgment"`
	NextQuestion   string `json:"next_question,omitempty"`
	Completed      bool   `json:"completed"`
}

// ProctoringResult tells the client what the incident triggered.
type ProctoringResult struct {
	Directive    Directive `json:"directive"`
	WarningCount int       `json:"warning_count"`
	Flagged      bool      `json:"flagged"`
}

// GetStatus serves the candidate status view, cached briefly since clients
// poll it while waiting for their window to open.
func (s *SessionService) GetStatus(ctx context.Context, token string) (*InterviewStatus, error) {
	cacheKey := statusCacheKey(token)
	var cached InterviewStatus
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	candidate, err := s.candidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	status := &InterviewStatus{
		CandidateStatus: candidate.Status,
		JobTitle:        candidate.Job.Title,
		Window:          CheckWindow(candidate, &candidate.Job, s.now()),
	}

	session, err := s.repo.Session().GetActiveByCandidateAndJob(ctx, candidate.ID, candidate.JobID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}
	if session != nil {
		responses, err := s.repo.Response().ListBySession(ctx, session.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load responses: %w", err)
		}
		status.SessionStatus = &session.Status
		status.IsFlagged = session.IsFlagged
		status.QuestionsTotal = len(session.Questions)
		status.QuestionsAnswered = len(responses)
		if session.Status == models.SessionOngoing && len(responses) < len(session.Questions) {
			status.CurrentQuestion = session.Questions[len(responses)]
		}
	}

	if ttl := statusTTL(status.Window); ttl > 0 {
		if err := s.cache.Set(ctx, cacheKey, status, ttl); err != nil {
			s.logger.Warn("Failed to cache interview status", "error", err)
		}
	}
	return status, nil
}

// statusTTL shortens the cache lifetime near a window boundary so a cached
// verdict never outlives the window state it describes.
func statusTTL(verdict WindowVerdict) time.Duration {
	boundary := statusCacheTTL
	switch {
	case verdict.IsBeforeStart:
		boundary = time.Duration(verdict.MillisUntilStart) * time.Millisecond
	case verdict.CanStartNow:
		boundary = time.Duration(verdict.MillisUntilEnd) * time.Millisecond
	}
	if boundary < statusCacheTTL {
		return boundary
	}
	return statusCacheTTL
}

// Start begins the interview, or resumes the candidate's active session if
// one already exists. A new session gets its question list generated up
// front; resuming never regenerates questions.
func (s *SessionService) Start(ctx context.Context, token string) (*StartResult, error) {
	candidate, err := s.candidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, candidateLockKey(candidate), sessionLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()
	defer s.invalidateStatus(ctx, token)

	if err := s.checkStartPreconditions(candidate); err != nil {
		return nil, err
	}

	verdict := CheckWindow(candidate, &candidate.Job, s.now())
	switch {
	case verdict.IsBeforeStart:
		return nil, ErrInterviewTooEarly
	case verdict.IsExpired:
		return nil, ErrInterviewWindowExpired
	}

	existing, err := s.repo.Session().GetActiveByCandidateAndJob(ctx, candidate.ID, candidate.JobID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up active session: %w", err)
	}
	if existing != nil {
		return s.resumeExisting(ctx, existing)
	}

	questions, err := s.orchestrator.GenerateQuestions(ctx, jobContext(&candidate.Job), candidate.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare interview questions: %w", err)
	}

	startedAt := s.now()
	session := &models.InterviewSession{
		CandidateID: candidate.ID,
		JobID:       candidate.JobID,
		Status:      models.SessionOngoing,
		HasStarted:  true,
		Questions:   datatypes.NewJSONSlice(questions),
		StartTime:   &startedAt,
	}

	created, err := s.repo.Session().CreateIfAbsent(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if !created {
		// Another request won the race; pick up its session.
		existing, err := s.repo.Session().GetActiveByCandidateAndJob(ctx, candidate.ID, candidate.JobID)
		if err != nil {
			return nil, fmt.Errorf("failed to load racing session: %w", err)
		}
		return s.resumeExisting(ctx, existing)
	}

	candidate.Status = models.CandidateReview
	if err := s.repo.Candidate().Update(ctx, candidate); err != nil {
		return nil, fmt.Errorf("failed to update candidate status: %w", err)
	}

	s.publish(ctx, events.EventInterviewStarted, events.InterviewStartedEvent{
		SessionID:   session.ID,
		CandidateID: candidate.ID,
		JobID:       candidate.JobID,
		JobTitle:    candidate.Job.Title,
		StartedAt:   startedAt,
	})

	return &StartResult{Session: session, Question: questions[0]}, nil
}

func (s *SessionService) resumeExisting(ctx context.Context, session *models.InterviewSession) (*StartResult, error) {
	if err := s.requireOngoing(session); err != nil {
		return nil, err
	}

	responses, err := s.repo.Response().ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}
	if len(responses) >= len(session.Questions) {
		return nil, ErrInterviewAlreadyCompleted
	}
	return &StartResult{
		Session:  session,
		Question: session.Questions[len(responses)],
		Resumed:  true,
	}, nil
}

// SubmitTurn records the candidate's answer to the current question, rates
// it, and returns the acknowledgment plus next question. Answering the final
// question completes the interview.
func (s *SessionService) SubmitTurn(ctx context.Context, token, answer string) (*TurnResult, error) {
	return s.submitTurn(ctx, token, answer, nil)
}

// StreamTurnTo behaves like SubmitTurn but streams the acknowledgment and
// next-question text to sink chunk by chunk before persisting the turn. If
// the sink fails mid-stream nothing is persisted; the candidate retries the
// same question.
func (s *SessionService) StreamTurnTo(ctx context.Context, token, answer string, sink ChunkSink) (*TurnResult, error) {
	return s.submitTurn(ctx, token, answer, sink)
}

func (s *SessionService) submitTurn(ctx context.Context, token, answer string, sink ChunkSink) (*TurnResult, error) {
	candidate, err := s.candidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, candidateLockKey(candidate), sessionLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()
	defer s.invalidateStatus(ctx, token)

	session, err := s.activeSession(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if err := s.requireOngoing(session); err != nil {
		return nil, err
	}

	responses, err := s.repo.Response().ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load responses: %w", err)
	}
	if len(responses) >= len(session.Questions) {
		return nil, ErrInterviewAlreadyCompleted
	}

	question := session.Questions[len(responses)]
	history := make([]assessment.Turn, 0, len(responses))
	for _, r := range responses {
		history = append(history, assessment.Turn{Question: r.Question, Answer: r.Answer})
	}

	isLast := len(responses) == len(session.Questions)-1

	acknowledgment := ""
	if !isLast {
		withCurrent := append(history, assessment.Turn{Question: question})
		acknowledgment, err = s.streamAcknowledgment(ctx, &candidate.Job, withCurrent, answer, sink)
		if err != nil {
			return nil, err
		}
	}

	rating := s.orchestrator.RateTurn(ctx, question, answer)

	response := &models.InterviewResponse{
		SessionID:          session.ID,
		Question:           question,
		Answer:             answer,
		Acknowledgment:     acknowledgment,
		TechnicalScore:     rating.TechnicalScore,
		CommunicationScore: rating.CommunicationScore,
		OverfitScore:       rating.OverfitScore,
		AIFlagged:          rating.AIFlagged,
		Feedback:           rating.Feedback,
	}
	if err := s.repo.Response().Create(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to record turn: %w", err)
	}

	if isLast {
		if err := s.complete(ctx, candidate, session); err != nil {
			return nil, err
		}
		return &TurnResult{Completed: true}, nil
	}

	return &TurnResult{
		Acknowledgment: acknowledgment,
		NextQuestion:   session.Questions[len(responses)+1],
	}, nil
}

// streamAcknowledgment drives the turn stream, forwarding chunks to sink when
// one is given. A sink failure aborts before anything is persisted.
func (s *SessionService) streamAcknowledgment(ctx context.Context, job *models.Job, history []assessment.Turn, answer string, sink ChunkSink) (string, error) {
	stream := s.orchestrator.StreamTurn(ctx, jobContext(job), history, answer)
	defer stream.Close()

	var full string
	for {
		chunk, err := stream.Recv()
		if err != nil {
			break
		}
		full += chunk
		if sink != nil {
			if err := sink.SendChunk(chunk); err != nil {
				return "", fmt.Errorf("client stream aborted: %w", err)
			}
		}
	}
	return full, nil
}

// RecordProctoringEvent logs an integrity incident and applies the
// escalation policy. High-severity incidents pause the session; past the
// warning budget they flag it for company review.
func (s *SessionService) RecordProctoringEvent(ctx context.Context, token string, eventType models.ProctoringEventType, severity models.ProctoringSeverity, data datatypes.JSON) (*ProctoringResult, error) {
	candidate, err := s.candidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, candidateLockKey(candidate), sessionLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()
	defer s.invalidateStatus(ctx, token)

	session, err := s.activeSession(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, ErrSessionNotOngoing
	}

	log := &models.ProctoringLog{
		SessionID: session.ID,
		Type:      eventType,
		Severity:  severity,
		Data:      data,
	}
	if err := s.repo.Proctoring().Create(ctx, log); err != nil {
		return nil, fmt.Errorf("failed to record proctoring event: %w", err)
	}

	escalation := DecideEscalation(severity, session.WarningCount, s.warningBudget)
	result := &ProctoringResult{
		Directive:    escalation.Directive,
		WarningCount: escalation.WarningCount,
		Flagged:      session.IsFlagged,
	}
	if escalation.Directive == DirectiveLogOnly {
		return result, nil
	}

	session.WarningCount = escalation.WarningCount
	session.MalpracticeCount++
	session.Status = models.SessionPaused
	session.IsInterrupted = true
	if escalation.Directive == DirectiveFlagAndPause {
		session.IsFlagged = true
	}
	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	result.Flagged = session.IsFlagged

	pauseEvent := events.EventInterviewPausedMalpractice
	if session.IsFlagged {
		pauseEvent = events.EventInterviewFlagged
	}
	s.publish(ctx, pauseEvent, events.InterviewPausedEvent{
		SessionID:    session.ID,
		CandidateID:  candidate.ID,
		JobID:        candidate.JobID,
		WarningCount: session.WarningCount,
		Flagged:      session.IsFlagged,
		PausedAt:     s.now(),
	})

	return result, nil
}

// AcknowledgeWarning resumes a session paused by a warning. A flagged pause
// cannot be self-acknowledged; only the company can lift it. Acknowledging a
// session that is not paused is a no-op, so retried acknowledgments are safe.
func (s *SessionService) AcknowledgeWarning(ctx context.Context, token string) (*models.InterviewSession, error) {
	candidate, err := s.candidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, candidateLockKey(candidate), sessionLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()
	defer s.invalidateStatus(ctx, token)

	session, err := s.activeSession(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionPaused {
		return session, nil
	}
	if session.IsFlagged {
		return nil, ErrInterviewFlagged
	}

	session.Status = models.SessionOngoing
	session.IsInterrupted = false
	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}

	s.publish(ctx, events.EventInterviewResumed, events.InterviewResumedEvent{
		SessionID:  session.ID,
		ResumedBy:  "candidate",
		ResumedAt:  s.now(),
		WasFlagged: false,
	})
	return session, nil
}

// CompanyResume lifts a pause on behalf of the owning company, flagged or
// not. The flag itself never clears; it stays on the record for review.
func (s *SessionService) CompanyResume(ctx context.Context, companyID, sessionID uint) (*models.InterviewSession, error) {
	session, err := s.repo.Session().GetByIDWithDetails(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Job.CompanyID != companyID {
		return nil, NewPermissionError("interview session", "resume")
	}

	release, err := s.locker.Acquire(ctx, sessionLockKeyByIDs(session.CandidateID, session.JobID), sessionLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()
	defer s.invalidateStatus(ctx, session.Candidate.AccessToken)

	if session.Status != models.SessionPaused {
		return nil, ErrInterviewNotPaused
	}

	wasFlagged := session.IsFlagged
	session.Status = models.SessionOngoing
	session.IsInterrupted = false
	if err := s.repo.Session().Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to resume session: %w", err)
	}

	s.publish(ctx, events.EventInterviewResumed, events.InterviewResumedEvent{
		SessionID:  session.ID,
		ResumedBy:  "company",
		ResumedAt:  s.now(),
		WasFlagged: wasFlagged,
	})
	return session, nil
}

// complete finalizes the session: evaluate the full transcript, upsert the
// verdict, close the session, and move the candidate on. The model failing
// never blocks completion; the fallback verdict demands manual review.
func (s *SessionService) complete(ctx context.Context, candidate *models.Candidate, session *models.InterviewSession) error {
	responses, err := s.repo.Response().ListBySession(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to load responses: %w", err)
	}

	turns := make([]assessment.Turn, 0, len(responses))
	ratings := make([]assessment.TurnRating, 0, len(responses))
	for _, r := range responses {
		turns = append(turns, assessment.Turn{Question: r.Question, Answer: r.Answer})
		ratings = append(ratings, assessment.TurnRating{
			TechnicalScore:     r.TechnicalScore,
			CommunicationScore: r.CommunicationScore,
			OverfitScore:       r.OverfitScore,
			AIFlagged:          r.AIFlagged,
			Feedback:           r.Feedback,
		})
	}

	verdict := s.orchestrator.EvaluateInterview(ctx, jobContext(&candidate.Job), turns, ratings)

	endedAt := s.now()
	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		evaluation := &models.FinalEvaluation{
			SessionID:      session.ID,
			OverallScore:   verdict.OverallScore,
			IsFit:          verdict.IsFit,
			Reasoning:      verdict.Reasoning,
			BehavioralNote: verdict.BehavioralNote,
			Metrics:        datatypes.NewJSONType(verdict.Metrics),
		}
		if err := tx.Evaluation().Upsert(ctx, evaluation); err != nil {
			return fmt.Errorf("failed to store evaluation: %w", err)
		}

		session.Status = models.SessionCompleted
		session.EndTime = &endedAt
		session.OverallScore = &verdict.OverallScore
		if err := tx.Session().Update(ctx, session); err != nil {
			return fmt.Errorf("failed to close session: %w", err)
		}

		candidate.Status = models.CandidateCompleted
		if err := tx.Candidate().Update(ctx, candidate); err != nil {
			return fmt.Errorf("failed to update candidate: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.EventInterviewCompleted, events.InterviewCompletedEvent{
		SessionID:    session.ID,
		CandidateID:  candidate.ID,
		JobID:        candidate.JobID,
		JobTitle:     candidate.Job.Title,
		CompletedAt:  endedAt,
		OverallScore: verdict.OverallScore,
		IsFit:        verdict.IsFit,
	})
	s.publish(ctx, events.EventEvaluationReady, events.EvaluationReadyEvent{
		SessionID:    session.ID,
		CandidateID:  candidate.ID,
		JobID:        candidate.JobID,
		OverallScore: verdict.OverallScore,
		IsFit:        verdict.IsFit,
		ManualReview: verdict.OverallScore == 0 && !verdict.IsFit,
	})
	return nil
}

// Complete ends the interview now, before the question list is exhausted,
// and evaluates whatever transcript exists. Answering the final question
// completes implicitly; this is the explicit early exit.
func (s *SessionService) Complete(ctx context.Context, token string) (*models.InterviewSession, error) {
	candidate, err := s.candidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, candidateLockKey(candidate), sessionLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()
	defer s.invalidateStatus(ctx, token)

	session, err := s.activeSession(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if err := s.requireOngoing(session); err != nil {
		return nil, err
	}

	if err := s.complete(ctx, candidate, session); err != nil {
		return nil, err
	}
	return session, nil
}

// CandidateEvaluation returns the candidate's own verdict once their latest
// session has completed.
func (s *SessionService) CandidateEvaluation(ctx context.Context, token string) (*models.FinalEvaluation, error) {
	candidate, err := s.candidateByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.Session().GetLatestByCandidateAndJob(ctx, candidate.ID, candidate.JobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Status != models.SessionCompleted {
		return nil, ErrEvaluationNotFound
	}

	evaluation, err := s.repo.Evaluation().GetBySessionID(ctx, session.ID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to load evaluation: %w", err)
	}
	return evaluation, nil
}

// GetEvaluation returns the final verdict for a session owned by companyID.
func (s *SessionService) GetEvaluation(ctx context.Context, companyID, sessionID uint) (*models.FinalEvaluation, error) {
	session, err := s.repo.Session().GetByIDWithDetails(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.Job.CompanyID != companyID {
		return nil, NewPermissionError("evaluation", "view")
	}

	evaluation, err := s.repo.Evaluation().GetBySessionID(ctx, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to load evaluation: %w", err)
	}
	return evaluation, nil
}

// ListSessions returns a job's sessions for the owning company.
func (s *SessionService) ListSessions(ctx context.Context, companyID, jobID uint, filters repositories.SessionFilters) ([]*models.InterviewSession, int64, error) {
	job, err := s.repo.Job().GetByID(ctx, jobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, 0, ErrJobNotFound
		}
		return nil, 0, fmt.Errorf("failed to load job: %w", err)
	}
	if job.CompanyID != companyID {
		return nil, 0, NewPermissionError("job", "view sessions for")
	}
	return s.repo.Session().ListByJob(ctx, jobID, filters)
}

// ===== HELPERS =====

func (s *SessionService) candidateByToken(ctx context.Context, token string) (*models.Candidate, error) {
	candidate, err := s.repo.Candidate().GetByAccessToken(ctx, token)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	return candidate, nil
}

func (s *SessionService) activeSession(ctx context.Context, candidate *models.Candidate) (*models.InterviewSession, error) {
	session, err := s.repo.Session().GetActiveByCandidateAndJob(ctx, candidate.ID, candidate.JobID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

func (s *SessionService) requireOngoing(session *models.InterviewSession) error {
	switch {
	case session.Status == models.SessionPaused && session.IsFlagged:
		return ErrInterviewFlagged
	case session.Status == models.SessionPaused:
		return ErrInterviewPaused
	case session.Status != models.SessionOngoing:
		return ErrSessionNotOngoing
	}
	return nil
}

// checkStartPreconditions admits only candidates still in the interview
// flow: Invited for a first start, Review to resume. Decided candidates
// (Rejected, Considered, Shortlisted) must go through ReInterview, which
// resets the status and issues a fresh token.
func (s *SessionService) checkStartPreconditions(candidate *models.Candidate) error {
	switch candidate.Status {
	case models.CandidateInvited, models.CandidateReview:
	case models.CandidatePending:
		return ErrInvitationNotAccepted
	case models.CandidateCompleted:
		return ErrInterviewAlreadyCompleted
	case models.CandidateExpired:
		return ErrInterviewWindowExpired
	default:
		return ErrCandidateDecided
	}
	if !candidate.ProfileCompleted {
		return ErrProfileIncomplete
	}
	return nil
}

func (s *SessionService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	event := &events.NotificationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: s.now(),
		Source:    "interview-service",
		Version:   "1.0",
		Data:      payload,
	}
	if err := s.publisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish notification event", "type", eventType, "error", err)
	}
}

func (s *SessionService) invalidateStatus(ctx context.Context, token string) {
	if err := s.cache.Delete(ctx, statusCacheKey(token)); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Failed to invalidate status cache", "error", err)
	}
}

func statusCacheKey(token string) string {
	return fmt.Sprintf("interview:status:%s", token)
}

func candidateLockKey(candidate *models.Candidate) string {
	return sessionLockKeyByIDs(candidate.ID, candidate.JobID)
}

func sessionLockKeyByIDs(candidateID, jobID uint) string {
	return fmt.Sprintf("candidate:%d:job:%d", candidateID, jobID)
}

func jobContext(job *models.Job) assessment.JobContext {
	return assessment.JobContext{
		Title:            job.Title,
		Description:      derefString(job.Description),
		RequirementNotes: derefString(job.RequirementNotes),
		CustomQuestions:  job.CustomQuestions,
		Plan:             job.PlanAtCreation,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
