package services

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NexHire-2025/interview-service/internal/assessment"
	"github.com/NexHire-2025/interview-service/internal/cache"
	"github.com/NexHire-2025/interview-service/internal/events"
	"github.com/NexHire-2025/interview-service/internal/models"
)

// scriptedGenerator routes on the system prompt so one stub serves question
// generation, turn streaming, rating, and evaluation.
type scriptedGenerator struct {
	failEvaluation bool
	failQuestions  bool
}

func (g *scriptedGenerator) Generate(ctx context.Context, systemPrompt, prompt string, temperature float32) (string, error) {
	switch {
	case strings.Contains(systemPrompt, "preparing questions"):
		if g.failQuestions {
			return "", errors.New("model unavailable")
		}
		return `["q1","q2","q3","q4","q5"]`, nil
	case strings.Contains(systemPrompt, "scoring a single"):
		return `{"technical_score": 70, "communication_score": 65, "overfit_score": 10, "ai_flagged": false, "feedback": "fine"}`, nil
	case strings.Contains(systemPrompt, "final verdict"):
		if g.failEvaluation {
			return "", errors.New("model unavailable")
		}
		return `{"overall_score": 68, "is_fit": true, "reasoning": "solid", "behavioral_note": "calm", "metrics": {"technical_depth": {"score": 70, "critique": "ok"}}}`, nil
	}
	return "", errors.New("unexpected prompt")
}

func (g *scriptedGenerator) Stream(ctx context.Context, systemPrompt, prompt string, temperature float32) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("Understood. ", nil)
	}
}

type sessionFixture struct {
	service   *SessionService
	repo      *fakeRepository
	publisher *events.MockEventPublisher
	candidate *models.Candidate
	job       *models.Job
	now       time.Time
}

func newSessionFixture(t *testing.T, gen assessment.Generator) *sessionFixture {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	repo := newFakeRepository()
	publisher := events.NewMockEventPublisher(logger)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	job := &models.Job{
		CompanyID:         1,
		Title:             "Backend Engineer",
		InterviewStartsAt: now.Add(-time.Hour),
		InterviewEndsAt:   now.Add(24 * time.Hour),
		PlanAtCreation:    models.PlanFree,
	}
	require.NoError(t, repo.Job().Create(context.Background(), job))

	candidate := &models.Candidate{
		JobID:            job.ID,
		Email:            "dev@example.com",
		FullName:         "Dev Example",
		Status:           models.CandidateInvited,
		ProfileCompleted: true,
		ResumeText:       "go, postgres",
		AccessToken:      "token-1",
	}
	require.NoError(t, repo.Candidate().Create(context.Background(), candidate))

	service := NewSessionService(
		repo,
		assessment.NewOrchestrator(gen, logger),
		cache.NoopLocker{},
		cache.NoopCache{},
		publisher,
		logger,
		DefaultWarningBudget,
	)
	service.now = func() time.Time { return now }

	return &sessionFixture{
		service:   service,
		repo:      repo,
		publisher: publisher,
		candidate: candidate,
		job:       job,
		now:       now,
	}
}

func (f *sessionFixture) start(t *testing.T) *StartResult {
	t.Helper()
	result, err := f.service.Start(context.Background(), f.candidate.AccessToken)
	require.NoError(t, err)
	return result
}

func (f *sessionFixture) eventTypes() []events.EventType {
	published := f.publisher.GetPublishedEvents()
	types := make([]events.EventType, 0, len(published))
	for _, e := range published {
		types = append(types, e.Type)
	}
	return types
}

func TestSessionStart(t *testing.T) {
	t.Run("creates a session and returns the first question", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})

		result := f.start(t)

		assert.False(t, result.Resumed)
		assert.Equal(t, "q1", result.Question)
		assert.Len(t, result.Session.Questions, 5)
		assert.Equal(t, models.SessionOngoing, result.Session.Status)

		stored, err := f.repo.Candidate().GetByID(context.Background(), f.candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CandidateReview, stored.Status)

		assert.Contains(t, f.eventTypes(), events.EventInterviewStarted)
	})

	t.Run("starting again resumes at the pending question", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})

		first := f.start(t)
		second := f.start(t)

		assert.True(t, second.Resumed)
		assert.Equal(t, first.Session.ID, second.Session.ID)
		assert.Equal(t, "q1", second.Question)
	})

	t.Run("starts on canned questions when the model is down", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{failQuestions: true})

		result := f.start(t)

		assert.Len(t, result.Session.Questions, 5)
		assert.NotEmpty(t, result.Question)
	})

	t.Run("rejected before the window opens", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.service.now = func() time.Time { return f.job.InterviewStartsAt.Add(-time.Minute) }

		_, err := f.service.Start(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrInterviewTooEarly)
	})

	t.Run("rejected after the window closes", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.service.now = func() time.Time { return f.job.InterviewEndsAt.Add(time.Minute) }

		_, err := f.service.Start(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrInterviewWindowExpired)
	})

	t.Run("rejected before the invitation is accepted", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.candidate.Status = models.CandidatePending
		require.NoError(t, f.repo.Candidate().Update(context.Background(), f.candidate))

		_, err := f.service.Start(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrInvitationNotAccepted)
	})

	t.Run("rejected with an incomplete profile", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.candidate.ProfileCompleted = false
		require.NoError(t, f.repo.Candidate().Update(context.Background(), f.candidate))

		_, err := f.service.Start(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrProfileIncomplete)
	})

	t.Run("a decided candidate cannot start with the old token", func(t *testing.T) {
		for _, decision := range []models.CandidateStatus{
			models.CandidateRejected,
			models.CandidateConsidered,
			models.CandidateShortlisted,
		} {
			f := newSessionFixture(t, &scriptedGenerator{})
			f.start(t)
			_, err := f.service.Complete(context.Background(), f.candidate.AccessToken)
			require.NoError(t, err)

			f.candidate.Status = decision
			require.NoError(t, f.repo.Candidate().Update(context.Background(), f.candidate))

			_, err = f.service.Start(context.Background(), f.candidate.AccessToken)
			assert.ErrorIs(t, err, ErrCandidateDecided)

			stored, err := f.repo.Candidate().GetByID(context.Background(), f.candidate.ID)
			require.NoError(t, err)
			assert.Equal(t, decision, stored.Status)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})

		_, err := f.service.Start(context.Background(), "no-such-token")
		assert.ErrorIs(t, err, ErrCandidateNotFound)
	})
}

func TestSubmitTurn(t *testing.T) {
	t.Run("records the turn with its rating and advances", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		result := f.start(t)

		turn, err := f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "my answer")

		require.NoError(t, err)
		assert.False(t, turn.Completed)
		assert.Equal(t, "q2", turn.NextQuestion)
		assert.Equal(t, "Understood. ", turn.Acknowledgment)

		responses, err := f.repo.Response().ListBySession(context.Background(), result.Session.ID)
		require.NoError(t, err)
		require.Len(t, responses, 1)
		assert.Equal(t, "q1", responses[0].Question)
		assert.Equal(t, "my answer", responses[0].Answer)
		assert.Equal(t, 70, responses[0].TechnicalScore)
	})

	t.Run("final answer completes the interview", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		result := f.start(t)

		var last *TurnResult
		for i := 0; i < 5; i++ {
			var err error
			last, err = f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
			require.NoError(t, err)
		}

		assert.True(t, last.Completed)

		session, err := f.repo.Session().GetByID(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCompleted, session.Status)
		require.NotNil(t, session.OverallScore)
		assert.Equal(t, 68.0, *session.OverallScore)

		evaluation, err := f.repo.Evaluation().GetBySessionID(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.True(t, evaluation.IsFit)

		candidate, err := f.repo.Candidate().GetByID(context.Background(), f.candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CandidateCompleted, candidate.Status)

		types := f.eventTypes()
		assert.Contains(t, types, events.EventInterviewCompleted)
		assert.Contains(t, types, events.EventEvaluationReady)
	})

	t.Run("a failing evaluator still completes with a manual-review verdict", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{failEvaluation: true})
		result := f.start(t)

		for i := 0; i < 5; i++ {
			_, err := f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
			require.NoError(t, err)
		}

		session, err := f.repo.Session().GetByID(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCompleted, session.Status)

		evaluation, err := f.repo.Evaluation().GetBySessionID(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.Zero(t, evaluation.OverallScore)
		assert.False(t, evaluation.IsFit)
		assert.Contains(t, evaluation.Reasoning, "manual review")
	})

	t.Run("rejected without an active session", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})

		_, err := f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestProctoringEscalation(t *testing.T) {
	highSeverity := func(f *sessionFixture) (*ProctoringResult, error) {
		return f.service.RecordProctoringEvent(
			context.Background(), f.candidate.AccessToken,
			models.EventTabSwitch, models.SeverityHigh, nil,
		)
	}

	t.Run("low severity is logged without pausing", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		result := f.start(t)

		got, err := f.service.RecordProctoringEvent(
			context.Background(), f.candidate.AccessToken,
			models.EventWindowBlur, models.SeverityLow, nil,
		)

		require.NoError(t, err)
		assert.Equal(t, DirectiveLogOnly, got.Directive)

		session, err := f.repo.Session().GetByID(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionOngoing, session.Status)

		logs, err := f.repo.Proctoring().ListBySession(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("high severity pauses and acknowledgment resumes", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		result := f.start(t)

		got, err := highSeverity(f)
		require.NoError(t, err)
		assert.Equal(t, DirectiveWarnAndPause, got.Directive)
		assert.Equal(t, 1, got.WarningCount)

		_, err = f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
		assert.ErrorIs(t, err, ErrInterviewPaused)

		session, err := f.service.AcknowledgeWarning(context.Background(), f.candidate.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, models.SessionOngoing, session.Status)
		assert.Equal(t, result.Session.ID, session.ID)
		assert.Contains(t, f.eventTypes(), events.EventInterviewResumed)
	})

	t.Run("acknowledge without a pause is a no-op", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.start(t)

		session, err := f.service.AcknowledgeWarning(context.Background(), f.candidate.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, models.SessionOngoing, session.Status)
		assert.NotContains(t, f.eventTypes(), events.EventInterviewResumed)
	})

	t.Run("the fourth warning flags and blocks self-resume", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		result := f.start(t)

		for i := 0; i < 3; i++ {
			got, err := highSeverity(f)
			require.NoError(t, err)
			assert.Equal(t, DirectiveWarnAndPause, got.Directive)
			_, err = f.service.AcknowledgeWarning(context.Background(), f.candidate.AccessToken)
			require.NoError(t, err)
		}

		got, err := highSeverity(f)
		require.NoError(t, err)
		assert.Equal(t, DirectiveFlagAndPause, got.Directive)
		assert.Equal(t, 4, got.WarningCount)
		assert.True(t, got.Flagged)

		_, err = f.service.AcknowledgeWarning(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrInterviewFlagged)

		_, err = f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
		assert.ErrorIs(t, err, ErrInterviewFlagged)

		assert.Contains(t, f.eventTypes(), events.EventInterviewFlagged)

		t.Run("only the owning company can resume", func(t *testing.T) {
			_, err := f.service.CompanyResume(context.Background(), 999, result.Session.ID)
			assert.True(t, IsPermissionError(err))

			session, err := f.service.CompanyResume(context.Background(), f.job.CompanyID, result.Session.ID)
			require.NoError(t, err)
			assert.Equal(t, models.SessionOngoing, session.Status)
			assert.True(t, session.IsFlagged)
			assert.Equal(t, 4, session.WarningCount)

			_, err = f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
			assert.NoError(t, err)
		})
	})
}

func TestGetStatus(t *testing.T) {
	t.Run("before any session exists", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})

		status, err := f.service.GetStatus(context.Background(), f.candidate.AccessToken)

		require.NoError(t, err)
		assert.Equal(t, models.CandidateInvited, status.CandidateStatus)
		assert.Nil(t, status.SessionStatus)
		assert.True(t, status.Window.CanStartNow)
	})

	t.Run("mid-interview", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.start(t)
		_, err := f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
		require.NoError(t, err)

		status, err := f.service.GetStatus(context.Background(), f.candidate.AccessToken)

		require.NoError(t, err)
		require.NotNil(t, status.SessionStatus)
		assert.Equal(t, models.SessionOngoing, *status.SessionStatus)
		assert.Equal(t, 5, status.QuestionsTotal)
		assert.Equal(t, 1, status.QuestionsAnswered)
		assert.Equal(t, "q2", status.CurrentQuestion)
	})
}

func TestGetEvaluation(t *testing.T) {
	f := newSessionFixture(t, &scriptedGenerator{})
	result := f.start(t)
	for i := 0; i < 5; i++ {
		_, err := f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
		require.NoError(t, err)
	}

	t.Run("owning company reads the verdict", func(t *testing.T) {
		evaluation, err := f.service.GetEvaluation(context.Background(), f.job.CompanyID, result.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, 68.0, evaluation.OverallScore)
	})

	t.Run("other companies are refused", func(t *testing.T) {
		_, err := f.service.GetEvaluation(context.Background(), 999, result.Session.ID)
		assert.True(t, IsPermissionError(err))
	})
}

func TestCompleteEarly(t *testing.T) {
	t.Run("evaluates the partial transcript", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		result := f.start(t)

		for i := 0; i < 2; i++ {
			_, err := f.service.SubmitTurn(context.Background(), f.candidate.AccessToken, "answer")
			require.NoError(t, err)
		}

		session, err := f.service.Complete(context.Background(), f.candidate.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCompleted, session.Status)
		require.NotNil(t, session.EndTime)

		evaluation, err := f.repo.Evaluation().GetBySessionID(context.Background(), result.Session.ID)
		require.NoError(t, err)
		assert.Equal(t, 68.0, evaluation.OverallScore)

		assert.Contains(t, f.eventTypes(), events.EventInterviewCompleted)
	})

	t.Run("rejected once the session is already completed", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.start(t)

		_, err := f.service.Complete(context.Background(), f.candidate.AccessToken)
		require.NoError(t, err)

		_, err = f.service.Complete(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("rejected while paused", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.start(t)

		_, err := f.service.RecordProctoringEvent(
			context.Background(), f.candidate.AccessToken,
			models.EventTabSwitch, models.SeverityHigh, nil,
		)
		require.NoError(t, err)

		_, err = f.service.Complete(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrInterviewPaused)
	})
}

func TestCandidateEvaluation(t *testing.T) {
	t.Run("available after completion", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.start(t)
		_, err := f.service.Complete(context.Background(), f.candidate.AccessToken)
		require.NoError(t, err)

		evaluation, err := f.service.CandidateEvaluation(context.Background(), f.candidate.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, 68.0, evaluation.OverallScore)
		assert.True(t, evaluation.IsFit)
	})

	t.Run("hidden while the interview is ongoing", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})
		f.start(t)

		_, err := f.service.CandidateEvaluation(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrEvaluationNotFound)
	})

	t.Run("missing without any session", func(t *testing.T) {
		f := newSessionFixture(t, &scriptedGenerator{})

		_, err := f.service.CandidateEvaluation(context.Background(), f.candidate.AccessToken)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestStatusTTL(t *testing.T) {
	cases := []struct {
		name    string
		verdict WindowVerdict
		want    time.Duration
	}{
		{
			name:    "far before the window opens",
			verdict: WindowVerdict{IsBeforeStart: true, MillisUntilStart: time.Hour.Milliseconds()},
			want:    statusCacheTTL,
		},
		{
			name:    "about to open",
			verdict: WindowVerdict{IsBeforeStart: true, MillisUntilStart: (5 * time.Second).Milliseconds()},
			want:    5 * time.Second,
		},
		{
			name:    "open with plenty of time left",
			verdict: WindowVerdict{CanStartNow: true, MillisUntilEnd: time.Hour.Milliseconds()},
			want:    statusCacheTTL,
		},
		{
			name:    "about to close",
			verdict: WindowVerdict{CanStartNow: true, MillisUntilEnd: (2 * time.Second).Milliseconds()},
			want:    2 * time.Second,
		},
		{
			name:    "already expired",
			verdict: WindowVerdict{IsExpired: true},
			want:    statusCacheTTL,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusTTL(tc.verdict))
		})
	}
}
