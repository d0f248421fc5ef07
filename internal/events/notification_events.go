package events

import (
	"time"
)

// EventType represents different types of notification events
type EventType string

const (
	// Candidate events
	EventCandidateInvited EventType = "candidate.invited"

	// Interview events
	EventInterviewStarted           EventType = "interview.started"
	EventInterviewCompleted         EventType = "interview.completed"
	EventInterviewPausedMalpractice EventType = "interview.paused_malpractice"
	EventInterviewFlagged           EventType = "interview.flagged"
	EventInterviewResumed           EventType = "interview.resumed"

	// Evaluation events
	EventEvaluationReady EventType = "evaluation.ready"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Candidate notification event payloads

type CandidateInvitedEvent struct {
	CandidateID    uint      `json:"candidate_id"`
	JobID          uint      `json:"job_id"`
	JobTitle       string    `json:"job_title"`
	Email          string    `json:"email"`
	AccessToken    string    `json:"access_token"`
	WindowStartsAt time.Time `json:"window_starts_at"`
	WindowEndsAt   time.Time `json:"window_ends_at"`
	IsReInterview  bool      `json:"is_re_interview"`
}

// Interview notification event payloads

type InterviewStartedEvent struct {
	SessionID   uint      `json:"session_id"`
	CandidateID uint      `json:"candidate_id"`
	JobID       uint      `json:"job_id"`
	JobTitle    string    `json:"job_title"`
	StartedAt   time.Time `json:"started_at"`
}

type InterviewCompletedEvent struct {
	SessionID    uint      `json:"session_id"`
	CandidateID  uint      `json:"candidate_id"`
	JobID        uint      `json:"job_id"`
	JobTitle     string    `json:"job_title"`
	CompletedAt  time.Time `json:"completed_at"`
	OverallScore float64   `json:"overall_score"`
	IsFit        bool      `json:"is_fit"`
}

type InterviewPausedEvent struct {
	SessionID    uint      `json:"session_id"`
	CandidateID  uint      `json:"candidate_id"`
	JobID        uint      `json:"job_id"`
	WarningCount int       `json:"warning_count"`
	Flagged      bool      `json:"flagged"`
	PausedAt     time.Time `json:"paused_at"`
}

type InterviewResumedEvent struct {
	SessionID  uint      `json:"session_id"`
	ResumedBy  string    `json:"resumed_by"` // "candidate" or "company"
	ResumedAt  time.Time `json:"resumed_at"`
	WasFlagged bool      `json:"was_flagged"`
}

// Evaluation notification event payloads

type EvaluationReadyEvent struct {
	SessionID    uint    `json:"session_id"`
	CandidateID  uint    `json:"candidate_id"`
	JobID        uint    `json:"job_id"`
	OverallScore float64 `json:"overall_score"`
	IsFit        bool    `json:"is_fit"`
	ManualReview bool    `json:"manual_review"`
}
