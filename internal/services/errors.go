package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for interview flow failures. Handlers map these onto HTTP
// statuses; services never produce status codes themselves.
var (
	ErrCandidateNotFound         = errors.New("candidate not found")
	ErrJobNotFound               = errors.New("job not found")
	ErrSessionNotFound           = errors.New("interview session not found")
	ErrEvaluationNotFound        = errors.New("evaluation not found")
	ErrInterviewTooEarly         = errors.New("interview window has not opened yet")
	ErrInterviewWindowExpired    = errors.New("interview window has expired")
	ErrInterviewAlreadyCompleted = errors.New("interview has already been completed")
	ErrInterviewPaused           = errors.New("interview is paused pending warning acknowledgment")
	ErrInterviewFlagged          = errors.New("interview is flagged and awaiting company review")
	ErrInterviewNotPaused        = errors.New("interview is not paused")
	ErrInvitationNotAccepted     = errors.New("candidate has not accepted the invitation")
	ErrProfileIncomplete         = errors.New("candidate profile is incomplete")
	ErrCandidateAlreadyInvited   = errors.New("candidate has already been invited")
	ErrSessionNotOngoing         = errors.New("interview session is not ongoing")
	ErrCandidateDecided          = errors.New("candidate has already received a decision")
)

// PermissionError indicates the caller may not act on the resource.
type PermissionError struct {
	Resource string
	Action   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("not permitted to %s this %s", e.Action, e.Resource)
}

func NewPermissionError(resource, action string) *PermissionError {
	return &PermissionError{Resource: resource, Action: action}
}

// IsNotFoundError reports whether the error maps to a missing resource.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrCandidateNotFound) ||
		errors.Is(err, ErrJobNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrEvaluationNotFound)
}

// IsPermissionError reports whether the error is an authorization failure.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsWindowError reports whether the error stems from the eligibility window.
func IsWindowError(err error) bool {
	return errors.Is(err, ErrInterviewTooEarly) ||
		errors.Is(err, ErrInterviewWindowExpired)
}

// IsForbiddenByState reports whether the session's state forbids the action.
func IsForbiddenByState(err error) bool {
	return errors.Is(err, ErrInterviewAlreadyCompleted) ||
		errors.Is(err, ErrInterviewPaused) ||
		errors.Is(err, ErrInterviewFlagged) ||
		errors.Is(err, ErrInterviewNotPaused) ||
		errors.Is(err, ErrSessionNotOngoing) ||
		errors.Is(err, ErrCandidateDecided)
}

// IsConflictError reports whether the error is a state conflict rather than a
// flow violation.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrCandidateAlreadyInvited)
}

// IsPreconditionError reports whether the candidate has not finished the
// steps required before interviewing.
func IsPreconditionError(err error) bool {
	return errors.Is(err, ErrInvitationNotAccepted) ||
		errors.Is(err, ErrProfileIncomplete)
}
