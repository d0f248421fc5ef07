package services

import (
	"time"

	"github.com/NexHire-2025/interview-service/internal/models"
)

// ReInterviewExtension is the extra time granted at the end of the window to
// candidates a company has sent back for a second interview.
const ReInterviewExtension = 2 * time.Hour

// WindowVerdict is the result of checking a candidate against their
// eligibility window at a given instant.
type WindowVerdict struct {
	Window           models.TimeWindow `json:"window"`
	CanStartNow      bool              `json:"can_start_now"`
	IsBeforeStart    bool              `json:"is_before_start"`
	IsExpired        bool              `json:"is_expired"`
	MillisUntilStart int64             `json:"millis_until_start"`
	MillisUntilEnd   int64             `json:"millis_until_end"`
}

// ResolveWindow computes the effective window for a candidate. A per-candidate
// override replaces the job's window entirely; re-interviewed candidates get
// ReInterviewExtension added to the end either way.
func ResolveWindow(candidate *models.Candidate, job *models.Job) models.TimeWindow {
	window := job.Window()
	if override := candidate.WindowOverride(); override != nil {
		window = *override
	}
	if candidate.IsReInterviewed {
		window.EndsAt = window.EndsAt.Add(ReInterviewExtension)
	}
	return window
}

// CheckWindow evaluates the candidate's effective window at now. Exactly one
// of CanStartNow, IsBeforeStart, IsExpired is true; the window is half-open,
// the start instant is eligible and the end instant is not.
func CheckWindow(candidate *models.Candidate, job *models.Job, now time.Time) WindowVerdict {
	window := ResolveWindow(candidate, job)

	verdict := WindowVerdict{Window: window}
	switch {
	case now.Before(window.StartsAt):
		verdict.IsBeforeStart = true
		verdict.MillisUntilStart = window.StartsAt.Sub(now).Milliseconds()
		verdict.MillisUntilEnd = window.EndsAt.Sub(now).Milliseconds()
	case !now.Before(window.EndsAt):
		verdict.IsExpired = true
	default:
		verdict.CanStartNow = true
		verdict.MillisUntilEnd = window.EndsAt.Sub(now).Milliseconds()
	}
	return verdict
}
