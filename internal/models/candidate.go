package models

import (
	"time"

	"gorm.io/gorm"
)

type CandidateStatus string

const (
	CandidatePending     CandidateStatus = "Pending"
	CandidateInvited     CandidateStatus = "Invited"
	CandidateReview      CandidateStatus = "Review"
	CandidateCompleted   CandidateStatus = "Completed"
	CandidateExpired     CandidateStatus = "Expired"
	CandidateRejected    CandidateStatus = "Rejected"
	CandidateConsidered  CandidateStatus = "Considered"
	CandidateShortlisted CandidateStatus = "Shortlisted"
)

// Candidate is one person invited to interview for one job. The (job_id, email)
// pair is unique; a re-interview reuses the row with a fresh access token.
type Candidate struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	JobID    uint   `json:"job_id" gorm:"not null;index;uniqueIndex:idx_candidates_job_email"`
	Email    string `json:"email" gorm:"not null;size:255;uniqueIndex:idx_candidates_job_email" validate:"required,email"`
	FullName string `json:"full_name" gorm:"not null;size:200" validate:"required,min=1,max=200"`

	Status CandidateStatus `json:"status" gorm:"default:Pending;index" validate:"omitempty,candidate_status"`

	// Per-candidate override of the job's interview window. Both set or both nil.
	WindowStartsAt *time.Time `json:"window_starts_at"`
	WindowEndsAt   *time.Time `json:"window_ends_at"`

	IsReInterviewed  bool   `json:"is_re_interviewed" gorm:"default:false"`
	ProfileCompleted bool   `json:"profile_completed" gorm:"default:false"`
	ResumeText       string `json:"resume_text" gorm:"type:text"`
	AccessToken      string `json:"-" gorm:"not null;size:64;uniqueIndex"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Job      Job                `json:"job" gorm:"foreignKey:JobID"`
	Sessions []InterviewSession `json:"sessions,omitempty" gorm:"foreignKey:CandidateID"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// WindowOverride returns the candidate-level window override, or nil when the
// job default applies.
func (c *Candidate) WindowOverride() *TimeWindow {
	if c.WindowStartsAt == nil || c.WindowEndsAt == nil {
		return nil
	}
	return &TimeWindow{StartsAt: *c.WindowStartsAt, EndsAt: *c.WindowEndsAt}
}
