package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionStatus string

const (
	SessionOngoing   SessionStatus = "Ongoing"
	SessionPaused    SessionStatus = "Paused"
	SessionCompleted SessionStatus = "Completed"
	SessionFailed    SessionStatus = "Failed"
)

// InterviewSession is the central mutable entity of the interview lifecycle.
// At most one non-completed session exists per (candidate, job); a partial
// unique index enforces this at the store (see pkg.InitDatabase).
//
// WarningCount only ever increases and IsFlagged never clears once set; a
// flagged pause can only be lifted by the owning company, never the candidate.
type InterviewSession struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	CandidateID uint `json:"candidate_id" gorm:"not null;index"`
	JobID       uint `json:"job_id" gorm:"not null;index"`

	Status     SessionStatus `json:"status" gorm:"default:Ongoing;index" validate:"omitempty,oneof=Ongoing Paused Completed Failed"`
	HasStarted bool          `json:"has_started" gorm:"default:false"`

	// Questions fixed at start; the turn at index len(Responses) is current.
	Questions datatypes.JSONSlice[string] `json:"questions"`

	WarningCount     int  `json:"warning_count" gorm:"default:0"`
	MalpracticeCount int  `json:"malpractice_count" gorm:"default:0"`
	IsInterrupted    bool `json:"is_interrupted" gorm:"default:false"`
	IsFlagged        bool `json:"is_flagged" gorm:"default:false"`

	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	OverallScore *float64   `json:"overall_score"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Candidate  Candidate           `json:"candidate" gorm:"foreignKey:CandidateID"`
	Job        Job                 `json:"job" gorm:"foreignKey:JobID"`
	Responses  []InterviewResponse `json:"responses,omitempty" gorm:"foreignKey:SessionID"`
	Proctoring []ProctoringLog     `json:"proctoring,omitempty" gorm:"foreignKey:SessionID"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// IsActive reports whether the session still accepts candidate actions.
func (s *InterviewSession) IsActive() bool {
	return s.Status == SessionOngoing || s.Status == SessionPaused
}
