package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PlanTier string

const (
	PlanFree       PlanTier = "Free"
	PlanPro        PlanTier = "Pro"
	PlanEnterprise PlanTier = "Enterprise"
)

// QuestionCount returns how many interview questions a session on this plan
// gets. The snapshot taken at job creation governs this, not the company's
// current subscription.
func (p PlanTier) QuestionCount() int {
	switch p {
	case PlanPro:
		return 8
	case PlanEnterprise:
		return 12
	default:
		return 5
	}
}

// DeepRating reports whether final evaluations on this plan include the
// extended behavioral sub-metrics.
func (p PlanTier) DeepRating() bool {
	return p == PlanPro || p == PlanEnterprise
}

// TimeWindow is the half-open [StartsAt, EndsAt) interval during which a
// candidate may start or continue an interview.
type TimeWindow struct {
	StartsAt time.Time
	EndsAt   time.Time
}

type Job struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	CompanyID   uint    `json:"company_id" gorm:"not null;index"`
	Title       string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=5000"`

	// Default interview window; individual candidates may override it.
	InterviewStartsAt time.Time `json:"interview_starts_at" gorm:"not null"`
	InterviewEndsAt   time.Time `json:"interview_ends_at" gorm:"not null"`

	// Proctoring feature set
	TrackTabSwitches    bool `json:"track_tab_switches" gorm:"default:true"`
	TrackEyeMovement    bool `json:"track_eye_movement" gorm:"default:false"`
	DetectMultipleFaces bool `json:"detect_multiple_faces" gorm:"default:true"`
	EnforceFullScreen   bool `json:"enforce_full_screen" gorm:"default:false"`
	SuppressTextInput   bool `json:"suppress_text_input" gorm:"default:false"`

	// Subscription tier in effect when the job was created. Question-count
	// strategy and rating depth follow this snapshot even if the company's
	// plan changes later.
	PlanAtCreation PlanTier `json:"plan_at_creation" gorm:"not null;default:Free" validate:"omitempty,plan_tier"`

	// Mandatory questions every interview for this job must include.
	CustomQuestions  datatypes.JSONSlice[string] `json:"custom_questions"`
	RequirementNotes *string                     `json:"requirement_notes" gorm:"type:text" validate:"omitempty,max=5000"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Candidates []Candidate `json:"candidates,omitempty" gorm:"foreignKey:JobID"`
}

func (Job) TableName() string {
	return "jobs"
}

// Window returns the job's default interview window.
func (j *Job) Window() TimeWindow {
	return TimeWindow{StartsAt: j.InterviewStartsAt, EndsAt: j.InterviewEndsAt}
}
