package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProctoringEventType string

const (
	EventTabSwitch      ProctoringEventType = "tab_switch"
	EventWindowBlur     ProctoringEventType = "window_blur"
	EventFullscreenExit ProctoringEventType = "fullscreen_exit"
	EventMultipleFaces  ProctoringEventType = "multiple_faces"
	EventNoFace         ProctoringEventType = "no_face"
	EventTextInput      ProctoringEventType = "text_input"
	EventAIDetection    ProctoringEventType = "ai_detection"
)

type ProctoringSeverity string

const (
	SeverityLow    ProctoringSeverity = "low"
	SeverityMedium ProctoringSeverity = "medium"
	SeverityHigh   ProctoringSeverity = "high"
)

// ProctoringLog is one integrity-event occurrence. Append-only; only
// high-severity events feed the escalation policy.
type ProctoringLog struct {
	ID        uint                `json:"id" gorm:"primaryKey"`
	SessionID uint                `json:"session_id" gorm:"not null;index"`
	Type      ProctoringEventType `json:"type" gorm:"not null;index" validate:"required,proctoring_event"`
	Severity  ProctoringSeverity  `json:"severity" gorm:"not null;default:low" validate:"required,proctoring_severity"`

	// Raw client-side event payload.
	Data datatypes.JSON `json:"data" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`

	Session InterviewSession `json:"-" gorm:"foreignKey:SessionID"`
}

func (ProctoringLog) TableName() string {
	return "proctoring_logs"
}
