package models

import "time"

// InterviewResponse is one question/answer turn within a session, ordered by
// CreatedAt. Rows are append-only and never mutated after creation.
type InterviewResponse struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	SessionID uint `json:"session_id" gorm:"not null;index"`

	Question       string `json:"question" gorm:"type:text;not null"`
	Answer         string `json:"answer" gorm:"type:text"`
	Acknowledgment string `json:"acknowledgment" gorm:"type:text"`

	// Per-turn sub-scores, each 0-100.
	TechnicalScore     int `json:"technical_score" gorm:"default:0"`
	CommunicationScore int `json:"communication_score" gorm:"default:0"`
	OverfitScore       int `json:"overfit_score" gorm:"default:0"`

	AIFlagged bool   `json:"ai_flagged" gorm:"default:false"`
	Feedback  string `json:"feedback" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`

	Session InterviewSession `json:"-" gorm:"foreignKey:SessionID"`
}

func (InterviewResponse) TableName() string {
	return "interview_responses"
}
