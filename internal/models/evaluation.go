package models

import (
	"time"

	"gorm.io/datatypes"
)

// MetricScore is one named sub-metric of a final evaluation.
type MetricScore struct {
	Score    int    `json:"score"`
	Critique string `json:"critique"`
}

// FinalEvaluation is the fitness verdict produced once at session completion.
// At most one per session (unique session_id); re-evaluation goes through an
// idempotent upsert, the row is otherwise immutable.
type FinalEvaluation struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	SessionID uint `json:"session_id" gorm:"not null;uniqueIndex"`

	OverallScore   float64 `json:"overall_score" gorm:"default:0"`
	IsFit          bool    `json:"is_fit" gorm:"default:false"`
	Reasoning      string  `json:"reasoning" gorm:"type:text"`
	BehavioralNote string  `json:"behavioral_note" gorm:"type:text"`

	Metrics datatypes.JSONType[map[string]MetricScore] `json:"metrics"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Session InterviewSession `json:"-" gorm:"foreignKey:SessionID"`
}

func (FinalEvaluation) TableName() string {
	return "final_evaluations"
}
