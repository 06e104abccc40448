package models

import (
	"time"

	"gorm.io/datatypes"
)

// TurnLog is the durable per-turn archive row. Written best-effort
// after a turn commits; the in-memory session is the source of truth
// for interview progress.
type TurnLog struct {
	ID            string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID        string         `gorm:"column:user_id;type:text;index" json:"user_id"`
	Position      string         `gorm:"column:position;type:text" json:"position"`
	InterviewType string         `gorm:"column:interview_type;type:text" json:"interview_type"`
	QuestionIndex int            `gorm:"column:question_index" json:"question_index"`
	Candidate     string         `gorm:"column:candidate;type:text" json:"candidate"`
	Interviewer   string         `gorm:"column:interviewer;type:text" json:"interviewer"`
	Metadata      datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt     time.Time      `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (TurnLog) TableName() string { return "turn_logs" }
