package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterviewRecord is the archived result of a finished interview.
// Live sessions stay in memory; only completed evaluations are written
// here, best-effort.
type InterviewRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecordID string             `bson:"record_id" json:"record_id"` // uuid v4
	UserID   string             `bson:"user_id" json:"user_id"`

	Position      string `bson:"position" json:"position"`
	InterviewType string `bson:"interview_type" json:"interview_type"`

	Transcript []Turn         `bson:"transcript" json:"transcript"`
	Scores     map[string]int `bson:"scores" json:"scores"`
	Critique   string         `bson:"critique" json:"critique"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
