package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// KnowledgeDoc is one chunk of interviewing reference material. The
// retriever pulls nearest-neighbor chunks into prompt context.
type KnowledgeDoc struct {
	ID      string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title   string `gorm:"column:title;type:text" json:"title"`
	Content string `gorm:"column:content;type:text" json:"content"`

	Tags pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`

	// JSONB (save as raw JSON, structure fleksibel)
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`

	// pgvector
	Embedding pgvector.Vector `gorm:"column:embedding;type:vector(768)" json:"embedding"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (KnowledgeDoc) TableName() string { return "knowledge_docs" }
