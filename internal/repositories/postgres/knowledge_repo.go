package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/miraihq/mirai-interview/internal/models"
)

type KnowledgeRepo interface {
	Insert(ctx context.Context, doc *models.KnowledgeDoc) error
	SearchByTag(ctx context.Context, tag string, limit int) ([]models.KnowledgeDoc, error)
	// SearchSimilar ranks documents by cosine distance to the query
	// embedding. Embeddings are computed upstream and stored with the
	// document.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.KnowledgeDoc, error)
}

type knowledgeRepo struct {
	db *gorm.DB
}

func NewKnowledgeRepo(db *gorm.DB) KnowledgeRepo {
	return &knowledgeRepo{db: db}
}

func (r *knowledgeRepo) Insert(ctx context.Context, doc *models.KnowledgeDoc) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *knowledgeRepo) SearchByTag(ctx context.Context, tag string, limit int) ([]models.KnowledgeDoc, error) {
	if limit <= 0 {
		limit = 5
	}

	var rows []models.KnowledgeDoc
	err := r.db.WithContext(ctx).
		Where("? = ANY(tags)", tag).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *knowledgeRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]models.KnowledgeDoc, error) {
	if limit <= 0 {
		limit = 5
	}

	var rows []models.KnowledgeDoc
	err := r.db.WithContext(ctx).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:  "embedding <=> ?",
			Vars: []any{pgvector.NewVector(embedding)},
		}}).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
