package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/miraihq/mirai-interview/internal/models"
)

type TurnRepo interface {
	Insert(ctx context.Context, row *models.TurnLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.TurnLog, error)
}

type turnRepo struct {
	db *gorm.DB
}

func NewTurnRepo(db *gorm.DB) TurnRepo {
	return &turnRepo{db: db}
}

func (r *turnRepo) Insert(ctx context.Context, row *models.TurnLog) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *turnRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.TurnLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.TurnLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
