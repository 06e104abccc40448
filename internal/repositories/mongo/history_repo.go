package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/miraihq/mirai-interview/internal/models"
)

type HistoryRepository interface {
	Insert(ctx context.Context, rec *models.InterviewRecord) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error)
}

type historyRepo struct {
	col *mongo.Collection
}

func NewHistoryRepo(db *mongo.Database) HistoryRepository {
	return &historyRepo{col: db.Collection("interview_history")}
}

func (r *historyRepo) Insert(ctx context.Context, rec *models.InterviewRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

func (r *historyRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
