package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miraihq/mirai-interview/internal/models"
	mongorepo "github.com/miraihq/mirai-interview/internal/repositories/mongo"
	"github.com/miraihq/mirai-interview/internal/utils"
)

type HistoryService interface {
	Archive(ctx context.Context, sess *models.InterviewSession, eval *models.Evaluation) (*models.InterviewRecord, error)
	List(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error)
}

type historyService struct {
	records mongorepo.HistoryRepository
}

func NewHistoryService(records mongorepo.HistoryRepository) HistoryService {
	return &historyService{records: records}
}

func (s *historyService) Archive(ctx context.Context, sess *models.InterviewSession, eval *models.Evaluation) (*models.InterviewRecord, error) {
	const op = "HistoryService.Archive"

	if sess == nil || eval == nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "session and evaluation are required", nil)
	}

	transcript := make([]models.Turn, len(sess.Log))
	copy(transcript, sess.Log)

	rec := &models.InterviewRecord{
		RecordID:      uuid.NewString(),
		UserID:        sess.UserID,
		Position:      sess.Position,
		InterviewType: string(sess.InterviewType),
		Transcript:    transcript,
		Scores:        eval.Scores,
		Critique:      eval.Critique,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.records.Insert(ctx, rec); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to archive interview", err)
	}
	return rec, nil
}

func (s *historyService) List(ctx context.Context, userID string, limit int64) ([]models.InterviewRecord, error) {
	const op = "HistoryService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}

	out, err := s.records.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interview history", err)
	}
	return out, nil
}
