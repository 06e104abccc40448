package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Turn lifecycle stages published for the WebSocket status stream.
const (
	StageTranscribing = "transcribing"
	StageThinking     = "thinking"
	StageEvaluating   = "evaluating"
	StageSpeaking     = "speaking"
	StageDone         = "done"
	StageFailed       = "failed"
)

type StatusPublisher interface {
	Publish(ctx context.Context, userID, stage string)
}

func StatusChannel(userID string) string {
	return "interview:" + userID + ":status"
}

type redisStatusPublisher struct {
	rdb *redis.Client
}

func NewRedisStatusPublisher(rdb *redis.Client) StatusPublisher {
	return &redisStatusPublisher{rdb: rdb}
}

func (p *redisStatusPublisher) Publish(ctx context.Context, userID, stage string) {
	payload, _ := json.Marshal(map[string]any{
		"type":    "status",
		"stage":   stage,
		"ts_unix": time.Now().UTC().Unix(),
	})
	// fire-and-forget; a missed status frame never fails a turn
	_ = p.rdb.Publish(ctx, StatusChannel(userID), string(payload)).Err()
}

type NopStatusPublisher struct{}

func (NopStatusPublisher) Publish(context.Context, string, string) {}
