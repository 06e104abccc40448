package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/miraihq/mirai-interview/internal/cache"
	"github.com/miraihq/mirai-interview/internal/evaluation"
	"github.com/miraihq/mirai-interview/internal/models"
	"github.com/miraihq/mirai-interview/internal/prompts"
	"github.com/miraihq/mirai-interview/internal/providers/llm"
	"github.com/miraihq/mirai-interview/internal/utils"
)

const quizCacheTTL = time.Hour

type QuizService interface {
	GenerateQuiz(ctx context.Context, position string) (*models.Quiz, error)
	RoadmapQuiz(ctx context.Context, title, description string) (*models.RoadmapQuestion, error)
	JobseekerAdvice(ctx context.Context, jobTitle string, skills []string) (string, error)
}

type quizService struct {
	llm   llm.Provider
	cache cache.Cache
	log   *logrus.Logger
}

func NewQuizService(l llm.Provider, c cache.Cache, log *logrus.Logger) QuizService {
	if log == nil {
		log = logrus.New()
	}
	return &quizService{llm: l, cache: c, log: log}
}

func (s *quizService) GenerateQuiz(ctx context.Context, position string) (*models.Quiz, error) {
	const op = "QuizService.GenerateQuiz"

	if position == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "position is required", nil)
	}

	key := "quiz:" + position
	if s.cache != nil {
		var cached models.Quiz
		if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	reply, err := s.llm.Answer(ctx, prompts.QuizPrompt(position))
	if err != nil {
		return nil, utils.E(utils.CodeResponder, op, "quiz generation failed", err)
	}

	var quiz models.Quiz
	if err := decodeModelJSON(reply, &quiz); err != nil {
		return nil, utils.E(utils.CodeResponder, op, "model reply was not valid quiz JSON", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, &quiz, quizCacheTTL); err != nil {
			s.log.WithError(err).WithField("position", position).Warn("failed to cache quiz")
		}
	}
	return &quiz, nil
}

func (s *quizService) RoadmapQuiz(ctx context.Context, title, description string) (*models.RoadmapQuestion, error) {
	const op = "QuizService.RoadmapQuiz"

	if title == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "title is required", nil)
	}

	reply, err := s.llm.Answer(ctx, prompts.RoadmapQuizPrompt(title, description))
	if err != nil {
		return nil, utils.E(utils.CodeResponder, op, "quiz generation failed", err)
	}

	var q models.RoadmapQuestion
	if err := decodeModelJSON(reply, &q); err != nil {
		return nil, utils.E(utils.CodeResponder, op, "model reply was not valid quiz JSON", err)
	}
	return &q, nil
}

func (s *quizService) JobseekerAdvice(ctx context.Context, jobTitle string, skills []string) (string, error) {
	const op = "QuizService.JobseekerAdvice"

	if jobTitle == "" {
		return "", utils.E(utils.CodeInvalidArgument, op, "job_title is required", nil)
	}

	reply, err := s.llm.Answer(ctx, prompts.AdvicePrompt(jobTitle, skills))
	if err != nil {
		return "", utils.E(utils.CodeResponder, op, "advice generation failed", err)
	}
	return reply, nil
}

// decodeModelJSON slices the JSON object out of a model reply and
// decodes it into dst.
func decodeModelJSON(reply string, dst any) error {
	raw, ok := evaluation.ExtractObject(reply)
	if !ok {
		return json.Unmarshal([]byte(reply), dst) // surfaces a decode error
	}
	return json.Unmarshal([]byte(raw), dst)
}
