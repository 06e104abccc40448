package services

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/miraihq/mirai-interview/internal/evaluation"
	"github.com/miraihq/mirai-interview/internal/models"
	"github.com/miraihq/mirai-interview/internal/prompts"
	"github.com/miraihq/mirai-interview/internal/providers/llm"
	"github.com/miraihq/mirai-interview/internal/providers/stt"
	"github.com/miraihq/mirai-interview/internal/repositories/memory"
	pgrepo "github.com/miraihq/mirai-interview/internal/repositories/postgres"
	"github.com/miraihq/mirai-interview/internal/storage"
	"github.com/miraihq/mirai-interview/internal/utils"
)

const DefaultArtifactDeleteDelay = 5 * time.Minute

type TurnInput struct {
	UserID        string
	Position      string
	InterviewType models.InterviewType
	Audio         []byte
	Language      string
}

type TurnOutput struct {
	Transcript string
	Result     models.TurnResult
	// Artifact is nil when the reply is a cached evaluation; nothing
	// new is synthesized then.
	Artifact *models.AudioArtifact
}

type InterviewService interface {
	HandleTurn(ctx context.Context, in TurnInput) (*TurnOutput, error)
}

// InterviewDeps wires the orchestrator. Sessions, STT, LLM, and
// Artifacts are required; the rest degrade to no-ops when nil.
type InterviewDeps struct {
	Sessions  *memory.SessionStore
	STT       stt.Provider
	LLM       llm.Provider
	Artifacts ArtifactService

	Retriever   Retriever        // optional prompt context
	Status      StatusPublisher  // optional turn status stream
	Turns       pgrepo.TurnRepo  // optional per-turn archive
	History     HistoryService   // optional finished-interview archive
	Transcripts storage.Uploader // optional transcript export
	Logger      *logrus.Logger

	DeleteDelay time.Duration
	Language    string
}

type interviewService struct {
	InterviewDeps

	now func() time.Time
}

func NewInterviewService(d InterviewDeps) InterviewService {
	if d.Status == nil {
		d.Status = NopStatusPublisher{}
	}
	if d.Logger == nil {
		d.Logger = logrus.New()
	}
	if d.DeleteDelay <= 0 {
		d.DeleteDelay = DefaultArtifactDeleteDelay
	}
	if d.Language == "" {
		d.Language = "id-ID"
	}
	return &interviewService{InterviewDeps: d, now: time.Now}
}

func (s *interviewService) HandleTurn(ctx context.Context, in TurnInput) (*TurnOutput, error) {
	const op = "InterviewService.HandleTurn"

	if in.UserID == "" || in.Position == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and position are required", nil)
	}
	if _, ok := models.ParseInterviewType(string(in.InterviewType)); !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "interview_type must be 'hr' or 'tech'", nil)
	}
	if len(in.Audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no audio provided", nil)
	}

	now := s.now()
	s.Sessions.Sweep(now)

	// Transcription happens before any session is touched, so a failure
	// here leaves the registry exactly as it was.
	s.Status.Publish(ctx, in.UserID, StageTranscribing)
	transcript, _, err := s.STT.Transcribe(ctx, in.Audio, in.Language)
	if err != nil {
		s.Status.Publish(ctx, in.UserID, StageFailed)
		return nil, utils.E(utils.CodeTranscription, op, "transcription failed", err)
	}
	if transcript == "" {
		s.Status.Publish(ctx, in.UserID, StageFailed)
		return nil, utils.E(utils.CodeTranscription, op, "empty transcription", nil)
	}

	sess, created := s.Sessions.GetOrCreate(in.UserID, in.Position, in.InterviewType, now)
	sess.Lock()
	defer sess.Unlock()

	snap := sess.Snapshot()

	// Switching the target role or interview mode invalidates the
	// accumulated context.
	if !created && (sess.Position != in.Position || sess.InterviewType != in.InterviewType) {
		s.Logger.WithFields(logrus.Fields{
			"user_id":  in.UserID,
			"position": in.Position,
			"type":     in.InterviewType,
		}).Info("position or interview type changed, resetting session")
		sess.Reset(in.Position, in.InterviewType)
	}

	out, err := s.advance(ctx, sess, transcript, in.Language, now)
	if err != nil {
		sess.Restore(snap)
		s.Status.Publish(ctx, in.UserID, StageFailed)
		return nil, err
	}

	s.Status.Publish(ctx, in.UserID, StageDone)
	return out, nil
}

// advance runs the state machine for one committed candidate
// utterance. On error the caller restores the pre-call snapshot.
func (s *interviewService) advance(ctx context.Context, sess *models.InterviewSession, transcript, language string, now time.Time) (*TurnOutput, error) {
	const op = "InterviewService.HandleTurn"

	// Terminal absorbing state: repeated turns replay the cached
	// evaluation with no model call, no log append, no synthesis.
	if sess.Phase == models.PhaseEvaluated {
		sess.Touch(now)
		return &TurnOutput{
			Transcript: transcript,
			Result:     models.TurnResult{Evaluation: sess.Evaluation},
		}, nil
	}

	limit := sess.InterviewType.QuestionLimit()

	if sess.Phase == models.PhaseQuestioning && sess.QuestionIndex >= limit {
		return s.evaluate(ctx, sess, transcript, language, now)
	}

	// Opening or continuation question.
	var prompt string
	ragContext := s.contextFor(ctx, sess.Position)
	if sess.Phase == models.PhaseGreeting {
		prompt = prompts.Opening(sess.InterviewType, sess.Position, ragContext)
	} else {
		prompt = prompts.Continuation(sess.InterviewType, sess.Position, sess.Log, transcript, ragContext)
	}

	s.Status.Publish(ctx, sess.UserID, StageThinking)
	reply, err := s.LLM.Answer(ctx, prompt)
	if err != nil {
		return nil, utils.E(utils.CodeResponder, op, "interviewer reply failed", err)
	}

	s.Status.Publish(ctx, sess.UserID, StageSpeaking)
	artifact, err := s.Artifacts.SynthesizeAndRegister(ctx, sess, reply, language)
	if err != nil {
		return nil, err
	}
	s.Artifacts.ScheduleDelete(artifact.ID, s.DeleteDelay)

	sess.Log = append(sess.Log, models.Turn{Candidate: transcript, Interviewer: reply})
	if sess.Phase == models.PhaseGreeting {
		sess.Phase = models.PhaseQuestioning
		sess.QuestionIndex = 1
	} else {
		sess.QuestionIndex++
	}
	sess.Touch(now)

	s.archiveTurn(ctx, sess, transcript, reply)

	return &TurnOutput{
		Transcript: transcript,
		Result:     models.TurnResult{Question: reply},
		Artifact:   artifact,
	}, nil
}

func (s *interviewService) evaluate(ctx context.Context, sess *models.InterviewSession, transcript, language string, now time.Time) (*TurnOutput, error) {
	const op = "InterviewService.HandleTurn"

	s.Status.Publish(ctx, sess.UserID, StageEvaluating)
	reply, err := s.LLM.Answer(ctx, prompts.Evaluation(sess.InterviewType, sess.Position, sess.Log, transcript))
	if err != nil {
		return nil, utils.E(utils.CodeResponder, op, "evaluation reply failed", err)
	}

	eval, err := evaluation.Parse(sess.InterviewType, reply)
	if err != nil {
		// Session stays in questioning at its last committed turn so a
		// repeated call can retry the evaluation.
		return nil, err
	}

	s.Status.Publish(ctx, sess.UserID, StageSpeaking)
	artifact, err := s.Artifacts.SynthesizeAndRegister(ctx, sess, eval.Critique, language)
	if err != nil {
		return nil, err
	}
	s.Artifacts.ScheduleDelete(artifact.ID, s.DeleteDelay)

	sess.Phase = models.PhaseEvaluated
	sess.Evaluation = eval
	sess.Touch(now)

	s.archiveEvaluation(ctx, sess, eval)

	return &TurnOutput{
		Transcript: transcript,
		Result:     models.TurnResult{Evaluation: eval},
		Artifact:   artifact,
	}, nil
}

func (s *interviewService) contextFor(ctx context.Context, position string) string {
	if s.Retriever == nil {
		return ""
	}
	return s.Retriever.ContextFor(ctx, position)
}

// archiveTurn writes the committed turn to the durable archive,
// best-effort.
func (s *interviewService) archiveTurn(ctx context.Context, sess *models.InterviewSession, candidate, interviewer string) {
	if s.Turns == nil {
		return
	}

	md, _ := json.Marshal(map[string]string{"phase": string(sess.Phase)})
	row := &models.TurnLog{
		ID:            uuid.NewString(),
		UserID:        sess.UserID,
		Position:      sess.Position,
		InterviewType: string(sess.InterviewType),
		QuestionIndex: sess.QuestionIndex,
		Candidate:     candidate,
		Interviewer:   interviewer,
		Metadata:      md,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Turns.Insert(ctx, row); err != nil {
		s.Logger.WithError(err).WithField("user_id", sess.UserID).Warn("failed to archive turn")
	}
}

// archiveEvaluation records the finished interview and, when a bucket
// is configured, exports the transcript JSON. Both are best-effort.
func (s *interviewService) archiveEvaluation(ctx context.Context, sess *models.InterviewSession, eval *models.Evaluation) {
	if s.History == nil {
		return
	}

	rec, err := s.History.Archive(ctx, sess, eval)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", sess.UserID).Warn("failed to archive interview")
		return
	}

	if s.Transcripts == nil {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return
	}
	object := "transcripts/" + sess.UserID + "/" + rec.RecordID + ".json"
	if _, err := s.Transcripts.Upload(ctx, object, "application/json", bytes.NewReader(b)); err != nil {
		s.Logger.WithError(err).WithField("user_id", sess.UserID).Warn("failed to export transcript")
	}
}
