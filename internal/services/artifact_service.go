package services

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/miraihq/mirai-interview/internal/models"
	"github.com/miraihq/mirai-interview/internal/providers/tts"
	"github.com/miraihq/mirai-interview/internal/repositories/disk"
	"github.com/miraihq/mirai-interview/internal/repositories/memory"
	"github.com/miraihq/mirai-interview/internal/utils"
)

// ArtifactService owns the audio artifact lifecycle: synthesis,
// ownership registration, authorized fetch, and deferred deletion.
type ArtifactService interface {
	// SynthesizeAndRegister renders text to speech, stores it under a
	// fresh id, and adds the id to the session's owned set. The caller
	// must hold the session lock.
	SynthesizeAndRegister(ctx context.Context, sess *models.InterviewSession, text, language string) (*models.AudioArtifact, error)

	// Fetch returns the artifact bytes only if the session currently
	// keyed by userID owns artifactID. Mere existence of the file never
	// authorizes access.
	Fetch(ctx context.Context, userID, artifactID string) ([]byte, error)

	// ScheduleDelete arranges best-effort removal of the artifact after
	// delay. The timer holds no locks while it waits and failures are
	// only logged; the response has long been returned by then.
	ScheduleDelete(artifactID string, delay time.Duration)

	Close()
}

type artifactService struct {
	tts      tts.Provider
	store    *disk.ArtifactStore
	sessions *memory.SessionStore
	log      *logrus.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewArtifactService(t tts.Provider, store *disk.ArtifactStore, sessions *memory.SessionStore, log *logrus.Logger) ArtifactService {
	if log == nil {
		log = logrus.New()
	}
	return &artifactService{
		tts:      t,
		store:    store,
		sessions: sessions,
		log:      log,
		timers:   make(map[string]*time.Timer),
	}
}

func (s *artifactService) SynthesizeAndRegister(ctx context.Context, sess *models.InterviewSession, text, language string) (*models.AudioArtifact, error) {
	const op = "ArtifactService.SynthesizeAndRegister"

	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "text is required", nil)
	}

	audio, err := s.tts.Synthesize(ctx, text, language)
	if err != nil {
		return nil, utils.E(utils.CodeSynthesis, op, "speech synthesis failed", err)
	}

	id := uuid.NewString() + ".mp3"
	path, err := s.store.Save(id, audio)
	if err != nil {
		return nil, utils.E(utils.CodeSynthesis, op, "failed to store audio artifact", err)
	}

	sess.AddArtifact(id)
	return &models.AudioArtifact{
		ID:          id,
		OwnerUserID: sess.UserID,
		Path:        path,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (s *artifactService) Fetch(ctx context.Context, userID, artifactID string) ([]byte, error) {
	const op = "ArtifactService.Fetch"

	sess, ok := s.sessions.Get(userID)
	if !ok {
		return nil, utils.E(utils.CodeForbidden, op, "unauthorized access", nil)
	}

	sess.Lock()
	owns := sess.OwnsArtifact(artifactID)
	sess.Unlock()
	if !owns {
		return nil, utils.E(utils.CodeForbidden, op, "unauthorized access", nil)
	}

	b, err := s.store.Read(artifactID)
	if errors.Is(err, os.ErrNotExist) {
		return nil, utils.E(utils.CodeNotFound, op, "audio file not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to read audio file", err)
	}
	return b, nil
}

func (s *artifactService) ScheduleDelete(artifactID string, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.timers[artifactID]; exists {
		return
	}
	s.timers[artifactID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, artifactID)
		s.mu.Unlock()

		if err := s.store.Remove(artifactID); err != nil {
			s.log.WithError(err).WithField("artifact_id", artifactID).Error("failed to delete audio artifact")
			return
		}
		s.log.WithField("artifact_id", artifactID).Info("deleted audio artifact")
	})
}

func (s *artifactService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
