// Package memory holds the in-process session registry. Sessions are
// deliberately not persisted; a restart starts everyone fresh.
package memory

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/miraihq/mirai-interview/internal/models"
)

// DefaultExpiry is how long a session may sit idle before the sweep
// removes it.
const DefaultExpiry = time.Hour

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.InterviewSession
	expiry   time.Duration
	log      *logrus.Logger
}

func NewSessionStore(expiry time.Duration, log *logrus.Logger) *SessionStore {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if log == nil {
		log = logrus.New()
	}
	return &SessionStore{
		sessions: make(map[string]*models.InterviewSession),
		expiry:   expiry,
		log:      log,
	}
}

// GetOrCreate returns the session for userID, creating one in the
// greeting phase if absent. The second result reports whether a new
// session was created.
func (s *SessionStore) GetOrCreate(userID, position string, typ models.InterviewType, now time.Time) (*models.InterviewSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess, false
	}

	sess := models.NewInterviewSession(userID, position, typ, now)
	s.sessions[userID] = sess
	s.log.WithField("user_id", userID).Info("created new interview session")
	return sess, true
}

// Get returns the live session for userID without creating one.
func (s *SessionStore) Get(userID string) (*models.InterviewSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

// Sweep removes every session idle longer than the expiry and returns
// how many were removed. Nothing else deletes sessions.
func (s *SessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for userID, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.expiry {
			delete(s.sessions, userID)
			removed++
			s.log.WithField("user_id", userID).Info("session expired and was removed")
		}
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
