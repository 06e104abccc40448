package models

import (
	"sync"
	"time"
)

type InterviewType string

const (
	InterviewTypeHR   InterviewType = "hr"
	InterviewTypeTech InterviewType = "tech"
)

func ParseInterviewType(s string) (InterviewType, bool) {
	switch InterviewType(s) {
	case InterviewTypeHR:
		return InterviewTypeHR, true
	case InterviewTypeTech:
		return InterviewTypeTech, true
	default:
		return "", false
	}
}

// QuestionLimit is the number of questions asked before the interviewer
// switches to the evaluation.
func (t InterviewType) QuestionLimit() int {
	if t == InterviewTypeTech {
		return 3
	}
	return 5
}

type Phase string

const (
	PhaseGreeting    Phase = "greeting"
	PhaseQuestioning Phase = "questioning"
	PhaseEvaluated   Phase = "evaluated"
)

// Turn is one candidate-utterance / interviewer-reply exchange.
type Turn struct {
	Candidate   string `bson:"candidate" json:"candidate"`
	Interviewer string `bson:"interviewer" json:"interviewer"`
}

// Evaluation is the structured result produced once the question limit
// is reached. Scores are 1-10 per criterion.
type Evaluation struct {
	Scores   map[string]int `bson:"scores" json:"scores"`
	Critique string         `bson:"critique" json:"critique"`
}

// InterviewSession is the per-user interview state. It lives only in
// process memory; the store's sweep is the sole thing that deletes it.
type InterviewSession struct {
	UserID        string
	Position      string
	InterviewType InterviewType

	Log           []Turn
	QuestionIndex int
	Phase         Phase
	Evaluation    *Evaluation

	OwnedArtifacts map[string]struct{}

	mu sync.Mutex

	// lastActivity has its own guard: the sweep reads it holding only
	// the store lock while an in-flight turn writes it holding only the
	// session lock.
	lastMu       sync.Mutex
	lastActivity time.Time
}

func NewInterviewSession(userID, position string, typ InterviewType, now time.Time) *InterviewSession {
	return &InterviewSession{
		UserID:         userID,
		Position:       position,
		InterviewType:  typ,
		Phase:          PhaseGreeting,
		lastActivity:   now,
		OwnedArtifacts: make(map[string]struct{}),
	}
}

// Lock serializes turns for one user. Concurrent turns for different
// users never contend.
func (s *InterviewSession) Lock()   { s.mu.Lock() }
func (s *InterviewSession) Unlock() { s.mu.Unlock() }

// Reset clears the interview progress in place. Owned artifacts keep
// their own deletion timers and are not touched here.
func (s *InterviewSession) Reset(position string, typ InterviewType) {
	s.Position = position
	s.InterviewType = typ
	s.Log = nil
	s.QuestionIndex = 0
	s.Phase = PhaseGreeting
	s.Evaluation = nil
}

func (s *InterviewSession) Touch(now time.Time) {
	s.lastMu.Lock()
	s.lastActivity = now
	s.lastMu.Unlock()
}

// LastSeen is safe to call without the session lock.
func (s *InterviewSession) LastSeen() time.Time {
	s.lastMu.Lock()
	defer s.lastMu.Unlock()
	return s.lastActivity
}

func (s *InterviewSession) AddArtifact(id string) {
	if s.OwnedArtifacts == nil {
		s.OwnedArtifacts = make(map[string]struct{})
	}
	s.OwnedArtifacts[id] = struct{}{}
}

func (s *InterviewSession) OwnsArtifact(id string) bool {
	_, ok := s.OwnedArtifacts[id]
	return ok
}

// SessionSnapshot captures the mutable interview progress so a failed
// turn can be rolled back to its pre-call state.
type SessionSnapshot struct {
	Position      string
	InterviewType InterviewType
	Log           []Turn
	QuestionIndex int
	Phase         Phase
	Evaluation    *Evaluation
	LastActivity  time.Time
}

func (s *InterviewSession) Snapshot() SessionSnapshot {
	logCopy := make([]Turn, len(s.Log))
	copy(logCopy, s.Log)
	return SessionSnapshot{
		Position:      s.Position,
		InterviewType: s.InterviewType,
		Log:           logCopy,
		QuestionIndex: s.QuestionIndex,
		Phase:         s.Phase,
		Evaluation:    s.Evaluation,
		LastActivity:  s.LastSeen(),
	}
}

func (s *InterviewSession) Restore(snap SessionSnapshot) {
	s.Position = snap.Position
	s.InterviewType = snap.InterviewType
	s.Log = snap.Log
	s.QuestionIndex = snap.QuestionIndex
	s.Phase = snap.Phase
	s.Evaluation = snap.Evaluation
	s.Touch(snap.LastActivity)
}

// TurnResult is the interviewer's reply for one turn: either the next
// question or the final evaluation, never both.
type TurnResult struct {
	Question   string      `json:"question,omitempty"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

func (r TurnResult) IsEvaluation() bool { return r.Evaluation != nil }
