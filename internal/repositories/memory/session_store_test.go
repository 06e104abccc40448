package memory

import (
	"testing"
	"time"

	"github.com/miraihq/mirai-interview/internal/models"
)

func TestGetOrCreate(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	now := time.Now()

	sess, created := store.GetOrCreate("u1", "Backend Engineer", models.InterviewTypeTech, now)
	if !created {
		t.Fatal("expected a new session")
	}
	if sess.Phase != models.PhaseGreeting {
		t.Fatalf("phase = %s, want greeting", sess.Phase)
	}
	if sess.QuestionIndex != 0 {
		t.Fatalf("question index = %d, want 0", sess.QuestionIndex)
	}

	again, created := store.GetOrCreate("u1", "Backend Engineer", models.InterviewTypeTech, now)
	if created {
		t.Fatal("expected existing session")
	}
	if again != sess {
		t.Fatal("expected the same session pointer")
	}
	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1", store.Len())
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	start := time.Now()

	store.GetOrCreate("stale", "QA", models.InterviewTypeHR, start)
	fresh, _ := store.GetOrCreate("fresh", "QA", models.InterviewTypeHR, start)

	// exactly at the boundary nothing expires
	if n := store.Sweep(start.Add(time.Hour)); n != 0 {
		t.Fatalf("sweep at boundary removed %d, want 0", n)
	}

	fresh.Touch(start.Add(30 * time.Minute))

	if n := store.Sweep(start.Add(time.Hour + time.Second)); n != 1 {
		t.Fatalf("sweep removed %d, want 1", n)
	}
	if _, ok := store.Get("stale"); ok {
		t.Fatal("stale session survived the sweep")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatal("fresh session was removed")
	}
}

func TestSweepConcurrentWithTouch(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	start := time.Now()

	sess, _ := store.GetOrCreate("u1", "QA", models.InterviewTypeHR, start)

	// a turn refreshing activity while sweeps run, as the janitor and
	// other users' turns do against an in-flight HandleTurn
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			sess.Lock()
			sess.Touch(start.Add(time.Duration(i) * time.Second))
			sess.Unlock()
		}
	}()

	for i := 0; i < 1000; i++ {
		store.Sweep(start.Add(time.Duration(i) * time.Second))
	}
	<-done

	if _, ok := store.Get("u1"); !ok {
		t.Fatal("active session was swept")
	}
}

func TestSnapshotRestore(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	now := time.Now()

	sess, _ := store.GetOrCreate("u1", "Backend Engineer", models.InterviewTypeTech, now)
	sess.Log = append(sess.Log, models.Turn{Candidate: "a", Interviewer: "b"})
	sess.Phase = models.PhaseQuestioning
	sess.QuestionIndex = 1

	snap := sess.Snapshot()

	sess.Log = append(sess.Log, models.Turn{Candidate: "c", Interviewer: "d"})
	sess.QuestionIndex = 2
	sess.Phase = models.PhaseEvaluated
	sess.Evaluation = &models.Evaluation{Critique: "x"}

	sess.Restore(snap)

	if len(sess.Log) != 1 || sess.QuestionIndex != 1 || sess.Phase != models.PhaseQuestioning {
		t.Fatalf("restore did not roll back: log=%d idx=%d phase=%s", len(sess.Log), sess.QuestionIndex, sess.Phase)
	}
	if sess.Evaluation != nil {
		t.Fatal("restore kept the evaluation")
	}
}
