package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/miraihq/mirai-interview/internal/models"
	"github.com/miraihq/mirai-interview/internal/repositories/disk"
	"github.com/miraihq/mirai-interview/internal/repositories/memory"
	"github.com/miraihq/mirai-interview/internal/utils"
)

type fakeSTT struct {
	text  string
	err   error
	calls int
}

func (f *fakeSTT) Transcribe(ctx context.Context, audio []byte, language string) (string, float64, error) {
	f.calls++
	if f.err != nil {
		return "", 0, f.err
	}
	return f.text, 0.9, nil
}

func (f *fakeSTT) Close() error { return nil }

type fakeLLM struct {
	replies []string
	err     error
	calls   int
}

func (f *fakeLLM) Answer(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	if len(f.replies) == 0 {
		return "Baik. Pertanyaan berikutnya?", nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r, nil
}

func (f *fakeLLM) Close() error { return nil }

type fakeTTS struct {
	err error
}

func (f *fakeTTS) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3-bytes"), nil
}

func (f *fakeTTS) Name() string { return "fake" }
func (f *fakeTTS) Close() error { return nil }

const techEvalReply = "Berikut hasilnya: {\"technical_skills\":8,\"pengalaman_proyek\":7,\"pemecahan_masalah\":9,\"evaluasi_teks\":\"Kandidat kuat\"} sekian."

func newTestInterview(t *testing.T, sttp *fakeSTT, llmp *fakeLLM, ttsp *fakeTTS) (InterviewService, *memory.SessionStore, ArtifactService) {
	t.Helper()

	store := memory.NewSessionStore(time.Hour, nil)
	artifactStore, err := disk.NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	artifacts := NewArtifactService(ttsp, artifactStore, store, nil)
	t.Cleanup(artifacts.Close)

	svc := NewInterviewService(InterviewDeps{
		Sessions:  store,
		STT:       sttp,
		LLM:       llmp,
		Artifacts: artifacts,
	})
	return svc, store, artifacts
}

func techTurn(userID string) TurnInput {
	return TurnInput{
		UserID:        userID,
		Position:      "Backend Engineer",
		InterviewType: models.InterviewTypeTech,
		Audio:         []byte("fake-audio"),
	}
}

func TestTechInterviewFullFlow(t *testing.T) {
	llmp := &fakeLLM{replies: []string{"Pertanyaan 1?", "Pertanyaan 2?", "Pertanyaan 3?", techEvalReply}}
	svc, store, _ := newTestInterview(t, &fakeSTT{text: "jawaban saya"}, llmp, &fakeTTS{})
	ctx := context.Background()

	// greeting turn plus two continuations: three questions asked
	for i, wantQ := range []string{"Pertanyaan 1?", "Pertanyaan 2?", "Pertanyaan 3?"} {
		out, err := svc.HandleTurn(ctx, techTurn("u1"))
		if err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
		if out.Result.IsEvaluation() {
			t.Fatalf("turn %d produced an evaluation", i+1)
		}
		if out.Result.Question != wantQ {
			t.Fatalf("turn %d question = %q, want %q", i+1, out.Result.Question, wantQ)
		}
		if out.Artifact == nil {
			t.Fatalf("turn %d has no audio artifact", i+1)
		}

		sess, _ := store.Get("u1")
		if sess.QuestionIndex != i+1 {
			t.Fatalf("turn %d question index = %d, want %d", i+1, sess.QuestionIndex, i+1)
		}
		if sess.Phase != models.PhaseQuestioning {
			t.Fatalf("turn %d phase = %s", i+1, sess.Phase)
		}
		if !sess.OwnsArtifact(out.Artifact.ID) {
			t.Fatalf("turn %d artifact not owned by session", i+1)
		}
	}

	// fourth turn arrives at the question limit: evaluation
	out, err := svc.HandleTurn(ctx, techTurn("u1"))
	if err != nil {
		t.Fatalf("evaluation turn: %v", err)
	}
	if !out.Result.IsEvaluation() {
		t.Fatal("expected an evaluation result")
	}
	if out.Result.Evaluation.Critique != "Kandidat kuat" {
		t.Fatalf("critique = %q", out.Result.Evaluation.Critique)
	}
	if out.Result.Evaluation.Scores["technical_skills"] != 8 {
		t.Fatalf("technical_skills = %d, want 8", out.Result.Evaluation.Scores["technical_skills"])
	}
	if out.Artifact == nil {
		t.Fatal("fresh evaluation should synthesize the critique")
	}

	sess, _ := store.Get("u1")
	if sess.Phase != models.PhaseEvaluated {
		t.Fatalf("phase = %s, want evaluated", sess.Phase)
	}
	if len(sess.Log) != 3 {
		t.Fatalf("log has %d turns, want 3 (evaluation never appends)", len(sess.Log))
	}
	if sess.QuestionIndex != 3 {
		t.Fatalf("question index = %d, want 3", sess.QuestionIndex)
	}
}

func TestEvaluatedSessionReplaysCachedResult(t *testing.T) {
	llmp := &fakeLLM{replies: []string{"P1?", "P2?", "P3?", techEvalReply}}
	svc, store, _ := newTestInterview(t, &fakeSTT{text: "jawaban"}, llmp, &fakeTTS{})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.HandleTurn(ctx, techTurn("u1")); err != nil {
			t.Fatalf("turn %d: %v", i+1, err)
		}
	}
	callsAfterEval := llmp.calls

	out, err := svc.HandleTurn(ctx, techTurn("u1"))
	if err != nil {
		t.Fatalf("replay turn: %v", err)
	}
	if !out.Result.IsEvaluation() {
		t.Fatal("expected the cached evaluation")
	}
	if out.Artifact != nil {
		t.Fatal("cached replay must not synthesize new audio")
	}
	if llmp.calls != callsAfterEval {
		t.Fatalf("replay called the model: %d -> %d", callsAfterEval, llmp.calls)
	}

	sess, _ := store.Get("u1")
	if out.Result.Evaluation != sess.Evaluation {
		t.Fatal("replay returned a different evaluation object")
	}
	if len(sess.Log) != 3 {
		t.Fatalf("replay appended to the log: %d", len(sess.Log))
	}
}

func TestPositionChangeResetsSession(t *testing.T) {
	svc, store, _ := newTestInterview(t, &fakeSTT{text: "jawaban"}, &fakeLLM{}, &fakeTTS{})
	ctx := context.Background()

	if _, err := svc.HandleTurn(ctx, techTurn("u1")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.HandleTurn(ctx, techTurn("u1")); err != nil {
		t.Fatal(err)
	}

	in := techTurn("u1")
	in.Position = "Data Scientist"
	if _, err := svc.HandleTurn(ctx, in); err != nil {
		t.Fatal(err)
	}

	sess, _ := store.Get("u1")
	if sess.Position != "Data Scientist" {
		t.Fatalf("position = %q", sess.Position)
	}
	if sess.QuestionIndex != 1 || len(sess.Log) != 1 {
		t.Fatalf("reset did not restart the interview: idx=%d log=%d", sess.QuestionIndex, len(sess.Log))
	}
}

func TestTranscriptionFailureLeavesStoreUntouched(t *testing.T) {
	svc, store, _ := newTestInterview(t, &fakeSTT{err: errors.New("stt down")}, &fakeLLM{}, &fakeTTS{})

	_, err := svc.HandleTurn(context.Background(), techTurn("u1"))
	if !utils.IsCode(err, utils.CodeTranscription) {
		t.Fatalf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatal("failed transcription created a session")
	}
}

func TestResponderFailureRollsBack(t *testing.T) {
	llmp := &fakeLLM{replies: []string{"P1?"}}
	svc, store, _ := newTestInterview(t, &fakeSTT{text: "jawaban"}, llmp, &fakeTTS{})
	ctx := context.Background()

	if _, err := svc.HandleTurn(ctx, techTurn("u1")); err != nil {
		t.Fatal(err)
	}

	llmp.err = errors.New("model down")
	_, err := svc.HandleTurn(ctx, techTurn("u1"))
	if !utils.IsCode(err, utils.CodeResponder) {
		t.Fatalf("expected RESPONDER_FAILED, got %v", err)
	}

	sess, _ := store.Get("u1")
	if sess.QuestionIndex != 1 || len(sess.Log) != 1 || sess.Phase != models.PhaseQuestioning {
		t.Fatalf("failed turn mutated session: idx=%d log=%d phase=%s", sess.QuestionIndex, len(sess.Log), sess.Phase)
	}
}

func TestSynthesisFailureRollsBack(t *testing.T) {
	ttsp := &fakeTTS{}
	svc, store, _ := newTestInterview(t, &fakeSTT{text: "jawaban"}, &fakeLLM{}, ttsp)
	ctx := context.Background()

	if _, err := svc.HandleTurn(ctx, techTurn("u1")); err != nil {
		t.Fatal(err)
	}

	ttsp.err = errors.New("tts down")
	_, err := svc.HandleTurn(ctx, techTurn("u1"))
	if !utils.IsCode(err, utils.CodeSynthesis) {
		t.Fatalf("expected SYNTHESIS_FAILED, got %v", err)
	}

	sess, _ := store.Get("u1")
	if sess.QuestionIndex != 1 || len(sess.Log) != 1 {
		t.Fatalf("failed synthesis mutated session: idx=%d log=%d", sess.QuestionIndex, len(sess.Log))
	}
}

func TestMalformedEvaluationKeepsSessionRetryable(t *testing.T) {
	llmp := &fakeLLM{replies: []string{"P1?", "P2?", "P3?", "maaf, tidak bisa menilai"}}
	svc, store, _ := newTestInterview(t, &fakeSTT{text: "jawaban"}, llmp, &fakeTTS{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.HandleTurn(ctx, techTurn("u1")); err != nil {
			t.Fatal(err)
		}
	}

	_, err := svc.HandleTurn(ctx, techTurn("u1"))
	if !utils.IsCode(err, utils.CodeMalformedEvaluation) {
		t.Fatalf("expected MALFORMED_EVALUATION, got %v", err)
	}

	sess, _ := store.Get("u1")
	if sess.Phase != models.PhaseQuestioning || sess.QuestionIndex != 3 {
		t.Fatalf("malformed evaluation mutated session: phase=%s idx=%d", sess.Phase, sess.QuestionIndex)
	}

	// the next turn retries the evaluation and succeeds
	llmp.replies = []string{techEvalReply}
	out, err := svc.HandleTurn(ctx, techTurn("u1"))
	if err != nil {
		t.Fatalf("retry turn: %v", err)
	}
	if !out.Result.IsEvaluation() {
		t.Fatal("retry did not produce an evaluation")
	}
}

func TestRejectsInvalidInput(t *testing.T) {
	svc, _, _ := newTestInterview(t, &fakeSTT{text: "x"}, &fakeLLM{}, &fakeTTS{})
	ctx := context.Background()

	cases := []struct {
		name string
		in   TurnInput
	}{
		{"missing user", TurnInput{Position: "QA", InterviewType: models.InterviewTypeHR, Audio: []byte("a")}},
		{"missing position", TurnInput{UserID: "u", InterviewType: models.InterviewTypeHR, Audio: []byte("a")}},
		{"bad type", TurnInput{UserID: "u", Position: "QA", InterviewType: "managerial", Audio: []byte("a")}},
		{"no audio", TurnInput{UserID: "u", Position: "QA", InterviewType: models.InterviewTypeHR}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.HandleTurn(ctx, tc.in)
			if !utils.IsCode(err, utils.CodeInvalidArgument) {
				t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
}
