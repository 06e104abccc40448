package prompts

import (
	"strings"
	"testing"

	"github.com/miraihq/mirai-interview/internal/models"
)

func TestCriteria(t *testing.T) {
	hr := Criteria(models.InterviewTypeHR)
	if len(hr) != 5 {
		t.Fatalf("hr criteria = %d, want 5", len(hr))
	}
	tech := Criteria(models.InterviewTypeTech)
	if len(tech) != 3 {
		t.Fatalf("tech criteria = %d, want 3", len(tech))
	}
	for _, k := range tech {
		found := false
		for _, h := range hr {
			if h == k {
				found = true
			}
		}
		if !found {
			t.Errorf("tech criterion %q not part of hr set", k)
		}
	}
}

func TestRenderTranscript(t *testing.T) {
	log := []models.Turn{
		{Candidate: "Halo", Interviewer: "Selamat datang"},
		{Candidate: "Siap", Interviewer: "Ceritakan pengalaman anda"},
	}

	got := RenderTranscript(log, "Saya pernah membangun API")
	want := "Kandidat: Halo\nHR: Selamat datang\nKandidat: Siap\nHR: Ceritakan pengalaman anda\nKandidat: Saya pernah membangun API"
	if got != want {
		t.Fatalf("RenderTranscript =\n%q\nwant\n%q", got, want)
	}

	if got := RenderTranscript(nil, ""); got != "" {
		t.Fatalf("empty transcript = %q, want empty", got)
	}
}

func TestOpeningMentionsPosition(t *testing.T) {
	p := Opening(models.InterviewTypeTech, "Backend Engineer", "")
	if !strings.Contains(p, "Backend Engineer") {
		t.Error("opening prompt does not mention the position")
	}
	if !strings.Contains(p, "satu pertanyaan") {
		t.Error("opening prompt does not constrain to one question")
	}
}

func TestContinuationIncludesTranscriptAndContext(t *testing.T) {
	log := []models.Turn{{Candidate: "Halo", Interviewer: "Selamat datang"}}

	p := Continuation(models.InterviewTypeHR, "Data Analyst", log, "Saya suka data", "- SQL: penting")
	for _, want := range []string{"Kandidat: Halo", "Kandidat: Saya suka data", "Referensi materi wawancara", "- SQL: penting"} {
		if !strings.Contains(p, want) {
			t.Errorf("continuation prompt missing %q", want)
		}
	}

	// without rag context the reference block must not appear
	p = Continuation(models.InterviewTypeHR, "Data Analyst", log, "Saya suka data", "")
	if strings.Contains(p, "Referensi materi wawancara") {
		t.Error("continuation prompt has reference block without context")
	}
}

func TestEvaluationEnumeratesCriteria(t *testing.T) {
	p := Evaluation(models.InterviewTypeHR, "Product Manager", nil, "jawaban terakhir")
	for _, k := range Criteria(models.InterviewTypeHR) {
		if !strings.Contains(p, `"`+k+`"`) {
			t.Errorf("evaluation prompt missing criterion %q", k)
		}
	}
	if !strings.Contains(p, `"`+CritiqueKey+`"`) {
		t.Errorf("evaluation prompt missing %q", CritiqueKey)
	}
	if !strings.Contains(p, "Kandidat: jawaban terakhir") {
		t.Error("evaluation prompt missing pending candidate line")
	}
}
