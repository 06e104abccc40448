// Package prompts builds every model prompt used by the interview
// pipeline. Builders are pure: same inputs, same prompt.
package prompts

import (
	"fmt"
	"strings"

	"github.com/miraihq/mirai-interview/internal/models"
)

// CritiqueKey is the free-text field the evaluation JSON must carry in
// addition to the per-criterion scores.
const CritiqueKey = "evaluasi_teks"

var hrCriteria = []string{
	"motivasi",
	"technical_skills",
	"pengalaman_proyek",
	"pemecahan_masalah",
	"kecocokan_budaya",
}

var techCriteria = []string{
	"technical_skills",
	"pengalaman_proyek",
	"pemecahan_masalah",
}

// Criteria returns the scored criteria keys for an interview type:
// five for hr, three for tech.
func Criteria(typ models.InterviewType) []string {
	if typ == models.InterviewTypeTech {
		return techCriteria
	}
	return hrCriteria
}

// RenderTranscript renders the conversation as alternating
// "Kandidat:"/"HR:" lines, with the not-yet-committed candidate
// utterance appended last.
func RenderTranscript(log []models.Turn, pending string) string {
	var b strings.Builder
	for _, t := range log {
		b.WriteString("Kandidat: " + t.Candidate + "\n")
		b.WriteString("HR: " + t.Interviewer + "\n")
	}
	if pending != "" {
		b.WriteString("Kandidat: " + pending)
	}
	return strings.TrimRight(b.String(), "\n")
}

func persona(typ models.InterviewType, position string) string {
	if typ == models.InterviewTypeTech {
		return fmt.Sprintf("Nama anda adalah Mirai, seorang interviewer teknikal senior yang sedang melakukan wawancara teknis untuk posisi %s. Fokus pada pertanyaan teknis yang mendalam dan spesifik untuk posisi tersebut.", position)
	}
	return fmt.Sprintf("Nama anda adalah Mirai, seorang profesional HR yang berpengalaman dan sedang melakukan wawancara untuk posisi %s.", position)
}

func withContext(prompt, ragContext string) string {
	if ragContext == "" {
		return prompt
	}
	return prompt + "\n\nReferensi materi wawancara:\n" + ragContext
}

// Opening instructs the model to greet the candidate and ask one
// opening question scoped to the position.
func Opening(typ models.InterviewType, position, ragContext string) string {
	p := fmt.Sprintf(`%s

TOLONG SELALU GUNAKAN BAHASA INDONESIA.

Berikan sambutan singkat dan ajukan satu pertanyaan pembuka yang relevan untuk posisi %s. Ajukan hanya satu pertanyaan.`, persona(typ, position), position)
	return withContext(p, ragContext)
}

// Continuation supplies the full transcript and asks for a brief
// response to the latest candidate line plus exactly one next question.
func Continuation(typ models.InterviewType, position string, log []models.Turn, candidate, ragContext string) string {
	var guidance string
	if typ == models.InterviewTypeTech {
		guidance = fmt.Sprintf("Ajukan satu pertanyaan teknis berikutnya yang menggali lebih dalam kemampuan teknis kandidat untuk posisi %s.", position)
	} else {
		guidance = fmt.Sprintf(`Pastikan untuk mencakup pertanyaan tentang:
- Motivasi kandidat
- Technical skills yang relevan dengan posisi %[1]s
- Pengalaman proyek yang relevan dengan posisi %[1]s
- Kemampuan pemecahan masalah
- Kecocokan budaya kerja
Satu topik per pertanyaan, bergiliran.`, position)
	}

	p := fmt.Sprintf(`%s

TOLONG SELALU GUNAKAN BAHASA INDONESIA.

Konteks percakapan:
%s

Berikan respons singkat dan relevan terhadap jawaban terakhir kandidat, lalu ajukan tepat satu pertanyaan berikutnya. %s
Pertahankan nada profesional sepanjang wawancara.`, persona(typ, position), RenderTranscript(log, candidate), guidance)
	return withContext(p, ragContext)
}

// Evaluation supplies the full transcript and a strict output-format
// instruction: one JSON object with a 1-10 score per criterion plus
// the critique field.
func Evaluation(typ models.InterviewType, position string, log []models.Turn, candidate string) string {
	criteria := Criteria(typ)
	var keys strings.Builder
	for i, c := range criteria {
		if i > 0 {
			keys.WriteString(", ")
		}
		keys.WriteString(`"` + c + `"`)
	}

	return fmt.Sprintf(`%s

TOLONG SELALU GUNAKAN BAHASA INDONESIA.

Konteks percakapan:
%s

Wawancara telah selesai. Berikan evaluasi yang sejujur-jujurnya mengenai jawaban kandidat, apakah sudah sesuai dengan STAR method, dan apakah kandidat sesuai dengan posisi %s.

Jawab HANYA dengan satu objek JSON dengan key berikut: %s (skor 1-10, angka bulat) dan "%s" (evaluasi dalam bentuk teks). Jangan tambahkan teks lain di luar objek JSON.`,
		persona(typ, position), RenderTranscript(log, candidate), position, keys.String(), CritiqueKey)
}

// QuizPrompt asks for a 10-question technical quiz for a position.
func QuizPrompt(position string) string {
	return fmt.Sprintf(`Anda adalah seorang profesional di bidang %[1]s yang sedang merancang 10 pertanyaan quiz teknikal untuk posisi %[1]s.
Pertanyaan-pertanyaan ini harus relevan dengan keterampilan teknis yang dibutuhkan untuk posisi ini, mencakup berbagai aspek teknis terkait.

Format hasil yang diinginkan adalah JSON dengan struktur berikut:

{
  "quiz": [
    {
      "question": "Pertanyaan 1",
      "options": ["Opsi A", "Opsi B", "Opsi C", "Opsi D"],
      "answer": "Jawaban yang benar"
    }
  ]
}

Harap buat 10 pertanyaan dengan format yang disebutkan di atas.`, position)
}

// RoadmapQuizPrompt asks for one multiple-choice question on a topic.
func RoadmapQuizPrompt(title, description string) string {
	if description == "" {
		description = "Deskripsi tidak tersedia"
	}
	return fmt.Sprintf(`TOLONG SELALU JAWAB DENGAN BAHASA INDONESIA

You are a domain expert creating a quiz for the topic "%s".
Description: %s

Tolong buat 1 pertanyaan yang relevan dengan description tersebut. Include 4 multiple-choice options tanpa keterangan A B C D and indicate the correct answer index.

Format the output in JSON with the following structure:
{
  "question": "Your generated question",
  "choices": ["Option 1", "Option 2", "Option 3", "Option 4"],
  "answer": CorrectAnswerIndex
}`, title, description)
}

// AdvicePrompt asks for short job-seeking advice given trending skills.
func AdvicePrompt(jobTitle string, skills []string) string {
	return fmt.Sprintf(`TOLONG SELALU JAWAB DENGAN BAHASA INDONESIA.

Anda adalah seorang penasihat karir advance yang membantu pencari kerja yang ingin menjadi seorang %[1]s handal.
Berdasarkan tren industri saat ini, keterampilan utama yang dibutuhkan untuk posisi ini adalah: %[2]s.

Mohon berikan advice/saran untuk mendapatkan pekerjaan impian nya sesuai dengan job %[1]s

Buat dalam 2 kalimat saja`, jobTitle, strings.Join(skills, ", "))
}
