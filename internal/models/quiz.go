package models

// Quiz is the 10-question technical quiz generated per position.
type Quiz struct {
	Quiz []QuizQuestion `json:"quiz"`
}

type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// RoadmapQuestion is a single multiple-choice question generated from a
// roadmap topic. Answer is the index into Choices.
type RoadmapQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   int      `json:"answer"`
}
