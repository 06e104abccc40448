// Package evaluation extracts the structured interview evaluation from
// a free-form model reply.
package evaluation

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/miraihq/mirai-interview/internal/models"
	"github.com/miraihq/mirai-interview/internal/prompts"
	"github.com/miraihq/mirai-interview/internal/utils"
)

// ExtractObject slices the first '{' through the last '}' out of text.
// Model replies routinely wrap the JSON object in prose or code fences.
func ExtractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Parse pulls the evaluation object out of raw model text. The required
// keys depend on the interview type: every criterion must carry an
// integer score and the critique field must be present. On any failure
// the caller keeps the session at its last committed turn so the
// evaluation can be retried; scores are never fabricated.
func Parse(typ models.InterviewType, text string) (*models.Evaluation, error) {
	const op = "evaluation.Parse"

	raw, ok := ExtractObject(text)
	if !ok {
		return nil, utils.E(utils.CodeMalformedEvaluation, op, "no JSON object in model reply", nil)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, utils.E(utils.CodeMalformedEvaluation, op, "model reply is not valid JSON", err)
	}

	scores := make(map[string]int, len(prompts.Criteria(typ)))
	for _, criterion := range prompts.Criteria(typ) {
		v, ok := fields[criterion]
		if !ok {
			return nil, utils.E(utils.CodeMalformedEvaluation, op, "missing criterion "+criterion, nil)
		}
		n, ok := v.(float64)
		if !ok {
			return nil, utils.E(utils.CodeMalformedEvaluation, op, "criterion "+criterion+" is not a number", nil)
		}
		if n != math.Trunc(n) {
			return nil, utils.E(utils.CodeMalformedEvaluation, op, "criterion "+criterion+" is not an integer", nil)
		}
		scores[criterion] = int(n)
	}

	critique, ok := fields[prompts.CritiqueKey].(string)
	if !ok {
		return nil, utils.E(utils.CodeMalformedEvaluation, op, "missing "+prompts.CritiqueKey, nil)
	}

	return &models.Evaluation{Scores: scores, Critique: critique}, nil
}
