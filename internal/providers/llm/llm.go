package llm

import "context"

type Provider interface {
	// Answer returns the model's full reply for one prompt.
	Answer(ctx context.Context, prompt string) (string, error)
	Close() error
}
