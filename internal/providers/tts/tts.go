package tts

import "context"

type Provider interface {
	// Synthesize renders text to playable audio bytes (MP3).
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
	// Name identifies the backing service, surfaced on /config.
	Name() string
	Close() error
}
