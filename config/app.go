package config

import (
	"os"
	"strconv"
	"time"
)

// App holds the process-level knobs read from the environment.
type App struct {
	Port string

	SessionExpiry    time.Duration
	AudioDir         string
	AudioDeleteDelay time.Duration
	JanitorInterval  time.Duration
	DefaultLanguage  string

	// Google Cloud
	VertexProjectID string
	VertexLocation  string
	VertexModel     string
	SpeechEncoding  string
	TTSVoice        string
	GCSBucket       string // empty disables transcript export
}

func LoadApp() App {
	return App{
		Port: envOr("PORT", "8080"),

		SessionExpiry:    envDuration("SESSION_EXPIRY", time.Hour),
		AudioDir:         envOr("AUDIO_DIR", "audio_responses"),
		AudioDeleteDelay: envDuration("AUDIO_DELETE_DELAY", 5*time.Minute),
		JanitorInterval:  envDuration("JANITOR_INTERVAL", time.Minute),
		DefaultLanguage:  envOr("DEFAULT_LANGUAGE", "id-ID"),

		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  envOr("VERTEX_LOCATION", "asia-southeast1"),
		VertexModel:     envOr("VERTEX_MODEL", "gemini-1.5-flash"),
		SpeechEncoding:  envOr("SPEECH_ENCODING", "webm_opus"),
		TTSVoice:        envOr("TTS_VOICE", "id-ID-Standard-A"),
		GCSBucket:       os.Getenv("GCS_BUCKET"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration reads either a Go duration ("45m") or plain seconds
// ("3600") from the environment.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
