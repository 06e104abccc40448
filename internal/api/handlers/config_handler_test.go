package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestConfigGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/config", NewConfigHandler("google", time.Hour, 5*time.Minute).Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		InterviewTypes map[string]struct {
			QuestionLimit int `json:"question_limit"`
		} `json:"interview_types"`
		SessionExpirySeconds  int    `json:"session_expiry_seconds"`
		AudioRetentionSeconds int    `json:"audio_retention_seconds"`
		TTSService            string `json:"tts_service"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}

	if body.SessionExpirySeconds != 3600 {
		t.Errorf("session_expiry_seconds = %d", body.SessionExpirySeconds)
	}
	if body.AudioRetentionSeconds != 300 {
		t.Errorf("audio_retention_seconds = %d", body.AudioRetentionSeconds)
	}
	if body.InterviewTypes["hr"].QuestionLimit != 5 || body.InterviewTypes["tech"].QuestionLimit != 3 {
		t.Errorf("question limits = %+v", body.InterviewTypes)
	}
	if body.TTSService != "google" {
		t.Errorf("tts_service = %q", body.TTSService)
	}
}
