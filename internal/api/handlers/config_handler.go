package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/miraihq/mirai-interview/internal/models"
)

type ConfigHandler struct {
	ttsService    string
	sessionExpiry time.Duration
	deleteDelay   time.Duration
}

func NewConfigHandler(ttsService string, sessionExpiry, deleteDelay time.Duration) *ConfigHandler {
	return &ConfigHandler{ttsService: ttsService, sessionExpiry: sessionExpiry, deleteDelay: deleteDelay}
}

// Get exposes the client-relevant knobs so the frontend can render
// progress bars and countdowns without hardcoding them.
func (h *ConfigHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tts_service": h.ttsService,
		"interview_types": gin.H{
			string(models.InterviewTypeHR):   gin.H{"question_limit": models.InterviewTypeHR.QuestionLimit()},
			string(models.InterviewTypeTech): gin.H{"question_limit": models.InterviewTypeTech.QuestionLimit()},
		},
		"session_expiry_seconds":    int(h.sessionExpiry.Seconds()),
		"audio_retention_seconds":   int(h.deleteDelay.Seconds()),
		"supported_interview_types": []string{string(models.InterviewTypeHR), string(models.InterviewTypeTech)},
	})
}
