package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miraihq/mirai-interview/internal/models"
	"github.com/miraihq/mirai-interview/internal/services"
	"github.com/miraihq/mirai-interview/internal/utils"
)

// 10 MiB is plenty for one spoken answer.
const maxAudioBytes = 10 << 20

type InterviewHandler struct {
	interviews services.InterviewService
	artifacts  services.ArtifactService
}

func NewInterviewHandler(interviews services.InterviewService, artifacts services.ArtifactService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, artifacts: artifacts}
}

// Speak accepts one multipart turn: an audio answer plus the target
// position and interview type, and replies with the transcription, the
// interviewer's next question (or the final evaluation), and a URL for
// the synthesized reply audio.
func (h *InterviewHandler) Speak(c *gin.Context) {
	const op = "InterviewHandler.Speak"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	position := c.PostForm("position")
	typ, okType := models.ParseInterviewType(c.PostForm("interview_type"))
	if position == "" || !okType {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "position and interview_type ('hr' or 'tech') are required", nil))
		return
	}

	fh, err := c.FormFile("audio")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file is required", err))
		return
	}
	if fh.Size > maxAudioBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file too large", nil))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open audio upload", err))
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes+1))
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to read audio upload", err))
		return
	}

	out, err := h.interviews.HandleTurn(c.Request.Context(), services.TurnInput{
		UserID:        userID,
		Position:      position,
		InterviewType: typ,
		Audio:         audio,
		Language:      c.PostForm("language"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{"transcription": out.Transcript}
	if out.Result.IsEvaluation() {
		resp["evaluation"] = out.Result.Evaluation
	} else {
		resp["response"] = out.Result.Question
	}
	if out.Artifact != nil {
		resp["audio_url"] = "/audio/" + out.Artifact.ID
	}

	c.JSON(http.StatusOK, resp)
}

// Audio streams a synthesized reply back to the candidate who owns it.
func (h *InterviewHandler) Audio(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	artifactID := c.Param("artifact_id")
	b, err := h.artifacts.Fetch(c.Request.Context(), userID, artifactID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", b)
}
