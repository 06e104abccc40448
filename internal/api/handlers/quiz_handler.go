package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miraihq/mirai-interview/internal/services"
	"github.com/miraihq/mirai-interview/internal/utils"
)

type QuizHandler struct {
	svc services.QuizService
}

func NewQuizHandler(svc services.QuizService) *QuizHandler {
	return &QuizHandler{svc: svc}
}

func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	const op = "QuizHandler.GenerateQuiz"

	position := c.Query("position")
	if position == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "position query parameter is required", nil))
		return
	}

	quiz, err := h.svc.GenerateQuiz(c.Request.Context(), position)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

type roadmapQuizRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *QuizHandler) RoadmapQuiz(c *gin.Context) {
	const op = "QuizHandler.RoadmapQuiz"

	var req roadmapQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "title is required", err))
		return
	}

	q, err := h.svc.RoadmapQuiz(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

type adviceRequest struct {
	JobTitle string   `json:"job_title" binding:"required"`
	Skills   []string `json:"skills"`
}

func (h *QuizHandler) JobseekerAdvice(c *gin.Context) {
	const op = "QuizHandler.JobseekerAdvice"

	var req adviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "job_title is required", err))
		return
	}

	advice, err := h.svc.JobseekerAdvice(c.Request.Context(), req.JobTitle, req.Skills)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}
