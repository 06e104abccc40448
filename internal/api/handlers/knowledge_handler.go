package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miraihq/mirai-interview/internal/services"
	"github.com/miraihq/mirai-interview/internal/utils"
)

type KnowledgeHandler struct {
	svc services.KnowledgeService
}

func NewKnowledgeHandler(svc services.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

type addDocumentRequest struct {
	Title     string          `json:"title" binding:"required"`
	Content   string          `json:"content" binding:"required"`
	Tags      []string        `json:"tags"`
	Metadata  json.RawMessage `json:"metadata"`
	Embedding []float32       `json:"embedding"`
}

func (h *KnowledgeHandler) AddDocument(c *gin.Context) {
	const op = "KnowledgeHandler.AddDocument"

	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "title and content are required", err))
		return
	}

	doc, err := h.svc.AddDocument(c.Request.Context(), req.Title, req.Content, req.Tags, req.Metadata, req.Embedding)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}
