package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safeguard/internal/pipeline"
)

type ContentHandler interface {
	SubmitMessage(c *gin.Context)
}

type contentHandler struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

func NewContentHandler(p *pipeline.Pipeline, logger *zap.Logger) ContentHandler {
	return &contentHandler{pipeline: p, logger: logger}
}

type SubmitMessageRequest struct {
	ChildID        string `json:"child_id" binding:"required"`
	Content        string `json:"content" binding:"required"`
	ContentType    string `json:"content_type" binding:"omitempty,oneof=text image video"`
	SourceApp      string `json:"source_app" binding:"required"`
	SenderID       string `json:"sender_id" binding:"required"`
	SenderName     string `json:"sender_name" binding:"required"`
	SenderType     string `json:"sender_type" binding:"omitempty,oneof=contact unknown group"`
	ConversationID string `json:"conversation_id" binding:"required"`
	SentAt         string `json:"sent_at"`
}

// SubmitMessage handles POST /api/content/message. Device agents submit
// captured messages here; the response carries the moderated message,
// the verdict and the alert reference if one was created.
func (h *contentHandler) SubmitMessage(c *gin.Context) {
	var req SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON for message submission", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ContentType == "" {
		req.ContentType = "text"
	}
	if req.SenderType == "" {
		req.SenderType = "unknown"
	}

	// A missing or malformed timestamp is treated as "now".
	var sentAt time.Time
	if req.SentAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.SentAt)
		if err != nil {
			h.logger.Warn("Malformed sent_at timestamp, using current time",
				zap.String("sent_at", req.SentAt), zap.Error(err))
			parsed = time.Now()
		}
		sentAt = parsed
	}

	result, err := h.pipeline.Process(pipeline.Input{
		ChildID:        req.ChildID,
		Content:        req.Content,
		ContentType:    req.ContentType,
		SourceApp:      req.SourceApp,
		SenderID:       req.SenderID,
		SenderName:     req.SenderName,
		SenderType:     req.SenderType,
		ConversationID: req.ConversationID,
		SentAt:         sentAt,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrChildNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Child not found"})
			return
		}
		h.logger.Error("Failed to process message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	response := gin.H{
		"message":      result.Message,
		"moderation":   result.Moderation,
		"safety_score": result.SafetyScore,
	}
	if result.Alert != nil {
		response["alert"] = gin.H{"id": result.Alert.ID, "severity": result.Alert.Severity}
	}

	c.JSON(http.StatusCreated, response)
}
