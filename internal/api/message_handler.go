package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/service"
)

// MessageHandler handles message aggregation and comment removal endpoints
type MessageHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(services *service.Services, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		services: services,
		log:      log.With().Str("handler", "message").Logger(),
	}
}

// GetMessages handles GET /v1/messages
func (h *MessageHandler) GetMessages(c *gin.Context) {
	set, err := h.services.Monitor.GetMessages(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Message aggregation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate messages"})
		return
	}

	c.JSON(http.StatusOK, set)
}

// DeleteComment handles DELETE /v1/comments/:comment_id?page_id=...
func (h *MessageHandler) DeleteComment(c *gin.Context) {
	commentID := c.Param("comment_id")
	pageID := c.Query("page_id")
	if pageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_id parameter is required"})
		return
	}

	err := h.services.Monitor.RemoveComment(c.Request.Context(), pageID, commentID)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
			return
		}
		h.log.Error().Err(err).Str("comment_id", commentID).Msg("Comment removal failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to remove comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": commentID})
}
