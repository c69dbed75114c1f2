package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/service"
)

// ReplyHandler handles outbound reply endpoints
type ReplyHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewReplyHandler creates a new ReplyHandler
func NewReplyHandler(services *service.Services, log zerolog.Logger) *ReplyHandler {
	return &ReplyHandler{
		services: services,
		log:      log.With().Str("handler", "reply").Logger(),
	}
}

// CreateReply handles POST /v1/replies?save=true. The body is a single reply
// request or an array of them.
func (h *ReplyHandler) CreateReply(c *gin.Context) {
	requests, err := decodeReplyBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(requests) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one reply is required"})
		return
	}

	save := c.Query("save") == "true"

	outcomes, err := h.services.Monitor.Reply(c.Request.Context(), requests, save)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
			return
		}
		h.log.Error().Err(err).Msg("Reply dispatch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dispatch replies"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": outcomes})
}

// decodeReplyBody accepts both a single object and an array
func decodeReplyBody(c *gin.Context) ([]models.ReplyRequest, error) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		return nil, err
	}

	var requests []models.ReplyRequest
	if err := json.Unmarshal(raw, &requests); err == nil {
		return requests, nil
	}

	var single models.ReplyRequest
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []models.ReplyRequest{single}, nil
}
