package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/repository"
	"github.com/social-media-monitor/internal/service"
)

// ModerationHandler handles escalation and metadata endpoints
type ModerationHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewModerationHandler creates a new ModerationHandler
func NewModerationHandler(services *service.Services, log zerolog.Logger) *ModerationHandler {
	return &ModerationHandler{
		services: services,
		log:      log.With().Str("handler", "moderation").Logger(),
	}
}

// Update handles POST /v1/moderation. The body is a single moderation update
// or an array of them; each is upserted by (page_id, comment_id).
func (h *ModerationHandler) Update(c *gin.Context) {
	updates, err := decodeUpdateBody(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one update is required"})
		return
	}

	records, err := h.services.Monitor.Update(c.Request.Context(), updates)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "field": vErr.Field})
			return
		}
		if errors.Is(err, repository.ErrStoreNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Moderation update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update moderation records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// Get handles GET /v1/moderation/:page_id/:comment_id
func (h *ModerationHandler) Get(c *gin.Context) {
	record, err := h.services.Monitor.FindModeration(c.Request.Context(), c.Param("page_id"), c.Param("comment_id"))
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Moderation lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up moderation record"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no moderation record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// decodeUpdateBody accepts both a single object and an array
func decodeUpdateBody(c *gin.Context) ([]models.ModerationUpdate, error) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		return nil, err
	}

	var updates []models.ModerationUpdate
	if err := json.Unmarshal(raw, &updates); err == nil {
		return updates, nil
	}

	var single models.ModerationUpdate
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []models.ModerationUpdate{single}, nil
}
