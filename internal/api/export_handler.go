package api

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/repository"
	"github.com/social-media-monitor/internal/service"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/exports?format=csv&start_date=...&end_date=...
// &adverse=true&pqc=true&mi=true&clients=P1,P2
func (h *ExportHandler) StreamExport(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "json" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, json"})
		return
	}

	filters, err := parseExportFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.log.Info().Str("format", format).Msg("Starting export")

	rows, err := h.services.Monitor.Export(c.Request.Context(), filters)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("Export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assemble export"})
		return
	}

	switch format {
	case "json":
		c.JSON(http.StatusOK, gin.H{"rows": rows})
	case "csv":
		h.writeCSV(c, rows)
	}
}

// writeCSV streams the export rows as CSV
func (h *ExportHandler) writeCSV(c *gin.Context, rows []*models.ExportRow) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=moderation_export.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	// Write header
	writer.Write([]string{
		"comment_id", "page_id", "thread_id", "channel", "message_type",
		"adverse", "pqc", "mi", "handled", "spam", "archived", "message",
	})

	for _, row := range rows {
		writer.Write([]string{
			row.CommentID,
			row.PageID,
			row.ThreadID,
			row.Channel,
			row.MessageType,
			strconv.FormatBool(row.Adverse),
			strconv.FormatBool(row.PQC),
			strconv.FormatBool(row.MI),
			strconv.FormatBool(row.Handled),
			strconv.FormatBool(row.Spam),
			strconv.FormatBool(row.Archived),
			row.Message,
		})
	}
}

// parseExportFilters reads the filter query parameters
func parseExportFilters(c *gin.Context) (*models.ExportFilters, error) {
	filters := &models.ExportFilters{
		Adverse: c.Query("adverse") == "true",
		PQC:     c.Query("pqc") == "true",
		MI:      c.Query("mi") == "true",
	}

	if value := c.Query("start_date"); value != "" {
		start, err := parseFilterDate(value)
		if err != nil {
			return nil, errors.New("start_date must be YYYY-MM-DD or RFC3339")
		}
		filters.StartDate = start
	}
	if value := c.Query("end_date"); value != "" {
		end, err := parseFilterDate(value)
		if err != nil {
			return nil, errors.New("end_date must be YYYY-MM-DD or RFC3339")
		}
		filters.EndDate = end
	}

	if clients := c.Query("clients"); clients != "" {
		filters.Clients = strings.Split(clients, ",")
	}

	return filters, nil
}

func parseFilterDate(value string) (*time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
