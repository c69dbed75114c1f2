package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/graph"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/repository"
)

// GraphAPI is the upstream API surface the monitor depends on
type GraphAPI interface {
	ListConversations(ctx context.Context, pageID, token string) ([]graph.Conversation, error)
	ListFeed(ctx context.Context, pageID, token string) ([]graph.Post, error)
	SendDirectMessage(ctx context.Context, recipientID, text, token string) (*graph.SendResponse, error)
	SendCommentReply(ctx context.Context, commentID, text, token string) (*graph.SendResponse, error)
	DeleteComment(ctx context.Context, commentID, token string) error
}

// MonitorService is the unified monitoring facade
type MonitorService interface {
	GetMessages(ctx context.Context) (*models.MessageSet, error)
	Reply(ctx context.Context, requests []models.ReplyRequest, save bool) ([]models.ReplyOutcome, error)
	Update(ctx context.Context, updates []models.ModerationUpdate) ([]*models.ModerationRecord, error)
	Export(ctx context.Context, filters *models.ExportFilters) ([]*models.ExportRow, error)
	RemoveComment(ctx context.Context, pageID, commentID string) error
	FindModeration(ctx context.Context, pageID, commentID string) (*models.ModerationRecord, error)
}

// Services holds all service interfaces
type Services struct {
	Monitor MonitorService
}

// NewServices creates all services
func NewServices(accounts []models.Account, api GraphAPI, stores repository.Provider, log zerolog.Logger) *Services {
	return &Services{
		Monitor: newMonitorService(accounts, api, stores, log),
	}
}
