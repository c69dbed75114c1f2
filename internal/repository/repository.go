package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/config"
	"github.com/social-media-monitor/internal/database"
	"github.com/social-media-monitor/internal/models"
)

// ErrStoreNotConfigured is returned when a store-backed operation runs
// without database options
var ErrStoreNotConfigured = errors.New("no database options provided")

// ModerationRepository defines the interface for moderation data operations
type ModerationRepository interface {
	GetEscalations(ctx context.Context, commentIDs []string) ([]*models.ModerationRecord, error)
	GetMetadata(ctx context.Context, commentIDs []string) ([]*models.ModerationRecord, error)
	FindComment(ctx context.Context, pageID, commentID string) (*models.ModerationRecord, error)
	Upsert(ctx context.Context, update *models.ModerationUpdate) (*models.ModerationRecord, bool, error)
	GetExportData(ctx context.Context, filters *models.ExportFilters) ([]*models.ModerationRecord, error)
}

// Store is an open moderation store handle. It is opened around each
// store-backed operation and closed afterwards, never shared across calls.
type Store interface {
	ModerationRepository
	Close() error
}

// Provider opens store handles on demand
type Provider interface {
	Open(ctx context.Context) (Store, error)
}

// provider opens PostgreSQL-backed stores, ensuring the schema on every open
type provider struct {
	cfg            *config.DatabaseConfig
	migrationsPath string
	log            zerolog.Logger
}

// NewProvider creates a store provider. cfg may be nil, in which case every
// Open fails with ErrStoreNotConfigured.
func NewProvider(cfg *config.DatabaseConfig, migrationsPath string, log zerolog.Logger) Provider {
	return &provider{cfg: cfg, migrationsPath: migrationsPath, log: log}
}

func (p *provider) Open(ctx context.Context) (Store, error) {
	if p.cfg == nil {
		return nil, ErrStoreNotConfigured
	}

	db, err := database.New(p.cfg, p.log)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := db.RunMigrations(p.migrationsPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &store{moderationRepo: moderationRepo{db: db}, db: db}, nil
}

// store couples a repository with the connection it owns
type store struct {
	moderationRepo
	db *database.DB
}

func (s *store) Close() error {
	return s.db.Close()
}
