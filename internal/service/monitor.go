package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/repository"
	"github.com/social-media-monitor/internal/validation"
)

// monitorService composes the collector, dispatcher and moderation store
// behind the unified monitoring operations. A store handle is opened around
// each store-backed operation and closed before returning; nothing is pooled
// across calls.
type monitorService struct {
	collector  *collector
	dispatcher *dispatcher
	stores     repository.Provider
	log        zerolog.Logger
}

func newMonitorService(accounts []models.Account, api GraphAPI, stores repository.Provider, log zerolog.Logger) *monitorService {
	return &monitorService{
		collector:  newCollector(accounts, api, log),
		dispatcher: newDispatcher(accounts, api, log),
		stores:     stores,
		log:        log.With().Str("service", "monitor").Logger(),
	}
}

// GetMessages aggregates all accounts' threads and enriches them with
// persisted moderation flags and metadata. Without a configured store the
// threads are returned unenriched.
func (s *monitorService) GetMessages(ctx context.Context) (*models.MessageSet, error) {
	set := s.collector.Collect(ctx)

	store, err := s.stores.Open(ctx)
	if errors.Is(err, repository.ErrStoreNotConfigured) {
		s.log.Info().Msg("No database options provided, returning unenriched messages")
		return set, nil
	}
	if err != nil {
		return nil, err
	}
	defer store.Close()

	ids := CollectCommentIDs(set.Messages)

	escalations, err := store.GetEscalations(ctx, ids)
	if err != nil {
		return nil, err
	}
	metadata, err := store.GetMetadata(ctx, ids)
	if err != nil {
		return nil, err
	}

	Enrich(set.Messages, append(escalations, metadata...))

	s.log.Info().
		Int("messages", len(set.Messages)).
		Int("errors", len(set.Errors)).
		Msg("Messages aggregated")

	return set, nil
}

// Reply dispatches each outbound reply. When save is set, every successfully
// sent reply is persisted as a new comment row before returning.
func (s *monitorService) Reply(ctx context.Context, requests []models.ReplyRequest, save bool) ([]models.ReplyOutcome, error) {
	var store repository.Store
	defer func() {
		if store != nil {
			store.Close()
		}
	}()

	outcomes := make([]models.ReplyOutcome, 0, len(requests))
	for _, req := range requests {
		if errs := validation.ValidateReply(&req); len(errs) > 0 {
			return nil, &errs[0]
		}

		outcome, err := s.dispatcher.Dispatch(ctx, req)
		if err != nil {
			return nil, err
		}

		if save && outcome.Status == models.ReplyStatusSent {
			if store == nil {
				opened, err := s.stores.Open(ctx)
				if err != nil {
					return nil, err
				}
				store = opened
			}
			if err := s.saveReply(ctx, store, req, outcome); err != nil {
				return nil, err
			}
		}

		outcomes = append(outcomes, *outcome)
	}

	return outcomes, nil
}

// saveReply persists a sent reply as a moderation row keyed by the new
// comment's id
func (s *monitorService) saveReply(ctx context.Context, store repository.Store, req models.ReplyRequest, outcome *models.ReplyOutcome) error {
	channel := req.Channel
	if channel == "" {
		channel = models.ChannelFacebook
	}

	update := &models.ModerationUpdate{
		PageID:      req.PageID,
		CommentID:   outcome.CommentID,
		ThreadID:    req.ThreadID,
		Channel:     channel,
		MessageType: req.MessageType,
		Metadata: map[string]interface{}{
			"created_time": time.Now().UTC().Format(time.RFC3339),
			"message":      req.Message,
		},
	}

	if _, _, err := store.Upsert(ctx, update); err != nil {
		return fmt.Errorf("failed to save reply: %w", err)
	}
	return nil
}

// Update upserts each moderation record and returns the resulting rows.
// Writes are not wrapped in a transaction: a failure leaves earlier records
// committed.
func (s *monitorService) Update(ctx context.Context, updates []models.ModerationUpdate) ([]*models.ModerationRecord, error) {
	store, err := s.stores.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	results := make([]*models.ModerationRecord, 0, len(updates))
	for i := range updates {
		update := &updates[i]
		if errs := validation.ValidateUpdate(update); len(errs) > 0 {
			return nil, &errs[0]
		}

		record, inserted, err := store.Upsert(ctx, update)
		if err != nil {
			return nil, err
		}

		s.log.Debug().
			Str("page_id", record.PageID).
			Str("comment_id", record.CommentID).
			Bool("inserted", inserted).
			Msg("Moderation record upserted")

		results = append(results, record)
	}

	return results, nil
}

// Export retrieves the filtered moderation rows and joins each with the
// current message text from a live re-fetch
func (s *monitorService) Export(ctx context.Context, filters *models.ExportFilters) ([]*models.ExportRow, error) {
	store, err := s.stores.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	records, err := store.GetExportData(ctx, filters)
	if err != nil {
		return nil, err
	}

	set := s.collector.Collect(ctx)
	texts := messageTextIndex(set.Messages)

	rows := make([]*models.ExportRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, &models.ExportRow{
			ModerationRecord: *record,
			Message:          texts[rowKey{pageID: record.PageID, commentID: record.CommentID}],
		})
	}

	s.log.Info().Int("rows", len(rows)).Msg("Export assembled")
	return rows, nil
}

// messageTextIndex maps (page_id, comment_id) to the current message text,
// including nested sub-comments
func messageTextIndex(threads []*models.Thread) map[rowKey]string {
	index := make(map[rowKey]string)
	for _, thread := range threads {
		for _, comment := range thread.Comments {
			index[rowKey{pageID: comment.PageID, commentID: comment.ID}] = comment.Message
			for _, nested := range comment.Comments {
				index[rowKey{pageID: nested.PageID, commentID: nested.ID}] = nested.Message
			}
		}
	}
	return index
}

// RemoveComment deletes a feed comment using the owning page's credential
func (s *monitorService) RemoveComment(ctx context.Context, pageID, commentID string) error {
	account, err := s.dispatcher.resolveAccount(pageID)
	if err != nil {
		return err
	}
	return s.collector.api.DeleteComment(ctx, commentID, account.Token)
}

// FindModeration retrieves the persisted moderation row of one comment
func (s *monitorService) FindModeration(ctx context.Context, pageID, commentID string) (*models.ModerationRecord, error) {
	store, err := s.stores.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.FindComment(ctx, pageID, commentID)
}
