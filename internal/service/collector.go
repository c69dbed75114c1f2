package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/graph"
	"github.com/social-media-monitor/internal/models"
	"github.com/social-media-monitor/internal/normalize"
)

// errorMessagePrefixLen bounds the message prefix used for error
// deduplication, tolerating slightly varying error text for the same
// underlying failure
const errorMessagePrefixLen = 15

// collector aggregates threads across all configured accounts. Accounts are
// processed sequentially in configuration order; a failure for one account's
// message type never aborts the others.
type collector struct {
	accounts []models.Account
	api      GraphAPI
	log      zerolog.Logger
}

func newCollector(accounts []models.Account, api GraphAPI, log zerolog.Logger) *collector {
	return &collector{
		accounts: accounts,
		api:      api,
		log:      log.With().Str("component", "collector").Logger(),
	}
}

// Collect fetches and normalizes direct and feed messages for every account,
// merging results and deduplicating error records
func (c *collector) Collect(ctx context.Context) *models.MessageSet {
	direct, directErrs := c.directMessages(ctx)
	feed, feedErrs := c.feedMessages(ctx)

	messages := make([]*models.Thread, 0, len(direct)+len(feed))
	messages = append(messages, direct...)
	messages = append(messages, feed...)

	return &models.MessageSet{
		Messages: messages,
		Errors:   dedupErrors(append(directErrs, feedErrs...)),
	}
}

func (c *collector) directMessages(ctx context.Context) ([]*models.Thread, []models.ErrorRecord) {
	var threads []*models.Thread
	var errs []models.ErrorRecord

	for _, account := range c.accounts {
		conversations, err := c.api.ListConversations(ctx, account.ID, account.Token)
		if err != nil {
			c.log.Warn().Err(err).Str("page_id", account.ID).Msg("Direct message fetch failed")
			errs = append(errs, errorRecord(account.ID, err))
			continue
		}

		for _, conv := range conversations {
			if thread := normalize.Direct(conv, account.ID); thread != nil {
				threads = append(threads, thread)
			}
		}
	}

	return threads, errs
}

func (c *collector) feedMessages(ctx context.Context) ([]*models.Thread, []models.ErrorRecord) {
	var threads []*models.Thread
	var errs []models.ErrorRecord

	for _, account := range c.accounts {
		posts, err := c.api.ListFeed(ctx, account.ID, account.Token)
		if err != nil {
			c.log.Warn().Err(err).Str("page_id", account.ID).Msg("Feed fetch failed")
			errs = append(errs, errorRecord(account.ID, err))
			continue
		}

		for _, post := range posts {
			threads = append(threads, normalize.Feed(post, account.ID))
		}
	}

	return threads, errs
}

// errorRecord converts a fetch failure into an error record, preferring the
// upstream error message when the API returned one
func errorRecord(accountID string, err error) models.ErrorRecord {
	var apiErr *graph.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return models.ErrorRecord{ID: accountID, Message: apiErr.Message}
	}
	return models.ErrorRecord{ID: accountID, Message: "Unknown error"}
}

// dedupErrors drops records sharing an id and the first 15 characters of
// their message, keeping the first occurrence
func dedupErrors(records []models.ErrorRecord) []models.ErrorRecord {
	seen := make(map[string]bool, len(records))
	result := make([]models.ErrorRecord, 0, len(records))

	for _, record := range records {
		prefix := record.Message
		if len(prefix) > errorMessagePrefixLen {
			prefix = prefix[:errorMessagePrefixLen]
		}
		key := record.ID + "\x00" + prefix
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, record)
	}

	return result
}
