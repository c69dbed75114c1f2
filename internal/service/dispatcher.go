package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/models"
)

// dispatcher routes outbound replies to the transport action matching the
// message type and resolves the destination credential from the configured
// account list
type dispatcher struct {
	accounts []models.Account
	api      GraphAPI
	log      zerolog.Logger
}

func newDispatcher(accounts []models.Account, api GraphAPI, log zerolog.Logger) *dispatcher {
	return &dispatcher{
		accounts: accounts,
		api:      api,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch sends one reply. Validation failures (unknown or ambiguous
// account, missing message type) are returned as errors; transport failures
// and unhandled message types are reported in the outcome so the caller can
// tell them apart from success.
func (d *dispatcher) Dispatch(ctx context.Context, req models.ReplyRequest) (*models.ReplyOutcome, error) {
	account, err := d.resolveAccount(req.PageID)
	if err != nil {
		return nil, err
	}

	if req.MessageType == "" {
		return nil, &models.ValidationError{
			Field:   "message_type",
			Message: fmt.Sprintf("message %s cannot be without message type", req.ID),
		}
	}

	outcome := &models.ReplyOutcome{
		PageID:      req.PageID,
		ThreadID:    req.ThreadID,
		MessageType: req.MessageType,
	}

	switch models.MessageType(req.MessageType) {
	case models.MessageTypeDirect:
		// thread_id is the recipient id
		resp, err := d.api.SendDirectMessage(ctx, req.ThreadID, req.Message, account.Token)
		if err != nil {
			return d.transportFailed(outcome, err), nil
		}
		outcome.Status = models.ReplyStatusSent
		outcome.CommentID = resp.CommentID()

	case models.MessageTypeFeed:
		// thread_id is the comment id the reply attaches to
		resp, err := d.api.SendCommentReply(ctx, req.ThreadID, req.Message, account.Token)
		if err != nil {
			return d.transportFailed(outcome, err), nil
		}
		outcome.Status = models.ReplyStatusSent
		outcome.CommentID = resp.CommentID()

	default:
		// Unknown types are a soft failure for forward compatibility
		outcome.Status = models.ReplyStatusUnhandled
	}

	return outcome, nil
}

func (d *dispatcher) transportFailed(outcome *models.ReplyOutcome, err error) *models.ReplyOutcome {
	d.log.Warn().Err(err).
		Str("page_id", outcome.PageID).
		Str("thread_id", outcome.ThreadID).
		Str("message_type", outcome.MessageType).
		Msg("Reply transport failed")

	outcome.Status = models.ReplyStatusTransportFailed
	outcome.Error = err.Error()
	return outcome
}

// resolveAccount finds the configured account for a page. Zero matches and
// duplicate matches are both configuration errors.
func (d *dispatcher) resolveAccount(pageID string) (*models.Account, error) {
	var matches []models.Account
	for _, account := range d.accounts {
		if account.ID == pageID {
			matches = append(matches, account)
		}
	}

	if len(matches) > 1 {
		return nil, &models.ValidationError{
			Field:   "page_id",
			Message: fmt.Sprintf("page %s occurs multiple times in account options", pageID),
			Value:   pageID,
		}
	}
	if len(matches) < 1 {
		return nil, &models.ValidationError{
			Field:   "page_id",
			Message: fmt.Sprintf("page %s has no account options", pageID),
			Value:   pageID,
		}
	}

	return &matches[0], nil
}
