// Package validation checks reply and moderation requests before they reach
// the transport or the store. A validation failure indicates a programming or
// configuration mistake and is raised to the caller, never swallowed.
package validation

import (
	"github.com/social-media-monitor/internal/models"
)

// knownMessageTypes are the message types with a transport action. Unknown
// types pass validation; the dispatcher reports them as unhandled.
var knownMessageTypes = map[models.MessageType]bool{
	models.MessageTypeDirect: true,
	models.MessageTypeFeed:   true,
}

// IsKnownMessageType reports whether a message type has a transport action
func IsKnownMessageType(messageType string) bool {
	return knownMessageTypes[models.MessageType(messageType)]
}

// ValidateReply checks an outbound reply request
func ValidateReply(req *models.ReplyRequest) []models.ValidationError {
	var errs []models.ValidationError

	if req.PageID == "" {
		errs = append(errs, models.ValidationError{
			Field:   "page_id",
			Message: "page_id is required",
		})
	}
	if req.ThreadID == "" {
		errs = append(errs, models.ValidationError{
			Field:   "thread_id",
			Message: "thread_id is required",
		})
	}
	if req.Message == "" {
		errs = append(errs, models.ValidationError{
			Field:   "message",
			Message: "message is required",
		})
	}
	if req.MessageType == "" {
		errs = append(errs, models.ValidationError{
			Field:   "message_type",
			Message: "message_type is required",
		})
	}

	return errs
}

// ValidateUpdate checks a moderation upsert request
func ValidateUpdate(update *models.ModerationUpdate) []models.ValidationError {
	var errs []models.ValidationError

	if update.PageID == "" {
		errs = append(errs, models.ValidationError{
			Field:   "page_id",
			Message: "page_id is required",
		})
	}
	if update.CommentID == "" {
		errs = append(errs, models.ValidationError{
			Field:   "comment_id",
			Message: "comment_id is required",
		})
	}

	return errs
}
