package models

// ReplyRequest is an outbound reply to a previously fetched message. For
// direct messages ThreadID is the recipient id; for feed messages it is the
// comment id the reply attaches to.
type ReplyRequest struct {
	ID          string `json:"id,omitempty"`
	PageID      string `json:"page_id"`
	ThreadID    string `json:"thread_id"`
	Channel     string `json:"channel,omitempty"`
	MessageType string `json:"message_type"`
	Message     string `json:"message"`
}

// ReplyStatus classifies the outcome of a dispatched reply
type ReplyStatus string

const (
	// ReplyStatusSent means the transport call succeeded
	ReplyStatusSent ReplyStatus = "sent"
	// ReplyStatusUnhandled means the message type has no transport action
	ReplyStatusUnhandled ReplyStatus = "unhandled"
	// ReplyStatusTransportFailed means the remote rejected or the call failed
	ReplyStatusTransportFailed ReplyStatus = "transport_failed"
)

// ReplyOutcome is the discriminated result of one reply dispatch. Validation
// failures are not outcomes; they surface as errors to the caller.
type ReplyOutcome struct {
	PageID      string      `json:"page_id"`
	ThreadID    string      `json:"thread_id"`
	MessageType string      `json:"message_type"`
	Status      ReplyStatus `json:"status"`
	CommentID   string      `json:"comment_id,omitempty"`
	Error       string      `json:"error,omitempty"`
}
