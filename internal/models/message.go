package models

// Channel identifies the upstream social network an account belongs to.
const ChannelFacebook = "facebook"

// MessageType distinguishes direct conversations from feed posts
type MessageType string

const (
	MessageTypeDirect MessageType = "direct"
	MessageTypeFeed   MessageType = "feed"
)

// Account is a configured upstream page identity with its access credential
type Account struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

// Actor is a reference to the author of a message or comment
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Comment is a single message or reply unit. Top-level comments may carry one
// level of nested sub-comments; sub-comments never nest further.
//
// CreatedTime is kept as the raw upstream string: the Graph API delivers
// timestamps in a non-RFC3339 offset format, and records with missing or
// unparseable values still need a defined sort position.
type Comment struct {
	ID          string                 `json:"id"`
	PageID      string                 `json:"page_id"`
	CreatedTime string                 `json:"created_time,omitempty"`
	From        *Actor                 `json:"from,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Adverse     bool                   `json:"adverse,omitempty"`
	PQC         bool                   `json:"pqc,omitempty"`
	MI          bool                   `json:"mi,omitempty"`
	Comments    []*Comment             `json:"comments,omitempty"`
}

// Thread is a canonical conversation or feed-post aggregate. Comments are
// ordered chronologically ascending by created time.
type Thread struct {
	ID          string      `json:"id"`
	PageID      string      `json:"page_id"`
	Channel     string      `json:"channel"`
	MessageType MessageType `json:"message_type"`
	ThreadID    string      `json:"thread_id"`
	Comments    []*Comment  `json:"comments"`
}

// ErrorRecord captures a per-account fetch failure without aborting the
// overall aggregation
type ErrorRecord struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// MessageSet is the aggregation result: threads from every account that
// succeeded plus one deduplicated error record per failed source
type MessageSet struct {
	Messages []*Thread     `json:"messages"`
	Errors   []ErrorRecord `json:"errors"`
}
