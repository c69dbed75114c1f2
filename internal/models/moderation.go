package models

import (
	"time"
)

// ModerationRecord is a persisted moderation row keyed by (page_id, comment_id)
type ModerationRecord struct {
	ID          int64                  `json:"-" db:"id"`
	UUID        string                 `json:"uuid" db:"uuid"`
	PageID      string                 `json:"page_id" db:"page_id"`
	CommentID   string                 `json:"comment_id" db:"comment_id"`
	ThreadID    string                 `json:"thread_id" db:"thread_id"`
	Channel     string                 `json:"channel" db:"channel"`
	MessageType string                 `json:"message_type" db:"message_type"`
	Adverse     bool                   `json:"adverse" db:"adverse"`
	PQC         bool                   `json:"pqc" db:"pqc"`
	MI          bool                   `json:"mi" db:"mi"`
	Handled     bool                   `json:"handled" db:"handled"`
	Spam        bool                   `json:"spam" db:"spam"`
	Archived    bool                   `json:"archived" db:"archived"`
	Metadata    map[string]interface{} `json:"metadata" db:"metadata"`
}

// ModerationUpdate is a candidate moderation row for an upsert. If a row with
// the same (page_id, comment_id) exists it is updated, otherwise inserted.
type ModerationUpdate struct {
	PageID      string                 `json:"page_id"`
	CommentID   string                 `json:"comment_id"`
	ThreadID    string                 `json:"thread_id,omitempty"`
	Channel     string                 `json:"channel,omitempty"`
	MessageType string                 `json:"message_type,omitempty"`
	Adverse     bool                   `json:"adverse"`
	PQC         bool                   `json:"pqc"`
	MI          bool                   `json:"mi"`
	Handled     bool                   `json:"handled"`
	Spam        bool                   `json:"spam"`
	Archived    bool                   `json:"archived"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// ExportFilters narrows the export query. Date filters apply to the
// created_time recorded in row metadata; flag filters are OR-combined.
type ExportFilters struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Adverse   bool       `json:"adverse"`
	PQC       bool       `json:"pqc"`
	MI        bool       `json:"mi"`
	Clients   []string   `json:"clients,omitempty"`
}

// ExportRow is an export record: the persisted moderation row joined with the
// current message text from a live re-fetch
type ExportRow struct {
	ModerationRecord
	Message string `json:"message"`
}
