package service

import (
	"github.com/social-media-monitor/internal/models"
)

// rowKey is the composite key moderation rows are persisted under
type rowKey struct {
	pageID    string
	commentID string
}

// CollectCommentIDs gathers the distinct comment ids of every thread,
// including nested sub-comments
func CollectCommentIDs(threads []*models.Thread) []string {
	seen := make(map[string]bool)
	var ids []string

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, thread := range threads {
		for _, comment := range thread.Comments {
			add(comment.ID)
			for _, nested := range comment.Comments {
				add(nested.ID)
			}
		}
	}

	return ids
}

// Enrich splices persisted moderation flags and metadata onto the in-memory
// thread tree. Rows may come from separate flag and metadata queries for the
// same key; their fields are merged. Absence of a row means no flags and no
// metadata. The walk performs no I/O and applying it twice with the same rows
// yields the same result.
func Enrich(threads []*models.Thread, records []*models.ModerationRecord) []*models.Thread {
	index := make(map[rowKey]*models.ModerationRecord, len(records))
	for _, record := range records {
		key := rowKey{pageID: record.PageID, commentID: record.CommentID}
		merged, ok := index[key]
		if !ok {
			merged = &models.ModerationRecord{PageID: record.PageID, CommentID: record.CommentID}
			index[key] = merged
		}
		merged.Adverse = merged.Adverse || record.Adverse
		merged.PQC = merged.PQC || record.PQC
		merged.MI = merged.MI || record.MI
		if record.Metadata != nil {
			merged.Metadata = record.Metadata
		}
	}

	for _, thread := range threads {
		for _, comment := range thread.Comments {
			applyRecord(comment, index)
			for _, nested := range comment.Comments {
				applyRecord(nested, index)
			}
		}
	}

	return threads
}

func applyRecord(comment *models.Comment, index map[rowKey]*models.ModerationRecord) {
	record, ok := index[rowKey{pageID: comment.PageID, commentID: comment.ID}]
	if !ok {
		return
	}
	comment.Adverse = record.Adverse
	comment.PQC = record.PQC
	comment.MI = record.MI
	if record.Metadata != nil {
		comment.Metadata = record.Metadata
	}
}
