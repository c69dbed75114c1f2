// Package normalize converts raw Graph API records into the canonical thread
// model: flat, stably ordered, with at most one level of nested sub-comments.
package normalize

import (
	"sort"
	"time"

	"github.com/social-media-monitor/internal/graph"
	"github.com/social-media-monitor/internal/models"
)

// createdTimeLayout is the offset format the Graph API delivers,
// e.g. "2020-10-01T12:00:00+0000"
const createdTimeLayout = "2006-01-02T15:04:05-0700"

// Direct normalizes one conversation into a thread. Messages arrive
// newest-first and are reversed to chronological order. The thread id is the
// other participant when the conversation carries a participant list that
// reduces to exactly one non-self entry; otherwise it falls back to the
// oldest message's sender, the de facto linkage key.
//
// Conversations with no messages, or whose other party cannot be resolved,
// are dropped (nil).
func Direct(conv graph.Conversation, pageID string) *models.Thread {
	if conv.Messages == nil || len(conv.Messages.Data) == 0 {
		return nil
	}

	data := conv.Messages.Data
	comments := make([]*models.Comment, 0, len(data))
	for i := len(data) - 1; i >= 0; i-- {
		comments = append(comments, messageComment(data[i], pageID))
	}

	threadID := directThreadID(conv, pageID, comments)
	if threadID == "" {
		return nil
	}

	return &models.Thread{
		ID:          conv.ID,
		PageID:      pageID,
		Channel:     models.ChannelFacebook,
		MessageType: models.MessageTypeDirect,
		ThreadID:    threadID,
		Comments:    comments,
	}
}

// directThreadID resolves the conversation's other party
func directThreadID(conv graph.Conversation, pageID string, comments []*models.Comment) string {
	if conv.Participants != nil {
		others := FilterParticipants(conv.Participants.Data, pageID)
		if len(others) == 1 {
			return others[0].ID
		}
	}
	if from := comments[0].From; from != nil {
		return from.ID
	}
	return ""
}

// Feed normalizes one feed post into a thread. The post itself becomes a
// virtual top comment prepended to its comment list, so a post with no
// comments still yields a single-comment thread. Top-level comments and each
// nested sub-comment list are sorted chronologically ascending.
func Feed(post graph.Post, pageID string) *models.Thread {
	top := &models.Comment{
		ID:          post.ID,
		PageID:      pageID,
		CreatedTime: post.CreatedTime,
		From:        actor(post.From),
		Message:     post.Message,
	}

	var comments []*models.Comment
	if post.Comments != nil && len(post.Comments.Data) > 0 {
		comments = make([]*models.Comment, 0, len(post.Comments.Data)+1)
		comments = append(comments, top)
		for _, raw := range post.Comments.Data {
			comments = append(comments, feedComment(raw, pageID))
		}
		SortComments(comments)
	} else {
		comments = []*models.Comment{top}
	}

	return &models.Thread{
		ID:          post.ID,
		PageID:      pageID,
		Channel:     models.ChannelFacebook,
		MessageType: models.MessageTypeFeed,
		ThreadID:    post.ID,
		Comments:    comments,
	}
}

// feedComment maps a top-level feed comment and its one level of nested
// replies. Anything nested below the second level is stripped.
func feedComment(raw graph.Comment, pageID string) *models.Comment {
	comment := &models.Comment{
		ID:          raw.ID,
		PageID:      pageID,
		CreatedTime: raw.CreatedTime,
		From:        actor(raw.From),
		Message:     raw.Message,
	}

	if raw.Comments == nil {
		return comment
	}

	nested := make([]*models.Comment, 0, len(raw.Comments.Data))
	for _, low := range raw.Comments.Data {
		nested = append(nested, &models.Comment{
			ID:          low.ID,
			PageID:      pageID,
			CreatedTime: low.CreatedTime,
			From:        actor(low.From),
			Message:     low.Message,
		})
	}
	SortComments(nested)
	comment.Comments = nested

	return comment
}

// messageComment maps a direct message to the canonical comment shape
func messageComment(raw graph.Message, pageID string) *models.Comment {
	return &models.Comment{
		ID:          raw.ID,
		PageID:      pageID,
		CreatedTime: raw.CreatedTime,
		From:        actor(raw.From),
		Message:     raw.Message,
	}
}

func actor(a *graph.Actor) *models.Actor {
	if a == nil {
		return nil
	}
	return &models.Actor{ID: a.ID, Name: a.Name}
}

// FilterParticipants returns the non-self participants of a conversation.
// More than one remaining candidate means the other party is ambiguous and
// the result is empty.
func FilterParticipants(participants []graph.Actor, selfID string) []graph.Actor {
	var others []graph.Actor
	for _, p := range participants {
		if p.ID != selfID {
			others = append(others, p)
		}
	}
	if len(others) > 1 {
		return nil
	}
	return others
}

// SortComments orders comments ascending by parsed created time. Records with
// a missing or unparseable timestamp sort last; equal timestamps keep their
// original order.
func SortComments(comments []*models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		ti, oki := ParseCreatedTime(comments[i].CreatedTime)
		tj, okj := ParseCreatedTime(comments[j].CreatedTime)
		if oki && okj {
			return ti.Before(tj)
		}
		return oki && !okj
	})
}

// ParseCreatedTime parses an upstream timestamp, accepting the Graph API's
// offset format as well as RFC3339
func ParseCreatedTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(createdTimeLayout, value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}
