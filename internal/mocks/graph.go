package mocks

import (
	"context"

	"github.com/social-media-monitor/internal/graph"
)

// MockGraphAPI is a mock implementation of service.GraphAPI. Per-method
// function fields override the default empty responses; per-page error maps
// simulate per-account failures.
type MockGraphAPI struct {
	Conversations map[string][]graph.Conversation
	Posts         map[string][]graph.Post

	ConversationErrors map[string]error
	PostErrors         map[string]error

	SendDirectMessageFunc func(ctx context.Context, recipientID, text, token string) (*graph.SendResponse, error)
	SendCommentReplyFunc  func(ctx context.Context, commentID, text, token string) (*graph.SendResponse, error)
	DeleteCommentFunc     func(ctx context.Context, commentID, token string) error

	DirectSends  int
	CommentSends int
	Deletes      int
}

func NewMockGraphAPI() *MockGraphAPI {
	return &MockGraphAPI{
		Conversations:      make(map[string][]graph.Conversation),
		Posts:              make(map[string][]graph.Post),
		ConversationErrors: make(map[string]error),
		PostErrors:         make(map[string]error),
	}
}

func (m *MockGraphAPI) ListConversations(ctx context.Context, pageID, token string) ([]graph.Conversation, error) {
	if err := m.ConversationErrors[pageID]; err != nil {
		return nil, err
	}
	return m.Conversations[pageID], nil
}

func (m *MockGraphAPI) ListFeed(ctx context.Context, pageID, token string) ([]graph.Post, error) {
	if err := m.PostErrors[pageID]; err != nil {
		return nil, err
	}
	return m.Posts[pageID], nil
}

func (m *MockGraphAPI) SendDirectMessage(ctx context.Context, recipientID, text, token string) (*graph.SendResponse, error) {
	m.DirectSends++
	if m.SendDirectMessageFunc != nil {
		return m.SendDirectMessageFunc(ctx, recipientID, text, token)
	}
	return &graph.SendResponse{RecipientID: recipientID, MessageID: "m_sent"}, nil
}

func (m *MockGraphAPI) SendCommentReply(ctx context.Context, commentID, text, token string) (*graph.SendResponse, error) {
	m.CommentSends++
	if m.SendCommentReplyFunc != nil {
		return m.SendCommentReplyFunc(ctx, commentID, text, token)
	}
	return &graph.SendResponse{ID: "c_sent"}, nil
}

func (m *MockGraphAPI) DeleteComment(ctx context.Context, commentID, token string) error {
	m.Deletes++
	if m.DeleteCommentFunc != nil {
		return m.DeleteCommentFunc(ctx, commentID, token)
	}
	return nil
}
