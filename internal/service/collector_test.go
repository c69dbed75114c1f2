package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/social-media-monitor/internal/graph"
	"github.com/social-media-monitor/internal/mocks"
	"github.com/social-media-monitor/internal/models"
)

func testAccounts() []models.Account {
	return []models.Account{
		{ID: "P1", Token: "t1"},
		{ID: "P2", Token: "t2"},
	}
}

func conversationFixture(id, sender string) graph.Conversation {
	return graph.Conversation{
		ID: id,
		Messages: &graph.MessageList{Data: []graph.Message{
			{ID: id + "_m1", Message: "hi", CreatedTime: "2021-01-01T10:00:00+0000", From: &graph.Actor{ID: sender}},
		}},
	}
}

func postFixture(id string) graph.Post {
	return graph.Post{
		ID:          id,
		Message:     "post body",
		CreatedTime: "2021-01-01T09:00:00+0000",
		From:        &graph.Actor{ID: "P1"},
	}
}

func TestCollectMergesDirectAndFeed(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	api.Conversations["P1"] = []graph.Conversation{conversationFixture("t_1", "U1")}
	api.Posts["P1"] = []graph.Post{postFixture("post_1")}

	c := newCollector([]models.Account{{ID: "P1", Token: "t1"}}, api, zerolog.Nop())
	set := c.Collect(context.Background())

	if len(set.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", set.Errors)
	}
	if len(set.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(set.Messages))
	}

	// Direct results precede feed results
	if set.Messages[0].MessageType != models.MessageTypeDirect {
		t.Errorf("messages[0] type = %q, want direct", set.Messages[0].MessageType)
	}
	if set.Messages[1].MessageType != models.MessageTypeFeed {
		t.Errorf("messages[1] type = %q, want feed", set.Messages[1].MessageType)
	}
}

func TestCollectIsolatesAccountFailures(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	api.ConversationErrors["P1"] = &graph.APIError{StatusCode: 400, Message: "Invalid OAuth access token"}
	api.PostErrors["P1"] = &graph.APIError{StatusCode: 400, Message: "Invalid OAuth access token"}
	api.Conversations["P2"] = []graph.Conversation{conversationFixture("t_2", "U2")}
	api.Posts["P2"] = []graph.Post{postFixture("post_2")}

	c := newCollector(testAccounts(), api, zerolog.Nop())
	set := c.Collect(context.Background())

	if len(set.Messages) != 2 {
		t.Fatalf("got %d messages, want 2 (only P2's results)", len(set.Messages))
	}
	for _, thread := range set.Messages {
		if thread.PageID != "P2" {
			t.Errorf("thread %q belongs to failed account %q", thread.ID, thread.PageID)
		}
	}

	// The identical direct and feed failures collapse to one record
	if len(set.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(set.Errors), set.Errors)
	}
	if set.Errors[0].ID != "P1" || set.Errors[0].Message != "Invalid OAuth access token" {
		t.Errorf("unexpected error record: %+v", set.Errors[0])
	}
}

func TestCollectUnknownErrorFallback(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	api.ConversationErrors["P1"] = errors.New("connection refused")
	api.PostErrors["P1"] = errors.New("connection refused")

	c := newCollector([]models.Account{{ID: "P1", Token: "t1"}}, api, zerolog.Nop())
	set := c.Collect(context.Background())

	if len(set.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(set.Errors), set.Errors)
	}
	if set.Errors[0].Message != "Unknown error" {
		t.Errorf("error message = %q, want Unknown error", set.Errors[0].Message)
	}
}

func TestDedupErrors(t *testing.T) {
	records := []models.ErrorRecord{
		{ID: "P1", Message: "Rate limit exceeded now"},
		{ID: "P1", Message: "Rate limit exceeded later"},
		{ID: "P2", Message: "Rate limit exceeded now"},
		{ID: "P1", Message: "Token expired"},
	}

	result := dedupErrors(records)

	if len(result) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(result), result)
	}
	// First occurrence wins
	if result[0].ID != "P1" || result[0].Message != "Rate limit exceeded now" {
		t.Errorf("result[0] = %+v", result[0])
	}
	if result[1].ID != "P2" {
		t.Errorf("result[1] = %+v, want P2 record", result[1])
	}
	if result[2].Message != "Token expired" {
		t.Errorf("result[2] = %+v, want token expired record", result[2])
	}
}

func TestDedupErrorsShortMessages(t *testing.T) {
	records := []models.ErrorRecord{
		{ID: "P1", Message: "bad"},
		{ID: "P1", Message: "bad"},
		{ID: "P1", Message: "worse"},
	}

	result := dedupErrors(records)
	if len(result) != 2 {
		t.Fatalf("got %d records, want 2: %v", len(result), result)
	}
}

func TestCollectDropsEmptyConversations(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	api.Conversations["P1"] = []graph.Conversation{
		{ID: "t_empty", Messages: &graph.MessageList{}},
		conversationFixture("t_ok", "U1"),
	}

	c := newCollector([]models.Account{{ID: "P1", Token: "t1"}}, api, zerolog.Nop())
	set := c.Collect(context.Background())

	if len(set.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(set.Messages))
	}
	if set.Messages[0].ID != "t_ok" {
		t.Errorf("kept thread = %q, want t_ok", set.Messages[0].ID)
	}
}
