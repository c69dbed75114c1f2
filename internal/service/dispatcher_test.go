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

func TestDispatchDirect(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	var gotRecipient, gotToken string
	api.SendDirectMessageFunc = func(ctx context.Context, recipientID, text, token string) (*graph.SendResponse, error) {
		gotRecipient = recipientID
		gotToken = token
		return &graph.SendResponse{RecipientID: recipientID, MessageID: "m_99"}, nil
	}

	d := newDispatcher(testAccounts(), api, zerolog.Nop())
	outcome, err := d.Dispatch(context.Background(), models.ReplyRequest{
		PageID:      "P1",
		ThreadID:    "U1",
		MessageType: "direct",
		Message:     "hello",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Status != models.ReplyStatusSent {
		t.Errorf("status = %q, want sent", outcome.Status)
	}
	if outcome.CommentID != "m_99" {
		t.Errorf("comment_id = %q, want m_99", outcome.CommentID)
	}
	if gotRecipient != "U1" {
		t.Errorf("recipient = %q, want thread_id U1", gotRecipient)
	}
	if gotToken != "t1" {
		t.Errorf("token = %q, want the matched account's token", gotToken)
	}
	if api.CommentSends != 0 {
		t.Error("direct reply must not hit the comment endpoint")
	}
}

func TestDispatchFeed(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	var gotComment string
	api.SendCommentReplyFunc = func(ctx context.Context, commentID, text, token string) (*graph.SendResponse, error) {
		gotComment = commentID
		return &graph.SendResponse{ID: "c_77"}, nil
	}

	d := newDispatcher(testAccounts(), api, zerolog.Nop())
	outcome, err := d.Dispatch(context.Background(), models.ReplyRequest{
		PageID:      "P2",
		ThreadID:    "c_original",
		MessageType: "feed",
		Message:     "thanks",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Status != models.ReplyStatusSent || outcome.CommentID != "c_77" {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
	if gotComment != "c_original" {
		t.Errorf("comment target = %q, want thread_id c_original", gotComment)
	}
}

func TestDispatchValidation(t *testing.T) {
	duplicated := []models.Account{
		{ID: "P1", Token: "t1"},
		{ID: "P1", Token: "t1-bis"},
	}

	tests := []struct {
		name     string
		accounts []models.Account
		req      models.ReplyRequest
	}{
		{
			name:     "unknown account",
			accounts: testAccounts(),
			req:      models.ReplyRequest{PageID: "P99", ThreadID: "U1", MessageType: "direct", Message: "x"},
		},
		{
			name:     "ambiguous account",
			accounts: duplicated,
			req:      models.ReplyRequest{PageID: "P1", ThreadID: "U1", MessageType: "direct", Message: "x"},
		},
		{
			name:     "missing message type",
			accounts: testAccounts(),
			req:      models.ReplyRequest{PageID: "P1", ThreadID: "U1", Message: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := mocks.NewMockGraphAPI()
			d := newDispatcher(tt.accounts, api, zerolog.Nop())

			_, err := d.Dispatch(context.Background(), tt.req)

			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("got %v, want *models.ValidationError", err)
			}
			if api.DirectSends != 0 || api.CommentSends != 0 {
				t.Error("no transport call may happen on validation failure")
			}
		})
	}
}

func TestDispatchUnknownTypeIsUnhandled(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	d := newDispatcher(testAccounts(), api, zerolog.Nop())

	outcome, err := d.Dispatch(context.Background(), models.ReplyRequest{
		PageID:      "P1",
		ThreadID:    "U1",
		MessageType: "story",
		Message:     "x",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if outcome.Status != models.ReplyStatusUnhandled {
		t.Errorf("status = %q, want unhandled", outcome.Status)
	}
	if api.DirectSends != 0 || api.CommentSends != 0 {
		t.Error("unhandled type must not reach a transport action")
	}
}

func TestDispatchTransportFailure(t *testing.T) {
	api := mocks.NewMockGraphAPI()
	api.SendDirectMessageFunc = func(ctx context.Context, recipientID, text, token string) (*graph.SendResponse, error) {
		return nil, &graph.APIError{StatusCode: 403, Message: "This person isn't available right now"}
	}

	d := newDispatcher(testAccounts(), api, zerolog.Nop())
	outcome, err := d.Dispatch(context.Background(), models.ReplyRequest{
		PageID:      "P1",
		ThreadID:    "U1",
		MessageType: "direct",
		Message:     "x",
	})
	if err != nil {
		t.Fatalf("transport failures report through the outcome, got error %v", err)
	}

	if outcome.Status != models.ReplyStatusTransportFailed {
		t.Errorf("status = %q, want transport_failed", outcome.Status)
	}
	if outcome.Error == "" {
		t.Error("outcome must carry the transport error text")
	}
}
