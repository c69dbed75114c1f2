package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// graphVersion is the pinned API version used for outbound actions
const graphVersion = "v9.0"

// Client is an HTTP client for the Graph API. Credentials are passed per call
// as an access_token query parameter; the client itself holds none.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Graph API client
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "graph").Logger(),
	}
}

// page is one page of a cursor-linked paginated response
type page struct {
	Data   []json.RawMessage `json:"data"`
	Paging *paging           `json:"paging"`
}

type paging struct {
	Next string `json:"next"`
}

// fetchAll drains a paginated resource into a single ordered collection,
// following the next-page cursor until the response carries none. Failures
// propagate immediately; there is no retry at this layer.
func (c *Client) fetchAll(ctx context.Context, requestURL string) ([]json.RawMessage, error) {
	var results []json.RawMessage

	for requestURL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, newAPIError(resp.StatusCode, body)
		}

		var p page
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		results = append(results, p.Data...)

		requestURL = ""
		if p.Paging != nil {
			requestURL = p.Paging.Next
		}
	}

	return results, nil
}

// ListConversations fetches all direct-message conversations of a page
func (c *Client) ListConversations(ctx context.Context, pageID, token string) ([]Conversation, error) {
	fields := "messages{" + strings.Join([]string{
		"message", "attachments", "shares", "from", "created_time",
	}, ",") + "}"

	values := url.Values{}
	values.Set("fields", fields)
	values.Set("access_token", token)
	values.Set("limit", "1")

	requestURL := fmt.Sprintf("%s/%s/conversations?%s", c.baseURL, url.PathEscape(pageID), values.Encode())

	records, err := c.fetchAll(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	conversations := make([]Conversation, 0, len(records))
	for _, record := range records {
		var conv Conversation
		if err := json.Unmarshal(record, &conv); err != nil {
			return nil, fmt.Errorf("failed to decode conversation: %w", err)
		}
		conversations = append(conversations, conv)
	}

	return conversations, nil
}

// ListFeed fetches all feed posts of a page with two levels of comments
func (c *Client) ListFeed(ctx context.Context, pageID, token string) ([]Post, error) {
	fields := strings.Join([]string{
		"from",
		"to",
		"message",
		"created_time",
		"updated_time",
		"comments{from,created_time,message,comments{from,message,created_time}}",
	}, ",")

	values := url.Values{}
	values.Set("fields", fields)
	values.Set("access_token", token)

	requestURL := fmt.Sprintf("%s/%s/feed?%s", c.baseURL, url.PathEscape(pageID), values.Encode())

	records, err := c.fetchAll(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(records))
	for _, record := range records {
		var post Post
		if err := json.Unmarshal(record, &post); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// SendDirectMessage sends a direct message reply to a recipient
func (c *Client) SendDirectMessage(ctx context.Context, recipientID, text, token string) (*SendResponse, error) {
	values := url.Values{}
	values.Set("access_token", token)

	requestURL := fmt.Sprintf("%s/%s/me/messages?%s", c.baseURL, graphVersion, values.Encode())

	payload := map[string]interface{}{
		"messaging_type": "RESPONSE",
		"recipient":      map[string]string{"id": recipientID},
		"message":        map[string]string{"text": text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}

	return c.send(ctx, http.MethodPost, requestURL, bytes.NewReader(body), "application/json")
}

// SendCommentReply attaches a reply to an existing feed comment
func (c *Client) SendCommentReply(ctx context.Context, commentID, text, token string) (*SendResponse, error) {
	values := url.Values{}
	values.Set("message", text)
	values.Set("access_token", token)

	requestURL := fmt.Sprintf("%s/%s/%s/comments?%s",
		c.baseURL, graphVersion, url.PathEscape(commentID), values.Encode())

	return c.send(ctx, http.MethodPost, requestURL, nil, "")
}

// DeleteComment removes a feed comment
func (c *Client) DeleteComment(ctx context.Context, commentID, token string) error {
	values := url.Values{}
	values.Set("access_token", token)

	requestURL := fmt.Sprintf("%s/%s/%s?%s",
		c.baseURL, graphVersion, url.PathEscape(commentID), values.Encode())

	_, err := c.send(ctx, http.MethodDelete, requestURL, nil, "")
	return err
}

// send executes an outbound action and decodes the send response
func (c *Client) send(ctx context.Context, method, requestURL string, body io.Reader, contentType string) (*SendResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	var result SendResponse
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return &result, nil
}
