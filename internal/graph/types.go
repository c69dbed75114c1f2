package graph

// Actor identifies the sender of a message or comment
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Message is a single direct message inside a conversation
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	CreatedTime string `json:"created_time"`
	From        *Actor `json:"from"`
}

// MessageList is the embedded messages collection of a conversation
type MessageList struct {
	Data []Message `json:"data"`
}

// ParticipantList is the embedded participants collection of a conversation
type ParticipantList struct {
	Data []Actor `json:"data"`
}

// Conversation is one direct-message thread as delivered by the API. Messages
// arrive newest-first.
type Conversation struct {
	ID           string           `json:"id"`
	Messages     *MessageList     `json:"messages"`
	Participants *ParticipantList `json:"participants"`
}

// Comment is a feed comment, possibly carrying one level of nested replies
type Comment struct {
	ID          string       `json:"id"`
	Message     string       `json:"message"`
	CreatedTime string       `json:"created_time"`
	From        *Actor       `json:"from"`
	Comments    *CommentList `json:"comments"`
}

// CommentList is the embedded comments collection of a post or comment
type CommentList struct {
	Data []Comment `json:"data"`
}

// Post is one feed post with its attached comments
type Post struct {
	ID          string       `json:"id"`
	Message     string       `json:"message"`
	CreatedTime string       `json:"created_time"`
	UpdatedTime string       `json:"updated_time"`
	From        *Actor       `json:"from"`
	Comments    *CommentList `json:"comments"`
}

// SendResponse is the API response to an outbound send. Direct sends return
// recipient_id/message_id, comment replies return the new comment id.
type SendResponse struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

// CommentID returns the identifier of the comment created by a send,
// whichever field the API populated
func (r *SendResponse) CommentID() string {
	if r.ID != "" {
		return r.ID
	}
	return r.MessageID
}
