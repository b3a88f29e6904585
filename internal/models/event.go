package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	FieldFeed     = "feed"
	FieldMessages = "messages"

	ObjectPage = "page"
	ItemPost   = "post"
)

// FacebookEvent is the body Facebook POSTs to the webhook.
type FacebookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id,omitempty"`
	Time    int64    `json:"time,omitempty"`
	Changes []Change `json:"changes"`
}

// Change is a tagged variant keyed by Field. Exactly one of Feed or Message
// is set for the known fields; other fields keep only the raw value.
type Change struct {
	Field   string
	Feed    *FeedValue
	Message *MessageValue
	Raw     json.RawMessage
	// DecodeErr is set when a feed or messages value did not match its
	// shape. The change keeps only Raw and the rest of the event still
	// decodes.
	DecodeErr error
}

type changeJSON struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (c *Change) UnmarshalJSON(data []byte) error {
	var raw changeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Change{Field: raw.Field, Raw: raw.Value}
	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}

	switch raw.Field {
	case FieldFeed:
		var v FeedValue
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			c.DecodeErr = fmt.Errorf("decode feed change: %w", err)
			return nil
		}
		c.Feed = &v
	case FieldMessages:
		var v MessageValue
		if err := json.Unmarshal(raw.Value, &v); err != nil {
			c.DecodeErr = fmt.Errorf("decode messages change: %w", err)
			return nil
		}
		c.Message = &v
	}
	return nil
}

func (c Change) MarshalJSON() ([]byte, error) {
	var value interface{} = c.Raw
	switch {
	case c.Feed != nil:
		value = c.Feed
	case c.Message != nil:
		value = c.Message
	case len(c.Raw) == 0:
		value = nil
	}
	return json.Marshal(struct {
		Field string      `json:"field"`
		Value interface{} `json:"value"`
	}{c.Field, value})
}

// IsNewPost reports whether the change announces a post on the page feed.
func (c Change) IsNewPost() bool {
	return c.Field == FieldFeed && c.Feed != nil && c.Feed.Item == ItemPost
}

type FeedValue struct {
	Item        string `json:"item"`
	PostID      string `json:"post_id"`
	Verb        string `json:"verb"`
	Message     string `json:"message,omitempty"`
	From        Actor  `json:"from"`
	CreatedTime int64  `json:"created_time"`
}

type MessageValue struct {
	Sender    Participant `json:"sender"`
	Recipient Participant `json:"recipient"`
	Timestamp int64       `json:"timestamp"`
	Message   struct {
		MID      string    `json:"mid"`
		Text     string    `json:"text"`
		Commands []Command `json:"commands,omitempty"`
	} `json:"message"`
}

type Participant struct {
	ID string `json:"id"`
}

type Command struct {
	Name string `json:"name"`
}

// NormalizedDetail is either a PostDetail or a MessageDetail.
type NormalizedDetail interface {
	Kind() string
}

type PostDetail struct {
	PostID      string    `json:"post_id"`
	Item        string    `json:"item"`
	Verb        string    `json:"verb"`
	Message     string    `json:"message"`
	FromName    string    `json:"from_name"`
	FromID      string    `json:"from_id"`
	CreatedTime time.Time `json:"created_time"`
}

func (PostDetail) Kind() string { return FieldFeed }

type MessageDetail struct {
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Timestamp   time.Time `json:"timestamp"`
	MessageID   string    `json:"message_id"`
	Text        string    `json:"text"`
	Commands    []string  `json:"commands"`
}

func (MessageDetail) Kind() string { return FieldMessages }
