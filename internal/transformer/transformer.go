package transformer

import (
	"fmt"
	"time"

	"fbdash/internal/models"
)

// SkippedChange records a change that did not produce a detail.
type SkippedChange struct {
	Entry  int    `json:"entry"`
	Change int    `json:"change"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type Normalized struct {
	Details []models.NormalizedDetail
	Skipped []SkippedChange
}

type Transformer struct{}

func New() *Transformer {
	return &Transformer{}
}

// NormalizeEvent flattens every change of every entry into details, in
// entry order then change order. Unsupported or empty changes are skipped
// and reported, never left as gaps.
func (t *Transformer) NormalizeEvent(event models.FacebookEvent) Normalized {
	out := Normalized{Details: []models.NormalizedDetail{}}

	for i, entry := range event.Entry {
		for j, change := range entry.Changes {
			detail, reason := t.normalizeChange(change)
			if detail == nil {
				out.Skipped = append(out.Skipped, SkippedChange{
					Entry:  i,
					Change: j,
					Field:  change.Field,
					Reason: reason,
				})
				continue
			}
			out.Details = append(out.Details, detail)
		}
	}

	return out
}

func (t *Transformer) normalizeChange(change models.Change) (models.NormalizedDetail, string) {
	if change.DecodeErr != nil {
		return nil, change.DecodeErr.Error()
	}

	switch change.Field {
	case models.FieldFeed:
		if change.Feed == nil {
			return nil, "feed change without value"
		}
		return t.postDetail(*change.Feed), ""
	case models.FieldMessages:
		if change.Message == nil {
			return nil, "messages change without value"
		}
		return t.messageDetail(*change.Message), ""
	default:
		return nil, fmt.Sprintf("unsupported field %q", change.Field)
	}
}

func (t *Transformer) postDetail(v models.FeedValue) models.PostDetail {
	return models.PostDetail{
		PostID:      v.PostID,
		Item:        v.Item,
		Verb:        v.Verb,
		Message:     v.Message,
		FromName:    v.From.Name,
		FromID:      v.From.ID,
		CreatedTime: unixSeconds(v.CreatedTime),
	}
}

func (t *Transformer) messageDetail(v models.MessageValue) models.MessageDetail {
	commands := make([]string, 0, len(v.Message.Commands))
	for _, cmd := range v.Message.Commands {
		commands = append(commands, cmd.Name)
	}

	return models.MessageDetail{
		SenderID:    v.Sender.ID,
		RecipientID: v.Recipient.ID,
		Timestamp:   unixMillis(v.Timestamp),
		MessageID:   v.Message.MID,
		Text:        v.Message.Text,
		Commands:    commands,
	}
}

// Feed changes carry seconds.
func unixSeconds(s int64) time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(s, 0)
}

// Messenger callbacks carry milliseconds.
func unixMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
