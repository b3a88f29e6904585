package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fbdash/internal/models"
)

// DisplayTimeLayout mirrors the en-US locale date-time rendering.
const DisplayTimeLayout = "1/2/2006, 3:04:05 PM"

// MessagePoster delivers rendered text to a chat channel.
type MessagePoster interface {
	PostMessage(ctx context.Context, text string) error
}

type Notifier struct {
	poster MessagePoster
	loc    *time.Location
	logger *logrus.Logger
}

func NewNotifier(poster MessagePoster, loc *time.Location, logger *logrus.Logger) *Notifier {
	if loc == nil {
		loc = time.Local
	}
	return &Notifier{
		poster: poster,
		loc:    loc,
		logger: logger,
	}
}

// NotifyEvent renders the details and posts them as one message.
func (n *Notifier) NotifyEvent(ctx context.Context, object string, details []models.NormalizedDetail) error {
	text := RenderMessage(object, details, n.loc)
	if err := n.poster.PostMessage(ctx, text); err != nil {
		return fmt.Errorf("failed to notify slack: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"object":  object,
		"details": len(details),
	}).Info("Relayed event to Slack")
	return nil
}

// RenderMessage builds one paragraph per detail, separated by blank lines.
func RenderMessage(object string, details []models.NormalizedDetail, loc *time.Location) string {
	if object == "" {
		object = "unknown"
	}

	paragraphs := []string{fmt.Sprintf("Received %s event with %d detail(s)", object, len(details))}
	if len(details) == 0 {
		paragraphs = append(paragraphs, "No details")
	}

	for _, detail := range details {
		switch d := detail.(type) {
		case models.PostDetail:
			paragraphs = append(paragraphs, renderPost(d, loc))
		case models.MessageDetail:
			paragraphs = append(paragraphs, renderMessage(d, loc))
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

func renderPost(d models.PostDetail, loc *time.Location) string {
	lines := []string{
		"*Feed " + d.Item + "*",
		"Post ID: " + d.PostID,
		"Verb: " + d.Verb,
		"From: " + actor(d.FromName, d.FromID),
		"Message: " + d.Message,
		"Created: " + FormatTime(d.CreatedTime, loc),
	}
	return strings.Join(lines, "\n")
}

func renderMessage(d models.MessageDetail, loc *time.Location) string {
	lines := []string{
		"*Message*",
		"Sender ID: " + d.SenderID,
		"Recipient ID: " + d.RecipientID,
		"Message ID: " + d.MessageID,
		"Text: " + d.Text,
		"Commands: " + strings.Join(d.Commands, ", "),
		"Sent: " + FormatTime(d.Timestamp, loc),
	}
	return strings.Join(lines, "\n")
}

func actor(name, id string) string {
	switch {
	case name == "" && id == "":
		return "unknown"
	case id == "":
		return name
	case name == "":
		return id
	}
	return fmt.Sprintf("%s (%s)", name, id)
}

func FormatTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.In(loc).Format(DisplayTimeLayout)
}
