package webhook

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"fbdash/internal/apperr"
	"fbdash/internal/models"
	"fbdash/internal/transformer"
)

const (
	StepNotify  = "notify"
	StepComment = "comment"
)

type EventNotifier interface {
	NotifyEvent(ctx context.Context, object string, details []models.NormalizedDetail) error
}

type Commenter interface {
	PostComment(ctx context.Context, postID, token, message string) error
}

// StepResult is the outcome of one outbound call. Target is the post id
// for comment steps.
type StepResult struct {
	Step   string
	Target string
	Err    error
}

type Result struct {
	Details []models.NormalizedDetail
	Skipped []transformer.SkippedChange
	Steps   []StepResult
}

// Err joins every failed step, or returns nil when all succeeded.
func (r Result) Err() error {
	var errs []error
	for _, step := range r.Steps {
		if step.Err != nil {
			errs = append(errs, step.Err)
		}
	}
	return errors.Join(errs...)
}

func (r Result) OK() bool {
	return r.Err() == nil
}

// Comments counts attempted comment posts.
func (r Result) Comments() int {
	n := 0
	for _, step := range r.Steps {
		if step.Step == StepComment {
			n++
		}
	}
	return n
}

type Processor struct {
	transformer    *transformer.Transformer
	notifier       EventNotifier
	commenter      Commenter
	accessToken    string
	commentMessage string
	logger         *logrus.Logger
}

func NewProcessor(t *transformer.Transformer, notifier EventNotifier, commenter Commenter,
	accessToken, commentMessage string, logger *logrus.Logger) *Processor {
	return &Processor{
		transformer:    t,
		notifier:       notifier,
		commenter:      commenter,
		accessToken:    accessToken,
		commentMessage: commentMessage,
		logger:         logger,
	}
}

// Decode parses a webhook body.
func Decode(body []byte) (models.FacebookEvent, error) {
	var event models.FacebookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return models.FacebookEvent{}, &apperr.MalformedInputError{Err: err}
	}
	return event, nil
}

// Process relays the event to Slack and then comments on every new feed
// post. A failed Slack delivery does not stop the comment step, and a failed
// comment does not stop the remaining ones; all failures land in the Result.
func (p *Processor) Process(ctx context.Context, event models.FacebookEvent) Result {
	normalized := p.transformer.NormalizeEvent(event)
	result := Result{
		Details: normalized.Details,
		Skipped: normalized.Skipped,
	}

	for _, skipped := range normalized.Skipped {
		p.logger.WithFields(logrus.Fields{
			"entry":  skipped.Entry,
			"change": skipped.Change,
			"field":  skipped.Field,
		}).Debug("Skipped change: " + skipped.Reason)
	}

	err := p.notifier.NotifyEvent(ctx, event.Object, normalized.Details)
	if err != nil {
		p.logger.WithError(err).Error("Slack delivery failed, continuing with comments")
	}
	result.Steps = append(result.Steps, StepResult{Step: StepNotify, Err: err})

	if event.Object != models.ObjectPage {
		return result
	}

	for _, entry := range event.Entry {
		for _, change := range entry.Changes {
			if !change.IsNewPost() {
				continue
			}
			postID := change.Feed.PostID
			err := p.commenter.PostComment(ctx, postID, p.accessToken, p.commentMessage)
			if err != nil {
				p.logger.WithError(err).WithField("post_id", postID).Error("Failed to post comment")
			}
			result.Steps = append(result.Steps, StepResult{Step: StepComment, Target: postID, Err: err})
		}
	}

	return result
}
