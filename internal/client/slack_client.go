package client

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const SlackService = "slack"

type SlackClient struct {
	http       *HTTPClient
	webhookURL string
	logger     *logrus.Logger
}

func NewSlackClient(httpClient *HTTPClient, webhookURL string, logger *logrus.Logger) *SlackClient {
	return &SlackClient{
		http:       httpClient,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// PostMessage sends {"text": text} to the incoming webhook.
func (s *SlackClient) PostMessage(ctx context.Context, text string) error {
	payload := map[string]string{"text": text}
	if err := s.http.postJSON(ctx, SlackService, "post message", s.webhookURL, payload, nil); err != nil {
		return fmt.Errorf("failed to post slack message: %w", err)
	}

	s.logger.WithField("chars", len(text)).Info("Posted Slack message")
	return nil
}
