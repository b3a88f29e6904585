package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"fbdash/internal/apperr"
	"fbdash/internal/models"
)

// maxErrorBody caps how much of a failed response is read for diagnostics.
const maxErrorBody = 64 << 10

type HTTPClient struct {
	client *http.Client
	logger *logrus.Logger
}

func NewHTTPClient(timeout time.Duration, logger *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// getJSON issues a GET and decodes a 2xx body into target.
func (c *HTTPClient) getJSON(ctx context.Context, service, op, rawURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	return c.do(req, service, op, target)
}

// postJSON marshals payload, POSTs it, and decodes a 2xx body into target
// when target is non-nil.
func (c *HTTPClient) postJSON(ctx context.Context, service, op, rawURL string, payload, target interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, service, op, target)
}

func (c *HTTPClient) do(req *http.Request, service, op string, target interface{}) error {
	start := time.Now()
	fields := logrus.Fields{
		"service": service,
		"op":      op,
		"url":     redactURL(req.URL),
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Warn("Request failed")
		return &apperr.UpstreamError{Service: service, Op: op, Err: err}
	}
	defer resp.Body.Close()

	fields["status_code"] = resp.StatusCode
	fields["duration_ms"] = time.Since(start).Milliseconds()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upstreamErr := &apperr.UpstreamError{
			Service:    service,
			Op:         op,
			StatusCode: resp.StatusCode,
		}
		var graphErr models.GraphErrorResponse
		if json.Unmarshal(body, &graphErr) == nil && graphErr.Error.Message != "" {
			upstreamErr.Message = graphErr.Error.Message
			upstreamErr.Code = graphErr.Error.Code
		}
		c.logger.WithFields(fields).WithField("upstream_message", upstreamErr.Message).Warn("Request returned error status")
		return upstreamErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return &apperr.UpstreamError{
				Service:    service,
				Op:         op,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("decode response: %w", err),
			}
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	c.logger.WithFields(fields).Debug("Request successful")
	return nil
}

// redactURL strips secrets from query strings before they reach the logs.
func redactURL(u *url.URL) string {
	clone := *u
	q := clone.Query()
	for _, key := range []string{"access_token", "client_secret", "fb_exchange_token"} {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	clone.RawQuery = q.Encode()
	// Slack webhook URLs embed their secret in the path.
	if clone.Host == "hooks.slack.com" {
		clone.Path = "/services/REDACTED"
	}
	return clone.String()
}
