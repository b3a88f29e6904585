package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports a required setting that was not provided.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing configuration: " + strings.Join(e.Missing, ", ")
}

// MalformedInputError wraps a request body that could not be decoded.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// UpstreamError is returned for transport failures and non-2xx responses
// from Slack or the Graph API. Message carries the upstream error text for
// logs only.
type UpstreamError struct {
	Service    string
	Op         string
	StatusCode int
	Code       int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s failed", e.Service, e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// AuthError is returned when an access token could not be refreshed.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to refresh access token: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func IsConfig(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

func IsMalformed(err error) bool {
	var target *MalformedInputError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target *UpstreamError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}
