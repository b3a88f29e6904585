package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbdash/internal/apperr"
	"fbdash/internal/logger"
)

func TestSlackPostMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	log := logger.Discard()
	slack := NewSlackClient(NewHTTPClient(time.Second, log), srv.URL, log)

	require.NoError(t, slack.PostMessage(context.Background(), "hello"))
	assert.Equal(t, map[string]string{"text": "hello"}, got)
}

func TestSlackPostMessageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no_service"))
	}))
	defer srv.Close()

	log := logger.Discard()
	slack := NewSlackClient(NewHTTPClient(time.Second, log), srv.URL, log)

	err := slack.PostMessage(context.Background(), "hello")
	var upstream *apperr.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, SlackService, upstream.Service)
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
}

func TestTransportFailureIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	log := logger.Discard()
	slack := NewSlackClient(NewHTTPClient(time.Second, log), srv.URL, log)

	assert.True(t, apperr.IsUpstream(slack.PostMessage(context.Background(), "hello")))
}

func TestRedactURL(t *testing.T) {
	u, err := url.Parse("https://graph.facebook.com/v19.0/oauth/access_token?client_id=1&client_secret=s&fb_exchange_token=t")
	require.NoError(t, err)

	redacted := redactURL(u)
	assert.NotContains(t, redacted, "client_secret=s")
	assert.NotContains(t, redacted, "fb_exchange_token=t")
	assert.Contains(t, redacted, "client_id=1")

	u, err = url.Parse("https://hooks.slack.com/services/T000/B000/XXXX")
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.slack.com/services/REDACTED", redactURL(u))
}
