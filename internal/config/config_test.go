package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	requirex "github.com/stretchr/testify/require"

	"fbdash/internal/apperr"
)

func TestLoadDefaults(t *testing.T) {
	isolate(t, "PORT", "HTTP_TIMEOUT", "GRAPH_API_URL", "COMMENT_MESSAGE", "DISPLAY_TIMEZONE", "FACEBOOK_VERIFY_SIGNATURE")

	cfg, err := Load()
	requirex.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://graph.facebook.com/v19.0", cfg.GraphAPIURL)
	assert.Equal(t, DefaultCommentMessage, cfg.CommentMessage)
	assert.False(t, cfg.VerifySignature)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.test/abc")
	t.Setenv("FACEBOOK_ACCESS_TOKEN", "tok")
	t.Setenv("FACEBOOK_VERIFY_SIGNATURE", "true")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")

	cfg, err := Load()
	requirex.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "https://hooks.slack.test/abc", cfg.SlackWebhookURL)
	assert.True(t, cfg.VerifySignature)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)

	loc, err := cfg.Location()
	requirex.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	isolate(t)
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequireWebhook(t *testing.T) {
	cfg := &Config{}
	err := cfg.RequireWebhook()
	requirex.Error(t, err)

	var cfgErr *apperr.ConfigError
	requirex.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, []string{"SLACK_WEBHOOK_URL", "FACEBOOK_ACCESS_TOKEN"}, cfgErr.Missing)

	cfg.SlackWebhookURL = "https://hooks.slack.test"
	cfg.AccessToken = "tok"
	assert.NoError(t, cfg.RequireWebhook())
}

func TestRequireWebhookNeedsAppSecretForSignatures(t *testing.T) {
	cfg := &Config{SlackWebhookURL: "https://hooks.slack.test", AccessToken: "tok", VerifySignature: true}

	var cfgErr *apperr.ConfigError
	requirex.ErrorAs(t, cfg.RequireWebhook(), &cfgErr)
	assert.Equal(t, []string{"FACEBOOK_CLIENT_SECRET"}, cfgErr.Missing)

	cfg.AppSecret = "secret"
	assert.NoError(t, cfg.RequireWebhook())
}

func TestRequirePage(t *testing.T) {
	cfg := &Config{AccessToken: "tok"}
	err := cfg.RequirePage()
	assert.True(t, apperr.IsConfig(err))

	cfg.PageID = "123"
	assert.NoError(t, cfg.RequirePage())
}

// isolate moves into an empty directory so no .env is picked up and clears
// the given variables for the duration of the test.
func isolate(t *testing.T, keys ...string) {
	t.Helper()

	wd, err := os.Getwd()
	requirex.NoError(t, err)
	requirex.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	for _, key := range keys {
		key := key
		if prev, ok := os.LookupEnv(key); ok {
			requirex.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, prev) })
		}
	}
}
