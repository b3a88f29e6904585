package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fbdash/internal/app"
	"fbdash/internal/config"
	"fbdash/internal/logger"
	"fbdash/internal/models"
)

func testRuntime(t *testing.T, cfg *config.Config, handler http.HandlerFunc) (*runtime, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg.GraphAPIURL = srv.URL
	cfg.HTTPTimeout = 5 * time.Second
	cfg.DisplayTimezone = "UTC"

	out := &bytes.Buffer{}
	return &runtime{
		globals: &GlobalFlags{},
		out:     out,
		open: func(bool) (*app.App, error) {
			return app.New(cfg, logger.Discard())
		},
	}, out
}

func pageConfig() *config.Config {
	return &config.Config{PageID: "page-1", AccessToken: "tok"}
}

func TestVideosCommand(t *testing.T) {
	var limit string
	rt, out := testRuntime(t, pageConfig(), func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data": [{"id": "v1", "length": 3725, "likes": {"summary": {"total_count": 100}}}]}`))
	})

	require.NoError(t, run(rt, []string{"videos", "--limit", "3"}))
	assert.Equal(t, "3", limit)

	var report models.VideosReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Len(t, report.Videos, 1)
	assert.Equal(t, "1:02:05", report.Videos[0].Duration)
	assert.Equal(t, 100, report.Videos[0].PerformanceScore)
	assert.Contains(t, out.String(), "\n  \"targets\"")
}

func TestVideosCommandDefaultLimit(t *testing.T) {
	var limit string
	rt, _ := testRuntime(t, pageConfig(), func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		w.Write([]byte(`{"data": []}`))
	})

	require.NoError(t, run(rt, []string{"videos"}))
	assert.Equal(t, "20", limit)
}

func TestVideosCommandRejectsBadLimit(t *testing.T) {
	calls := 0
	rt, _ := testRuntime(t, pageConfig(), func(w http.ResponseWriter, r *http.Request) { calls++ })

	assert.Error(t, run(rt, []string{"videos", "--limit", "0"}))
	assert.Zero(t, calls)
}

func TestPostsCommand(t *testing.T) {
	var path string
	rt, out := testRuntime(t, pageConfig(), func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"data": []}`))
	})

	from := time.Now().UTC().AddDate(0, 0, -6).Format("2006-01-02")
	to := time.Now().UTC().Format("2006-01-02")
	require.NoError(t, run(rt, []string{"posts", "--from", from, "--to", to}))
	assert.Equal(t, "/page-1/posts", path)

	var report models.PostsReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.Equal(t, 7, report.Days)
	assert.Empty(t, report.Buckets)
	assert.Equal(t, 105.0, report.Performance.PeriodTargets.Posts)
}

func TestPostsCommandBadDate(t *testing.T) {
	rt, _ := testRuntime(t, pageConfig(), func(w http.ResponseWriter, r *http.Request) {})

	assert.Error(t, run(rt, []string{"posts", "--from", "last week"}))
}

func TestInsightsCommandRequiresPage(t *testing.T) {
	rt, out := testRuntime(t, &config.Config{AccessToken: "tok"}, func(w http.ResponseWriter, r *http.Request) {})

	assert.Error(t, run(rt, []string{"insights"}))
	assert.Zero(t, out.Len())
}

func TestUnknownCommand(t *testing.T) {
	rt, _ := testRuntime(t, pageConfig(), func(w http.ResponseWriter, r *http.Request) {})

	assert.Error(t, run(rt, []string{"reels"}))
}
