package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"fbdash/internal/client"
	"fbdash/internal/config"
	"fbdash/internal/logger"
	"fbdash/internal/metrics"
	"fbdash/internal/notify"
	"fbdash/internal/services"
	"fbdash/internal/transformer"
	"fbdash/internal/webhook"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// upstream fakes Slack and the Graph API on one server and counts calls.
type upstream struct {
	mu           sync.Mutex
	slackTexts   []string
	comments     []map[string]string
	graphGets    []string
	slackStatus  int
	commentFails bool
	graphBody    string
}

func (u *upstream) total() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.slackTexts) + len(u.comments) + len(u.graphGets)
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch {
	case r.URL.Path == "/slack":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		u.slackTexts = append(u.slackTexts, body["text"])
		if u.slackStatus != 0 {
			w.WriteHeader(u.slackStatus)
			return
		}
		w.Write([]byte("ok"))
	case strings.HasSuffix(r.URL.Path, "/comments") && r.Method == http.MethodPost:
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["path"] = r.URL.Path
		u.comments = append(u.comments, body)
		if u.commentFails {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": {"message": "Permissions error", "code": 200}}`))
			return
		}
		w.Write([]byte(`{"id": "c"}`))
	default:
		u.graphGets = append(u.graphGets, r.URL.Path)
		body := u.graphBody
		if body == "" {
			body = `{"data": []}`
		}
		w.Write([]byte(body))
	}
}

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		GraphAPIURL:     baseURL + "/graph",
		SlackWebhookURL: baseURL + "/slack",
		AccessToken:     "page-token",
		AppID:           "app",
		AppSecret:       "app-secret",
		VerifyToken:     "verify-me",
		PageID:          "page-1",
		CommentMessage:  config.DefaultCommentMessage,
		CORSOrigins:     []string{"http://localhost:3000"},
	}
}

func newTestRouter(t *testing.T, mutate func(*config.Config)) (*gin.Engine, *upstream) {
	t.Helper()
	up := &upstream{}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	if mutate != nil {
		mutate(cfg)
	}

	log := logger.Discard()
	httpClient := client.NewHTTPClient(5*time.Second, log)
	graph := client.NewGraphClient(httpClient, cfg.GraphAPIURL, cfg.AppID, cfg.AppSecret, log)
	slack := client.NewSlackClient(httpClient, cfg.SlackWebhookURL, log)
	processor := webhook.NewProcessor(transformer.New(), notify.NewNotifier(slack, time.UTC, log), graph,
		cfg.AccessToken, cfg.CommentMessage, log)
	dashboard := services.NewDashboard(cfg, graph, metrics.NewCalculator(time.UTC), log)

	return New(cfg, dashboard, processor, time.UTC, log).Router(), up
}

func do(router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/healthz", "", map[string]string{RequestIDHeader: "abc"})
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestCORSOnAnalytics(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/api/analytics/videos", "", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfigWildcard(t *testing.T) {
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.Equal(t, []string{"http://a.test"}, corsConfig([]string{"http://a.test"}).AllowOrigins)
}
