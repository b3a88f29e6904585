package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fbdash/internal/apperr"
	"fbdash/internal/models"
)

const (
	GraphService = "graph"

	DefaultVideoLimit = 20

	// postsPageSize is the per-page limit requested for posts; maxPostPages
	// bounds how many paging.next links FetchPosts follows.
	postsPageSize = 100
	maxPostPages  = 50

	// Graph returns code 190 for expired or otherwise invalid tokens.
	invalidTokenCode    = 190
	invalidTokenMessage = "Error validating access token"
)

const (
	postFields  = "id,message,created_time,admin_creator{name,id},from{name,id},likes.summary(true),comments.summary(true),shares,insights.metric(post_impressions,post_engagements)"
	videoFields = "id,title,description,created_time,updated_time,length,views,likes.summary(true),comments.summary(true),source,picture,insights.metric(total_video_views,total_video_view_time,total_video_views_unique,total_video_views_autoplayed,total_video_complete_views,total_video_views_clicked_to_play)"
)

var PageInsightMetrics = []string{
	"page_total_actions",
	"page_daily_follows_unique",
	"page_daily_unfollows_unique",
	"page_post_engagements",
	"page_posts_impressions",
	"page_lifetime_engaged_followers_unique",
	"page_follows",
	"page_impressions_unique",
	"creator_monetization_qualified_views",
	"post_video_ad_break_earnings",
	"post_video_ad_break_ad_impressions",
	"page_video_views",
}

type GraphClient struct {
	http      *HTTPClient
	baseURL   string
	appID     string
	appSecret string
	logger    *logrus.Logger
}

func NewGraphClient(httpClient *HTTPClient, baseURL, appID, appSecret string, logger *logrus.Logger) *GraphClient {
	return &GraphClient{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		appID:     appID,
		appSecret: appSecret,
		logger:    logger,
	}
}

func (g *GraphClient) FetchPosts(ctx context.Context, pageID, token string, since, until time.Time) ([]models.Post, error) {
	params := url.Values{
		"access_token": {token},
		"fields":       {postFields},
		"since":        {strconv.FormatInt(since.Unix(), 10)},
		"until":        {strconv.FormatInt(until.Unix(), 10)},
		"limit":        {strconv.Itoa(postsPageSize)},
	}

	posts := []models.Post{}
	next := g.endpoint(pageID, "posts", params)
	pages := 0
	for next != "" && pages < maxPostPages {
		var resp models.PostsResponse
		if err := g.http.getJSON(ctx, GraphService, "fetch posts", next, &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch posts: %w", err)
		}
		posts = append(posts, resp.Data...)
		pages++
		next = resp.Paging.Next
		if len(resp.Data) == 0 {
			next = ""
		}
	}
	if next != "" && pages == maxPostPages {
		g.logger.WithField("page_id", pageID).Warn("Stopped following posts paging at page limit")
	}

	g.logger.WithFields(logrus.Fields{
		"page_id": pageID,
		"records": len(posts),
		"pages":   pages,
	}).Info("Fetched posts")
	return posts, nil
}

func (g *GraphClient) FetchVideos(ctx context.Context, pageID, token string, limit int) ([]models.Video, error) {
	if limit <= 0 {
		limit = DefaultVideoLimit
	}
	params := url.Values{
		"access_token": {token},
		"fields":       {videoFields},
		"limit":        {strconv.Itoa(limit)},
	}

	var resp models.VideosResponse
	if err := g.http.getJSON(ctx, GraphService, "fetch videos", g.endpoint(pageID, "videos", params), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch videos: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"page_id": pageID,
		"records": len(resp.Data),
	}).Info("Fetched videos")
	return resp.Data, nil
}

func (g *GraphClient) FetchPageInsights(ctx context.Context, pageID, token string) (*models.Insights, error) {
	params := url.Values{
		"access_token": {token},
		"metric":       {strings.Join(PageInsightMetrics, ",")},
		"period":       {"day"},
	}

	var resp models.Insights
	if err := g.http.getJSON(ctx, GraphService, "fetch insights", g.endpoint(pageID, "insights", params), &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch page insights: %w", err)
	}

	g.logger.WithFields(logrus.Fields{
		"page_id": pageID,
		"metrics": len(resp.Data),
	}).Info("Fetched page insights")
	return &resp, nil
}

// RefreshAccessToken exchanges a long-lived token for a fresh one. Any
// failure is reported as an AuthError.
func (g *GraphClient) RefreshAccessToken(ctx context.Context, currentToken string) (string, error) {
	params := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {g.appID},
		"client_secret":     {g.appSecret},
		"fb_exchange_token": {currentToken},
	}

	var resp models.TokenResponse
	if err := g.http.getJSON(ctx, GraphService, "refresh token", g.endpoint("oauth", "access_token", params), &resp); err != nil {
		return "", &apperr.AuthError{Err: err}
	}
	if resp.AccessToken == "" {
		return "", &apperr.AuthError{Err: errors.New("response carried no access_token")}
	}

	g.logger.Info("Refreshed access token")
	return resp.AccessToken, nil
}

func (g *GraphClient) PostComment(ctx context.Context, postID, token, message string) error {
	payload := map[string]string{
		"message":      message,
		"access_token": token,
	}
	if err := g.http.postJSON(ctx, GraphService, "post comment", g.endpoint(postID, "comments", nil), payload, nil); err != nil {
		return fmt.Errorf("failed to comment on post %s: %w", postID, err)
	}

	g.logger.WithField("post_id", postID).Info("Posted comment")
	return nil
}

// WithTokenRefresh runs call with token. If Graph rejects the token, it is
// refreshed once and call is retried once with the new token. The token used
// by the final attempt is returned.
func (g *GraphClient) WithTokenRefresh(ctx context.Context, token string, call func(token string) error) (string, error) {
	err := call(token)
	if err == nil || !IsInvalidToken(err) {
		return token, err
	}

	g.logger.WithError(err).Warn("Access token rejected, refreshing")
	refreshed, refreshErr := g.RefreshAccessToken(ctx, token)
	if refreshErr != nil {
		return token, refreshErr
	}
	return refreshed, call(refreshed)
}

// IsInvalidToken reports whether err is Graph rejecting the access token.
func IsInvalidToken(err error) bool {
	var upstream *apperr.UpstreamError
	if !errors.As(err, &upstream) {
		return false
	}
	return upstream.Code == invalidTokenCode || strings.Contains(upstream.Message, invalidTokenMessage)
}

func (g *GraphClient) endpoint(node, edge string, params url.Values) string {
	u := g.baseURL + "/" + url.PathEscape(node) + "/" + edge
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}
