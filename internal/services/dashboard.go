package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"fbdash/internal/apperr"
	"fbdash/internal/client"
	"fbdash/internal/config"
	"fbdash/internal/metrics"
	"fbdash/internal/models"
)

const (
	DefaultRangeDays = 30

	DateLayout = "2006-01-02"
)

// Dashboard fetches page data and turns it into reports. Every call is
// independent; a refreshed token is used for the retry only and is not kept.
type Dashboard struct {
	config     *config.Config
	graph      *client.GraphClient
	calculator *metrics.Calculator
	logger     *logrus.Logger
	now        func() time.Time
}

func NewDashboard(cfg *config.Config, graph *client.GraphClient, calculator *metrics.Calculator, logger *logrus.Logger) *Dashboard {
	return &Dashboard{
		config:     cfg,
		graph:      graph,
		calculator: calculator,
		logger:     logger,
		now:        time.Now,
	}
}

// DefaultRange covers the last 30 days up to now.
func (d *Dashboard) DefaultRange() models.DateRange {
	now := d.now()
	return models.DateRange{
		From: now.AddDate(0, 0, -DefaultRangeDays),
		To:   now,
	}
}

// ValidateRange checks r against the lookback window.
func (d *Dashboard) ValidateRange(r models.DateRange) error {
	return r.Validate(d.now())
}

// ParseRange reads YYYY-MM-DD bounds in loc. from starts at midnight and to
// runs to the end of its day. A missing bound keeps the DefaultRange value.
// Every failure is a MalformedInputError.
func (d *Dashboard) ParseRange(from, to string, loc *time.Location) (models.DateRange, error) {
	r := d.DefaultRange()

	if from != "" {
		t, err := time.ParseInLocation(DateLayout, from, loc)
		if err != nil {
			return r, &apperr.MalformedInputError{Err: errors.New("invalid from date format, use YYYY-MM-DD")}
		}
		r.From = t
	}

	if to != "" {
		t, err := time.ParseInLocation(DateLayout, to, loc)
		if err != nil {
			return r, &apperr.MalformedInputError{Err: errors.New("invalid to date format, use YYYY-MM-DD")}
		}
		r.To = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	if err := d.ValidateRange(r); err != nil {
		return r, &apperr.MalformedInputError{Err: err}
	}
	return r, nil
}

func (d *Dashboard) PostsReport(ctx context.Context, r models.DateRange) (*models.PostsReport, error) {
	if err := d.config.RequirePage(); err != nil {
		return nil, err
	}
	if err := d.ValidateRange(r); err != nil {
		return nil, &apperr.MalformedInputError{Err: err}
	}

	var posts []models.Post
	_, err := d.graph.WithTokenRefresh(ctx, d.config.AccessToken, func(token string) error {
		var fetchErr error
		posts, fetchErr = d.graph.FetchPosts(ctx, d.config.PageID, token, r.From, r.To)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	buckets := d.calculator.BucketByDay(posts)
	report := &models.PostsReport{
		Range:       r,
		Days:        r.Days(),
		Buckets:     buckets,
		Performance: d.calculator.CalculatePerformance(buckets, r),
		TopPosts:    d.calculator.TopPosts(posts, metrics.TopN),
		Posts:       posts,
	}

	d.logger.WithFields(logrus.Fields{
		"posts":         len(posts),
		"days":          report.Days,
		"overall_score": report.Performance.OverallScore,
	}).Info("Built posts report")
	return report, nil
}

func (d *Dashboard) VideosReport(ctx context.Context, limit int) (*models.VideosReport, error) {
	if err := d.config.RequirePage(); err != nil {
		return nil, err
	}

	var videos []models.Video
	_, err := d.graph.WithTokenRefresh(ctx, d.config.AccessToken, func(token string) error {
		var fetchErr error
		videos, fetchErr = d.graph.FetchVideos(ctx, d.config.PageID, token, limit)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	report := &models.VideosReport{Videos: make([]models.VideoStats, 0, len(videos))}
	report.Targets.Likes = metrics.VideoLikeTarget
	report.Targets.Comments = metrics.VideoCommentTarget
	for _, video := range videos {
		report.Videos = append(report.Videos, d.calculator.VideoStats(video))
	}

	d.logger.WithField("videos", len(videos)).Info("Built videos report")
	return report, nil
}

func (d *Dashboard) InsightsReport(ctx context.Context) (*models.InsightsReport, error) {
	if err := d.config.RequirePage(); err != nil {
		return nil, err
	}

	var insights *models.Insights
	_, err := d.graph.WithTokenRefresh(ctx, d.config.AccessToken, func(token string) error {
		var fetchErr error
		insights, fetchErr = d.graph.FetchPageInsights(ctx, d.config.PageID, token)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	report := &models.InsightsReport{
		Metrics: insights.Data,
		Series:  d.calculator.InsightSeries(insights),
	}
	if report.Metrics == nil {
		report.Metrics = []models.InsightMetric{}
	}

	d.logger.WithField("metrics", len(report.Metrics)).Info("Built insights report")
	return report, nil
}
