package models

import (
	"errors"
	"time"
)

// MaxLookbackMonths bounds how far back a DateRange may start.
const MaxLookbackMonths = 24

type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate checks ordering and the lookback window relative to now.
func (r DateRange) Validate(now time.Time) error {
	if r.From.IsZero() || r.To.IsZero() {
		return errors.New("date range requires both from and to")
	}
	if r.To.Before(r.From) {
		return errors.New("date range end is before its start")
	}
	earliest := now.AddDate(0, -MaxLookbackMonths, 0)
	if r.From.Before(earliest) {
		return errors.New("date range starts more than 24 months ago")
	}
	return nil
}

// Days is the inclusive number of calendar days covered, each bound read in
// its own location. Daylight-saving shifts do not change the count.
func (r DateRange) Days() int {
	return int(calendarDay(r.To).Sub(calendarDay(r.From))/(24*time.Hour)) + 1
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MetricSet holds one number per engagement metric.
type MetricSet struct {
	Posts    float64 `json:"posts"`
	Likes    float64 `json:"likes"`
	Comments float64 `json:"comments"`
	Shares   float64 `json:"shares"`
}

type DailyBucket struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	PostCount int    `json:"post_count"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
	Shares    int    `json:"shares"`
}

type Performance struct {
	Totals        MetricSet `json:"totals"`
	PeriodTargets MetricSet `json:"period_targets"`
	Scores        MetricSet `json:"scores"`
	OverallScore  float64   `json:"overall_score"`
	Levels        Levels    `json:"levels"`
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Levels struct {
	Posts    Level `json:"posts"`
	Likes    Level `json:"likes"`
	Comments Level `json:"comments"`
	Shares   Level `json:"shares"`
	Overall  Level `json:"overall"`
}

type TopPosts struct {
	ByLikes    []Post `json:"by_likes"`
	ByComments []Post `json:"by_comments"`
	ByShares   []Post `json:"by_shares"`
}

type PostsReport struct {
	Range       DateRange     `json:"range"`
	Days        int           `json:"days"`
	Buckets     []DailyBucket `json:"buckets"`
	Performance Performance   `json:"performance"`
	TopPosts    TopPosts      `json:"top_posts"`
	Posts       []Post        `json:"posts"`
}

type VideoStats struct {
	Video            Video  `json:"video"`
	Likes            int    `json:"likes"`
	Comments         int    `json:"comments"`
	Duration         string `json:"duration"`
	PerformanceScore int    `json:"performance_score"`
	Level            Level  `json:"level"`
	MetLikeTarget    bool   `json:"met_like_target"`
	MetCommentTarget bool   `json:"met_comment_target"`
}

type VideosReport struct {
	Targets struct {
		Likes    int `json:"likes"`
		Comments int `json:"comments"`
	} `json:"targets"`
	Videos []VideoStats `json:"videos"`
}

// InsightPoint is one day of every requested metric, keyed by metric name.
type InsightPoint struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

type InsightsReport struct {
	Metrics []InsightMetric `json:"metrics"`
	Series  []InsightPoint  `json:"series"`
}

// API response structures

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
