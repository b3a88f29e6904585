package metrics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"fbdash/internal/models"
)

const (
	TopN = 5

	VideoLikeTarget    = 50
	VideoCommentTarget = 50

	bucketKeyLayout   = "2006-01-02"
	bucketLabelLayout = "Jan 02"
)

// DailyTargets are the per-day goals a page is scored against.
var DailyTargets = models.MetricSet{
	Posts:    15,
	Likes:    600,
	Comments: 300,
	Shares:   100,
}

type Calculator struct {
	loc *time.Location
}

// NewCalculator buckets days in loc; nil means the local zone.
func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.Local
	}
	return &Calculator{loc: loc}
}

// BucketByDay groups posts by the calendar day of their created time and
// sums engagement per day. Buckets come back in chronological order.
func (c *Calculator) BucketByDay(posts []models.Post) []models.DailyBucket {
	sorted := make([]models.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedTime.Before(sorted[j].CreatedTime.Time)
	})

	index := make(map[string]int)
	buckets := []models.DailyBucket{}

	for _, post := range sorted {
		day := post.CreatedTime.In(c.loc)
		key := day.Format(bucketKeyLayout)

		i, exists := index[key]
		if !exists {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, models.DailyBucket{
				Date:  key,
				Label: day.Format(bucketLabelLayout),
			})
		}

		buckets[i].PostCount++
		buckets[i].Likes += post.LikeCount()
		buckets[i].Comments += post.CommentCount()
		buckets[i].Shares += post.ShareCount()
	}

	return buckets
}

// CalculatePerformance scores bucket totals against DailyTargets scaled to
// the number of days in r. Scores are ratios and are not clamped.
func (c *Calculator) CalculatePerformance(buckets []models.DailyBucket, r models.DateRange) models.Performance {
	days := float64(r.Days())

	var totals models.MetricSet
	for _, b := range buckets {
		totals.Posts += float64(b.PostCount)
		totals.Likes += float64(b.Likes)
		totals.Comments += float64(b.Comments)
		totals.Shares += float64(b.Shares)
	}

	targets := models.MetricSet{
		Posts:    DailyTargets.Posts * days,
		Likes:    DailyTargets.Likes * days,
		Comments: DailyTargets.Comments * days,
		Shares:   DailyTargets.Shares * days,
	}

	scores := models.MetricSet{
		Posts:    c.safeDivide(totals.Posts, targets.Posts),
		Likes:    c.safeDivide(totals.Likes, targets.Likes),
		Comments: c.safeDivide(totals.Comments, targets.Comments),
		Shares:   c.safeDivide(totals.Shares, targets.Shares),
	}

	overall := (scores.Posts + scores.Likes + scores.Comments + scores.Shares) / 4

	return models.Performance{
		Totals:        totals,
		PeriodTargets: targets,
		Scores:        scores,
		OverallScore:  overall,
		Levels: models.Levels{
			Posts:    Level(totals.Posts, targets.Posts),
			Likes:    Level(totals.Likes, targets.Likes),
			Comments: Level(totals.Comments, targets.Comments),
			Shares:   Level(totals.Shares, targets.Shares),
			Overall:  Level(overall, 1),
		},
	}
}

// TopPosts ranks the full post list three ways, highest first. Ties keep
// their original order.
func (c *Calculator) TopPosts(posts []models.Post, n int) models.TopPosts {
	return models.TopPosts{
		ByLikes:    topBy(posts, n, models.Post.LikeCount),
		ByComments: topBy(posts, n, models.Post.CommentCount),
		ByShares:   topBy(posts, n, models.Post.ShareCount),
	}
}

func topBy(posts []models.Post, n int, count func(models.Post) int) []models.Post {
	ranked := make([]models.Post, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return count(ranked[i]) > count(ranked[j])
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// VideoScore averages likes and comments against their targets as a
// rounded percentage. It is not clamped at 100.
func (c *Calculator) VideoScore(likes, comments int) int {
	likeScore := float64(likes) / VideoLikeTarget * 100
	commentScore := float64(comments) / VideoCommentTarget * 100
	return int(math.Round((likeScore + commentScore) / 2))
}

func (c *Calculator) VideoStats(video models.Video) models.VideoStats {
	likes := video.LikeCount()
	comments := video.CommentCount()
	score := c.VideoScore(likes, comments)

	return models.VideoStats{
		Video:            video,
		Likes:            likes,
		Comments:         comments,
		Duration:         FormatDuration(video.Length),
		PerformanceScore: score,
		Level:            VideoLevel(score),
		MetLikeTarget:    likes >= VideoLikeTarget,
		MetCommentTarget: comments >= VideoCommentTarget,
	}
}

// InsightSeries pivots per-metric values into one point per day, aligned on
// the first metric's timeline.
func (c *Calculator) InsightSeries(insights *models.Insights) []models.InsightPoint {
	points := []models.InsightPoint{}
	if insights == nil || len(insights.Data) == 0 {
		return points
	}

	for i, first := range insights.Data[0].Values {
		point := models.InsightPoint{
			Date:   first.EndTime.In(c.loc).Format(bucketKeyLayout),
			Values: make(map[string]float64, len(insights.Data)),
		}
		for _, metric := range insights.Data {
			if i < len(metric.Values) {
				point.Values[metric.Name] = metric.Values[i].Number()
			}
		}
		points = append(points, point)
	}

	return points
}

// Level grades value against target: at or above target is success, within
// 80% is a warning.
func Level(value, target float64) models.Level {
	if target <= 0 {
		return models.LevelSuccess
	}
	ratio := value / target
	switch {
	case ratio >= 1:
		return models.LevelSuccess
	case ratio >= 0.8:
		return models.LevelWarning
	}
	return models.LevelError
}

func VideoLevel(score int) models.Level {
	switch {
	case score >= 100:
		return models.LevelSuccess
	case score >= 75:
		return models.LevelWarning
	}
	return models.LevelError
}

// FormatDuration renders seconds as m:ss, or h:mm:ss from an hour up.
func FormatDuration(seconds float64) string {
	total := int(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func (c *Calculator) safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}
