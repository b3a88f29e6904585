package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Graph API timestamps look like 2024-01-15T10:30:00+0000.
var graphTimeLayouts = []string{
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
	time.RFC3339Nano,
}

type GraphTime struct {
	time.Time
}

func ParseGraphTime(s string) (time.Time, error) {
	for _, layout := range graphTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized graph time %q", s)
}

func (t *GraphTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parsed, err := ParseGraphTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t GraphTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

type Actor struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type CountSummary struct {
	Summary struct {
		TotalCount int `json:"total_count"`
	} `json:"summary"`
}

type ShareCount struct {
	Count int `json:"count"`
}

type InsightValue struct {
	EndTime GraphTime       `json:"end_time,omitempty"`
	Value   json.RawMessage `json:"value"`
}

// Number flattens the value. Breakdown objects such as {"US": 3, "ZA": 4}
// are summed; anything non-numeric counts as 0.
func (v InsightValue) Number() float64 {
	if len(v.Value) == 0 {
		return 0
	}
	var n float64
	if err := json.Unmarshal(v.Value, &n); err == nil {
		return n
	}
	var breakdown map[string]float64
	if err := json.Unmarshal(v.Value, &breakdown); err == nil {
		total := 0.0
		for _, part := range breakdown {
			total += part
		}
		return total
	}
	return 0
}

type InsightMetric struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Period      string         `json:"period"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Values      []InsightValue `json:"values"`
}

type Insights struct {
	Data []InsightMetric `json:"data"`
}

type Post struct {
	ID           string        `json:"id"`
	Message      string        `json:"message,omitempty"`
	CreatedTime  GraphTime     `json:"created_time"`
	AdminCreator *Actor        `json:"admin_creator,omitempty"`
	From         *Actor        `json:"from,omitempty"`
	Likes        *CountSummary `json:"likes,omitempty"`
	Comments     *CountSummary `json:"comments,omitempty"`
	Shares       *ShareCount   `json:"shares,omitempty"`
	Insights     *Insights     `json:"insights,omitempty"`
}

func (p Post) LikeCount() int    { return summaryCount(p.Likes) }
func (p Post) CommentCount() int { return summaryCount(p.Comments) }
func (p Post) ShareCount() int   { return shareCount(p.Shares) }

type Video struct {
	ID          string        `json:"id"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	CreatedTime GraphTime     `json:"created_time"`
	UpdatedTime GraphTime     `json:"updated_time"`
	Length      float64       `json:"length"`
	Views       int           `json:"views"`
	Source      string        `json:"source,omitempty"`
	Picture     string        `json:"picture,omitempty"`
	Likes       *CountSummary `json:"likes,omitempty"`
	Comments    *CountSummary `json:"comments,omitempty"`
	Shares      *ShareCount   `json:"shares,omitempty"`
	Insights    *Insights     `json:"insights,omitempty"`
}

func (v Video) LikeCount() int    { return summaryCount(v.Likes) }
func (v Video) CommentCount() int { return summaryCount(v.Comments) }
func (v Video) ShareCount() int   { return shareCount(v.Shares) }

func summaryCount(s *CountSummary) int {
	if s == nil {
		return 0
	}
	return s.Summary.TotalCount
}

func shareCount(s *ShareCount) int {
	if s == nil {
		return 0
	}
	return s.Count
}

// Graph API response envelopes

// Paging carries Graph's cursor links. Next is empty on the last page.
type Paging struct {
	Next string `json:"next,omitempty"`
}

type PostsResponse struct {
	Data   []Post `json:"data"`
	Paging Paging `json:"paging"`
}

type VideosResponse struct {
	Data []Video `json:"data"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
}

type GraphErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}
