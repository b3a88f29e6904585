package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"fbdash/internal/apperr"
)

const DefaultCommentMessage = "Stream and Download Xhosa Hip Hop Videos on https://www.xhap.co.za\nShop & Blog on https://espazza.co.za"

type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string        `env:"LOG_FILE"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	GraphAPIURL string `env:"GRAPH_API_URL" envDefault:"https://graph.facebook.com/v19.0"`

	SlackWebhookURL string `env:"SLACK_WEBHOOK_URL"`

	// Facebook
	AccessToken     string `env:"FACEBOOK_ACCESS_TOKEN"`
	AppID           string `env:"FACEBOOK_CLIENT_ID"`
	AppSecret       string `env:"FACEBOOK_CLIENT_SECRET"`
	VerifyToken     string `env:"FACEBOOK_VERIFY_TOKEN"`
	PageID          string `env:"FACEBOOK_PAGE_ID"`
	VerifySignature bool   `env:"FACEBOOK_VERIFY_SIGNATURE" envDefault:"false"`
	CommentMessage  string `env:"COMMENT_MESSAGE"`

	DisplayTimezone string `env:"DISPLAY_TIMEZONE" envDefault:"Local"`
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if cfg.CommentMessage == "" {
		cfg.CommentMessage = DefaultCommentMessage
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves DisplayTimezone. Empty and "Local" both mean the
// process's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" || c.DisplayTimezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

// RequireWebhook checks the secrets the webhook relay cannot run without.
// The app secret is needed too when signatures are verified.
func (c *Config) RequireWebhook() error {
	values := map[string]string{
		"SLACK_WEBHOOK_URL":     c.SlackWebhookURL,
		"FACEBOOK_ACCESS_TOKEN": c.AccessToken,
	}
	order := []string{"SLACK_WEBHOOK_URL", "FACEBOOK_ACCESS_TOKEN"}
	if c.VerifySignature {
		values["FACEBOOK_CLIENT_SECRET"] = c.AppSecret
		order = append(order, "FACEBOOK_CLIENT_SECRET")
	}
	return require(values, order...)
}

// RequirePage checks the settings needed to read page data.
func (c *Config) RequirePage() error {
	return require(map[string]string{
		"FACEBOOK_PAGE_ID":      c.PageID,
		"FACEBOOK_ACCESS_TOKEN": c.AccessToken,
	}, "FACEBOOK_PAGE_ID", "FACEBOOK_ACCESS_TOKEN")
}

func require(values map[string]string, order ...string) error {
	var missing []string
	for _, key := range order {
		if values[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &apperr.ConfigError{Missing: missing}
	}
	return nil
}
