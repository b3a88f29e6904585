package app

import (
	"time"

	"github.com/sirupsen/logrus"

	"fbdash/internal/client"
	"fbdash/internal/config"
	"fbdash/internal/metrics"
	"fbdash/internal/notify"
	"fbdash/internal/services"
	"fbdash/internal/transformer"
	"fbdash/internal/webhook"
)

// App is the set of components shared by the server and the CLI.
type App struct {
	Config    *config.Config
	Location  *time.Location
	Dashboard *services.Dashboard
	Processor *webhook.Processor
}

func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	httpClient := client.NewHTTPClient(cfg.HTTPTimeout, logger)
	graph := client.NewGraphClient(httpClient, cfg.GraphAPIURL, cfg.AppID, cfg.AppSecret, logger)
	slack := client.NewSlackClient(httpClient, cfg.SlackWebhookURL, logger)

	notifier := notify.NewNotifier(slack, loc, logger)
	processor := webhook.NewProcessor(transformer.New(), notifier, graph, cfg.AccessToken, cfg.CommentMessage, logger)
	dashboard := services.NewDashboard(cfg, graph, metrics.NewCalculator(loc), logger)

	return &App{
		Config:    cfg,
		Location:  loc,
		Dashboard: dashboard,
		Processor: processor,
	}, nil
}
