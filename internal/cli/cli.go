package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	goflags "github.com/jessevdk/go-flags"

	"fbdash/internal/app"
	"fbdash/internal/config"
	"fbdash/internal/logger"
)

// runtime carries what subcommands share: where to print and how to build
// the components they query.
type runtime struct {
	globals *GlobalFlags
	out     io.Writer
	open    func(verbose bool) (*app.App, error)
}

type commands struct {
	Posts    *PostsCommand
	Videos   *VideosCommand
	Insights *InsightsCommand
}

func buildParser(rt *runtime) (*goflags.Parser, *commands) {
	parser := goflags.NewParser(rt.globals, goflags.Default)
	parser.Name = "fbreport"
	parser.LongDescription = "Print Facebook page dashboard reports as JSON."

	cmds := &commands{
		Posts:    &PostsCommand{runtime: rt},
		Videos:   &VideosCommand{runtime: rt},
		Insights: &InsightsCommand{runtime: rt},
	}

	parser.AddCommand("posts", "Posts report", "Fetch posts in a date range and score them against daily targets.", cmds.Posts)
	parser.AddCommand("videos", "Videos report", "Fetch recent videos and score their engagement.", cmds.Videos)
	parser.AddCommand("insights", "Page insights report", "Fetch daily page insight metrics.", cmds.Insights)

	return parser, cmds
}

// Run parses os.Args and executes the matched subcommand.
func Run() error {
	return RunWithArgs(nil)
}

// RunWithArgs parses args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(args []string) error {
	rt := &runtime{
		globals: &GlobalFlags{},
		out:     os.Stdout,
		open:    openApp,
	}
	return run(rt, args)
}

func run(rt *runtime, args []string) error {
	parser, _ := buildParser(rt)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}

func openApp(verbose bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// stdout is reserved for the report.
	opts := logger.Options{Level: "warn", Output: os.Stderr, File: cfg.LogFile}
	if verbose {
		opts.Level = "debug"
	}

	return app.New(cfg, logger.New(opts))
}

func (rt *runtime) print(report interface{}) error {
	enc := json.NewEncoder(rt.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Execute implements the go-flags Commander interface for PostsCommand.
func (c *PostsCommand) Execute(args []string) error {
	a, err := c.runtime.open(c.runtime.globals.Verbose)
	if err != nil {
		return err
	}

	r, err := a.Dashboard.ParseRange(c.From, c.To, a.Location)
	if err != nil {
		return err
	}
	report, err := a.Dashboard.PostsReport(context.Background(), r)
	if err != nil {
		return err
	}
	return c.runtime.print(report)
}

// Execute implements the go-flags Commander interface for VideosCommand.
func (c *VideosCommand) Execute(args []string) error {
	if c.Limit <= 0 {
		return fmt.Errorf("--limit must be a positive integer, got %d", c.Limit)
	}
	a, err := c.runtime.open(c.runtime.globals.Verbose)
	if err != nil {
		return err
	}

	report, err := a.Dashboard.VideosReport(context.Background(), c.Limit)
	if err != nil {
		return err
	}
	return c.runtime.print(report)
}

// Execute implements the go-flags Commander interface for InsightsCommand.
func (c *InsightsCommand) Execute(args []string) error {
	a, err := c.runtime.open(c.runtime.globals.Verbose)
	if err != nil {
		return err
	}

	report, err := a.Dashboard.InsightsReport(context.Background())
	if err != nil {
		return err
	}
	return c.runtime.print(report)
}
