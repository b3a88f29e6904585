package cli

// GlobalFlags apply to every subcommand.
type GlobalFlags struct {
	Verbose bool `short:"v" long:"verbose" description:"Log requests to stderr"`
}

// PostsCommand prints the posts report for a date range.
type PostsCommand struct {
	From string `long:"from" description:"First day, YYYY-MM-DD (default 30 days ago)"`
	To   string `long:"to" description:"Last day, YYYY-MM-DD (default today)"`

	runtime *runtime
}

// VideosCommand prints the videos report.
type VideosCommand struct {
	Limit int `long:"limit" description:"Number of videos to fetch" default:"20"`

	runtime *runtime
}

// InsightsCommand prints the page insights report.
type InsightsCommand struct {
	runtime *runtime
}
