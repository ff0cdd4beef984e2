package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/flagx"
)

// parseFlags overlays cfg with the command-line flags listed in doc.go.
// Other arguments are filtered out first so foreign flags do not fail the
// parse.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-i", "-d", "-s", "-log-level"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	checkInterval := fs.Int("i", int(cfg.AuthCheckInterval.Seconds()), "session re-validation interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local session database path")
	fs.StringVar(&cfg.DocumentStore, "s", cfg.DocumentStore, "document store (api|s3)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.AuthCheckInterval = time.Duration(*checkInterval) * time.Second
}
