package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/meetups/internal/flagx"
)

var knownFlags = []string{"-b", "-r", "-d", "-k", "-bucket", "-s", "-t", "-log-level", "-log-format"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-b string           backend: rtdb or postgres
//	-r string           realtime database URL
//	-d string           PostgreSQL DSN
//	-k string           identity API key
//	-bucket string      S3 bucket for images
//	-s string           session database path
//	-t duration         request timeout (e.g. 10s)
//	-log-level string   debug, info, warn or error
//	-log-format string  text or json
//
// Unknown arguments (including -c) are filtered out with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("meetups", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "collection store backend (rtdb|postgres)")
	fs.StringVar(&cfg.RTDBURL, "r", cfg.RTDBURL, "realtime database URL")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.APIKey, "k", cfg.APIKey, "identity API key")
	fs.StringVar(&cfg.S3.Bucket, "bucket", cfg.S3.Bucket, "S3 bucket for meetup images")
	fs.StringVar(&cfg.SessionDBPath, "s", cfg.SessionDBPath, "session database path")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")

	if err := fs.Parse(flagx.FilterArgs(args, knownFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
