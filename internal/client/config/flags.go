package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/assettrack/internal/flagx"
)

// parseFlags overlays -a (server base URL) and -timeout (request timeout).
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")

	return fs.Parse(flagx.FilterArgs(args, "a", "timeout"))
}
