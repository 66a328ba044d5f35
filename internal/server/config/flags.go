package config

import (
	"flag"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/assettrack/internal/flagx"
)

var flagNames = []string{
	"a", "g", "d", "s", "t", "env", "log-level", "storage",
	"hash-algorithm", "bcrypt-cost", "cors-origins",
	"s3-bucket", "s3-region", "s3-endpoint",
}

// parseFlags overlays command-line flags. Only the flags listed in flagNames
// are looked at, so -c and anything unknown pass through untouched.
//
//	-a string   HTTP bind address
//	-g string   gRPC bind address
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      access token lifetime, minutes
func parseFlags(config *Config, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port (empty disables gRPC)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	ttl := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token lifetime (in minutes)")

	fs.StringVar(&config.Env, "env", config.Env, "environment: dev or prod")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.Storage, "storage", config.Storage, "repository backend: postgres or memory")
	fs.StringVar(&config.PasswordHashAlgorithm, "hash-algorithm", config.PasswordHashAlgorithm, "bcrypt or argon2id")
	fs.IntVar(&config.BcryptCost, "bcrypt-cost", config.BcryptCost, "bcrypt work factor")
	origins := fs.String("cors-origins", strings.Join(config.CORSAllowedOrigins, ","), "comma separated CORS origins")

	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames...)); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*ttl) * time.Minute
		case "cors-origins":
			config.CORSAllowedOrigins = splitCSV(*origins)
		}
	})
	return nil
}
