package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var lookupEnv = os.LookupEnv

// loadDotEnv copies .env into the process environment. Variables that are
// already set win, and a missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

// parseEnv overlays environment variables. A variable that is set but empty
// counts as unset, so an exported SECRET_KEY= never blanks the secret.
func parseEnv(config *Config, lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"ENV", &config.Env},
		{"LOG_LEVEL", &config.LogLevel},
		{"HTTP_ADDR", &config.HTTPAddr},
		{"GRPC_ADDR", &config.GRPCAddr},
		{"STORAGE", &config.Storage},
		{"DATABASE_DSN", &config.DatabaseDSN},
		{"SECRET_KEY", &config.SecretKey},
		{"PASSWORD_HASH_ALGORITHM", &config.PasswordHashAlgorithm},
		{"S3_ACCESS_KEY", &config.S3AccessKey},
		{"S3_SECRET_KEY", &config.S3SecretKey},
		{"S3_BUCKET", &config.S3Bucket},
		{"S3_REGION", &config.S3Region},
		{"S3_ENDPOINT", &config.S3BaseEndpoint},
	}
	for _, s := range strs {
		if v, ok := get(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := get("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		config.AccessTokenValidityDuration = time.Duration(n) * time.Minute
	}
	if v, ok := get("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST: %w", err)
		}
		config.BcryptCost = n
	}
	if v, ok := get("S3_PRESIGN_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("S3_PRESIGN_TTL: %w", err)
		}
		config.S3PresignTTL = d
	}
	if v, ok := get("CORS_ALLOWED_ORIGINS"); ok {
		config.CORSAllowedOrigins = splitCSV(v)
	}
	return nil
}

func splitCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
