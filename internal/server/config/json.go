package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/assettrack/internal/flagx"
	"github.com/dmitrijs2005/assettrack/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "30m" style
// strings or integer nanoseconds. Zero values leave the current setting
// untouched.
type JsonConfig struct {
	Env                         string         `json:"env"`
	LogLevel                    string         `json:"log_level"`
	HTTPAddr                    string         `json:"http_addr"`
	GRPCAddr                    string         `json:"grpc_addr"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	Storage                     string         `json:"storage"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	PasswordHashAlgorithm       string         `json:"password_hash_algorithm"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	S3PresignTTL                timex.Duration `json:"s3_presign_ttl"`
}

// parseJSON overlays the file named by -c / -config in args. Without the
// flag nothing is loaded.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.Env, c.Env)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.Storage, c.Storage)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.PasswordHashAlgorithm, c.PasswordHashAlgorithm)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.S3PresignTTL.Duration != 0 {
		config.S3PresignTTL = c.S3PresignTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
