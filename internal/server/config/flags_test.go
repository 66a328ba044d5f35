package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	var base Config
	base.LoadDefaults()

	tests := []struct {
		name    string
		args    []string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name: "short flags",
			args: []string{"-a", "127.0.0.1:9090", "-g", ":9091", "-d", "db", "-s", "secret", "-t", "5"},
			mutate: func(c *Config) {
				c.HTTPAddr = "127.0.0.1:9090"
				c.GRPCAddr = ":9091"
				c.DatabaseDSN = "db"
				c.SecretKey = "secret"
				c.AccessTokenValidityDuration = 5 * time.Minute
			},
		},
		{
			name: "long flags",
			args: []string{"-storage", "memory", "--hash-algorithm=argon2id", "-bcrypt-cost", "4", "-cors-origins", "https://x,https://y", "-env", "prod"},
			mutate: func(c *Config) {
				c.Storage = "memory"
				c.PasswordHashAlgorithm = "argon2id"
				c.BcryptCost = 4
				c.CORSAllowedOrigins = []string{"https://x", "https://y"}
				c.Env = "prod"
			},
		},
		{
			name:   "config flag and unknown flags ignored",
			args:   []string{"-c", "x.json", "-unknown", "1"},
			mutate: func(*Config) {},
		},
		{
			name:    "bad int",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base
			got.CORSAllowedOrigins = append([]string(nil), base.CORSAllowedOrigins...)

			err := parseFlags(&got, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			want := base
			want.CORSAllowedOrigins = append([]string(nil), base.CORSAllowedOrigins...)
			tt.mutate(&want)
			assert.Empty(t, cmp.Diff(want, got))
		})
	}
}

func TestParseFlags_SubMinuteTTLSurvivesWithoutFlag(t *testing.T) {
	cfg := Config{AccessTokenValidityDuration: 90 * time.Second}
	require.NoError(t, parseFlags(&cfg, nil))
	assert.Equal(t, 90*time.Second, cfg.AccessTokenValidityDuration)
}
