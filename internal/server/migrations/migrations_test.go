package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"00001_create_users.sql",
		"00002_create_assets.sql",
		"00003_create_maintenance_logs.sql",
		"00004_create_attachments.sql",
	}, names)

	for _, n := range names {
		b, err := fs.ReadFile(Migrations, n)
		require.NoError(t, err)
		assert.Contains(t, string(b), "-- +goose Up", n)
		assert.Contains(t, string(b), "-- +goose Down", n)
	}
}

func TestMigrations_UsernameUnique(t *testing.T) {
	b, err := fs.ReadFile(Migrations, "00001_create_users.sql")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), "UNIQUE (username)"))
}
