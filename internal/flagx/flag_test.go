package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		names []string
		want  []string
	}{
		{
			name:  "short flag with separate value",
			args:  []string{"-c", "conf.json", "-a", "localhost"},
			names: []string{"c", "config"},
			want:  []string{"-c", "conf.json"},
		},
		{
			name:  "double dash with equals",
			args:  []string{"--config=alt.json", "-a", "localhost"},
			names: []string{"c", "config"},
			want:  []string{"--config=alt.json"},
		},
		{
			name:  "names may be given with dashes",
			args:  []string{"-c", "x.json"},
			names: []string{"-c"},
			want:  []string{"-c", "x.json"},
		},
		{
			name:  "unknown flags and positionals ignored",
			args:  []string{"-x", "1", "--y=2", "positional"},
			names: []string{"c"},
			want:  []string{},
		},
		{
			name:  "flag without value at end",
			args:  []string{"-c"},
			names: []string{"c"},
			want:  []string{"-c"},
		},
		{
			name:  "next dash token is not a value",
			args:  []string{"-c", "-config=alt.json"},
			names: []string{"c", "config"},
			want:  []string{"-c", "-config=alt.json"},
		},
		{
			name:  "value that looks like a flag in equals form",
			args:  []string{"--config=--weird.json"},
			names: []string{"config"},
			want:  []string{"--config=--weird.json"},
		},
		{
			name:  "repeated flag preserved in order",
			args:  []string{"-c", "one.json", "-c", "two.json"},
			names: []string{"c"},
			want:  []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:  "empty args",
			args:  nil,
			names: []string{"c"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.names...))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/assettrack.json", ConfigPath([]string{"-c", "/etc/assettrack.json", "-http-addr", ":9000"}))
	assert.Equal(t, "/path/long.json", ConfigPath([]string{"-config", "/path/long.json"}))
	assert.Equal(t, "/path/eq.json", ConfigPath([]string{"--config=/path/eq.json"}))
	assert.Equal(t, "/path/2.json", ConfigPath([]string{"-c", "/path/1.json", "-config", "/path/2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
	assert.Empty(t, ConfigPath(nil))
}
