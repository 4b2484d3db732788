package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		expected  *Config
		expectErr bool
	}{
		{
			name: "all known flags",
			args: []string{"-d", "x.db", "-remote", "postgres", "-sync", "-dsn", "postgres://x",
				"-chunk", "25", "-chunk-pause", "5ms", "-log-level", "debug"},
			expected: &Config{
				DBPath: "x.db", RemoteDriver: "postgres", RemoteSyncEnabled: true,
				DatabaseDSN: "postgres://x", ImportChunkSize: 25, ImportChunkPause: 5 * time.Millisecond,
				LogLevel: "debug",
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"-zzz", "1", "-c", "cfg.json", "-d", "y.db"},
			expected: &Config{DBPath: "y.db"},
		},
		{
			name:      "bad chunk value",
			args:      []string{"-chunk", "abc"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := parseFlags(cfg, tt.args)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestLoad_BadFlagIsError(t *testing.T) {
	_, err := Load([]string{"-chunk-pause", "soon"})
	require.Error(t, err)
}
