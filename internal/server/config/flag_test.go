package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
				"-i", "acc", "-k", "key", "-p", "password", "-b", "bucket",
				"-g", "us-west-1", "-e", "http://endpoint", "-m", "files.example.com",
				"-l", "debug", "-f", "/var/log/kh.log",
			},
			expected: &Config{
				HTTPAddr:          "127.0.0.1:9090",
				DatabaseDSN:       "db",
				SessionSecret:     "secret",
				S3AccountID:       "acc",
				S3AccessKeyID:     "key",
				S3SecretAccessKey: "password",
				S3Bucket:          "bucket",
				S3Region:          "us-west-1",
				S3BaseEndpoint:    "http://endpoint",
				S3CustomDomain:    "files.example.com",
				LogLevel:          "debug",
				LogFile:           "/var/log/kh.log",
				ShutdownTimeout:   time.Second,
			},
		},
		{
			name:     "no flags keep current values",
			args:     []string{"cmd", "-unknown", "x"},
			expected: &Config{ShutdownTimeout: time.Second},
		},
		{
			name:        "flag without value panics",
			args:        []string{"cmd", "-a"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{ShutdownTimeout: time.Second}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
