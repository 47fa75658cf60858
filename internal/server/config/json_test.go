package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"http_addr":            "0.0.0.0:9000",
		"database_dsn":         "postgres://x",
		"session_secret":       "my_secret_key",
		"shutdown_timeout":     "30s",
		"s3_account_id":        "acc",
		"s3_access_key_id":     "key",
		"s3_secret_access_key": "password",
		"s3_bucket":            "bucket",
		"s3_custom_domain":     "cdn.example.com",
		"max_upload_size":      1024,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "0.0.0.0:9000", cfg.HTTPAddr)
		assert.Equal(t, "postgres://x", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SessionSecret)
		assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, "acc", cfg.S3AccountID)
		assert.Equal(t, "key", cfg.S3AccessKeyID)
		assert.Equal(t, "password", cfg.S3SecretAccessKey)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "cdn.example.com", cfg.S3CustomDomain)
		assert.Equal(t, int64(1024), cfg.MaxUploadSize)
		// untouched by the file
		assert.Equal(t, "auto", cfg.S3Region)
		assert.Equal(t, 5, cfg.LoginBurst)
	})

	t.Run("no config flag leaves values alone", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{HTTPAddr: "defaults:1234", SessionSecret: "key"}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.HTTPAddr)
		assert.Equal(t, "key", cfg.SessionSecret)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
