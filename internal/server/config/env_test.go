package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("R2_ACCESS_KEY_ID", "ak")
	t.Setenv("R2_SECRET_ACCESS_KEY", "sk")
	t.Setenv("R2_BUCKET_NAME", "notes")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("MAX_UPLOAD_SIZE", "2048")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "ak", cfg.S3AccessKeyID)
	assert.Equal(t, "sk", cfg.S3SecretAccessKey)
	assert.Equal(t, "notes", cfg.S3Bucket)
	assert.Equal(t, "http://minio:9000", cfg.S3BaseEndpoint)
	assert.Equal(t, int64(2048), cfg.MaxUploadSize)
}

func Test_parseEnv_BadNumber(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("MAX_UPLOAD_SIZE", "lots")

	err := parseEnv(&Config{})
	require.Error(t, err)
}

func Test_parseEnv_DotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nLOG_FILE=/tmp/kh.log\n"), 0o600))
	os.Args = []string{"testbin", "-env", path}

	// t.Setenv registers cleanup so values loaded from the file do not leak.
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FILE", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	require.NoError(t, os.Unsetenv("LOG_FILE"))

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/kh.log", cfg.LogFile)
}

func Test_parseEnv_MissingDotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-env", filepath.Join(t.TempDir(), "absent.env")}

	require.Error(t, parseEnv(&Config{}))
}
