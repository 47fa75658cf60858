package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/knowledgehub/internal/flagx"
	"github.com/dmitrijs2005/knowledgehub/internal/timex"
)

// JsonConfig is the on-disk shape of the optional config file. Empty fields
// leave the current value untouched.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	SessionSecret      string         `json:"session_secret"`
	LogLevel           string         `json:"log_level"`
	LogFile            string         `json:"log_file"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	S3AccountID        string         `json:"s3_account_id"`
	S3AccessKeyID      string         `json:"s3_access_key_id"`
	S3SecretAccessKey  string         `json:"s3_secret_access_key"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3CustomDomain     string         `json:"s3_custom_domain"`
	MaxUploadSize      int64          `json:"max_upload_size"`
	LoginRatePerMinute int            `json:"login_rate_per_minute"`
	LoginBurst         int            `json:"login_burst"`
}

// parseJson overlays values from the file named by -c/-config.
// A missing flag loads nothing; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SessionSecret, c.SessionSecret)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFile, c.LogFile)
	setString(&config.S3AccountID, c.S3AccountID)
	setString(&config.S3AccessKeyID, c.S3AccessKeyID)
	setString(&config.S3SecretAccessKey, c.S3SecretAccessKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3CustomDomain, c.S3CustomDomain)

	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.MaxUploadSize > 0 {
		config.MaxUploadSize = c.MaxUploadSize
	}
	if c.LoginRatePerMinute > 0 {
		config.LoginRatePerMinute = c.LoginRatePerMinute
	}
	if c.LoginBurst > 0 {
		config.LoginBurst = c.LoginBurst
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
