package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/knowledgehub/internal/flagx"
	"github.com/joho/godotenv"
)

// parseEnv overlays values from the process environment. When -env names a
// dotenv file it is loaded first; variables already present in the
// environment win over the file.
func parseEnv(config *Config) error {
	if envFile := flagx.EnvFileFlags(); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("config: load env file: %w", err)
		}
	}

	lookup(&config.HTTPAddr, "HTTP_ADDR")
	lookup(&config.DatabaseDSN, "DATABASE_URL")
	lookup(&config.SessionSecret, "SESSION_SECRET")
	lookup(&config.LogLevel, "LOG_LEVEL")
	lookup(&config.LogFile, "LOG_FILE")
	lookup(&config.S3AccountID, "R2_ACCOUNT_ID")
	lookup(&config.S3AccessKeyID, "R2_ACCESS_KEY_ID")
	lookup(&config.S3SecretAccessKey, "R2_SECRET_ACCESS_KEY")
	lookup(&config.S3Bucket, "R2_BUCKET_NAME")
	lookup(&config.S3CustomDomain, "R2_CUSTOM_DOMAIN")
	lookup(&config.S3Region, "S3_REGION")
	lookup(&config.S3BaseEndpoint, "S3_ENDPOINT")

	if v, ok := os.LookupEnv("MAX_UPLOAD_SIZE"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: MAX_UPLOAD_SIZE: %w", err)
		}
		config.MaxUploadSize = n
	}

	return nil
}

func lookup(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
