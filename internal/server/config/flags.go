package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/knowledgehub/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   session JWT HMAC secret
//	-i string   R2 account id
//	-k string   object store access key id
//	-p string   object store secret access key
//	-b string   bucket name
//	-g string   region
//	-e string   base endpoint (e.g., "http://127.0.0.1:9000")
//	-m string   public custom domain for downloads
//	-l string   log level
//	-f string   log file
//
// Only these flags are read from os.Args; anything else is ignored.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-i", "-k", "-p", "-b", "-g", "-e", "-m", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret key")
	fs.StringVar(&config.S3AccountID, "i", config.S3AccountID, "R2 account id")
	fs.StringVar(&config.S3AccessKeyID, "k", config.S3AccessKeyID, "S3 access key id")
	fs.StringVar(&config.S3SecretAccessKey, "p", config.S3SecretAccessKey, "S3 secret access key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3CustomDomain, "m", config.S3CustomDomain, "public custom domain for downloads")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFile, "f", config.LogFile, "log file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
