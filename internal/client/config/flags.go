package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/crmdesk/internal/flagx"
)

var knownFlags = []string{
	"-d", "-remote", "-sync", "-dsn",
	"-s3-bucket", "-s3-region", "-s3-endpoint",
	"-chunk", "-chunk-pause",
	"-log-level", "-log-format", "-log-file",
}

// parseFlags overlays cfg with the command-line flags it owns. Anything else
// in args is filtered out with flagx.FilterArgs first.
//
// Secrets (S3 keys, JWT secret) are deliberately JSON-only so they do not
// show up in the process list.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("crmdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "path to the local SQLite cache")
	fs.StringVar(&cfg.RemoteDriver, "remote", cfg.RemoteDriver, "remote driver: none, postgres, s3, memory")
	fs.BoolVar(&cfg.RemoteSyncEnabled, "sync", cfg.RemoteSyncEnabled, "enable remote sync")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "Postgres DSN for the postgres driver")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "bucket for the s3 driver")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "region for the s3 driver")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "custom endpoint for the s3 driver")
	fs.IntVar(&cfg.ImportChunkSize, "chunk", cfg.ImportChunkSize, "records per bulk import chunk")
	fs.DurationVar(&cfg.ImportChunkPause, "chunk-pause", cfg.ImportChunkPause, "pause between bulk import chunks")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "text or json")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this rotating file")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
