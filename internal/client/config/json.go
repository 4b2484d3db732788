package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/crmdesk/internal/flagx"
)

// duration accepts either a Go duration string ("10ms") or integer
// nanoseconds.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		d.Duration = time.Duration(val)
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", val, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// jsonConfig is the on-disk shape. Pointer fields distinguish "absent" from
// zero so a partial file only overrides what it names.
type jsonConfig struct {
	DBPath            *string   `json:"db_path"`
	RemoteDriver      *string   `json:"remote_driver"`
	RemoteSyncEnabled *bool     `json:"remote_sync_enabled"`
	DatabaseDSN       *string   `json:"database_dsn"`
	S3Bucket          *string   `json:"s3_bucket"`
	S3Region          *string   `json:"s3_region"`
	S3Endpoint        *string   `json:"s3_endpoint"`
	S3AccessKey       *string   `json:"s3_access_key"`
	S3SecretKey       *string   `json:"s3_secret_key"`
	JWTSecret         *string   `json:"jwt_secret"`
	ImportChunkSize   *int      `json:"import_chunk_size"`
	ImportChunkPause  *duration `json:"import_chunk_pause"`
	LogLevel          *string   `json:"log_level"`
	LogFormat         *string   `json:"log_format"`
	LogFile           *string   `json:"log_file"`
}

// parseJson overlays cfg with the file named by -c/-config in args, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.RemoteDriver, jc.RemoteDriver)
	if jc.RemoteSyncEnabled != nil {
		cfg.RemoteSyncEnabled = *jc.RemoteSyncEnabled
	}
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.JWTSecret, jc.JWTSecret)
	if jc.ImportChunkSize != nil {
		cfg.ImportChunkSize = *jc.ImportChunkSize
	}
	if jc.ImportChunkPause != nil {
		cfg.ImportChunkPause = jc.ImportChunkPause.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogFile, jc.LogFile)
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
