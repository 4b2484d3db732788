package config

import "time"

// Remote driver names accepted in Config.RemoteDriver.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
	DriverMemory   = "memory"
)

// Config holds runtime settings for the crmdesk client.
type Config struct {
	// DBPath is the SQLite file backing the local cache.
	DBPath string

	// RemoteDriver selects the remote backend. "none" means local-only.
	RemoteDriver string
	// RemoteSyncEnabled is the switch that turns remote sync on even when a
	// driver is configured.
	RemoteSyncEnabled bool
	DatabaseDSN       string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	JWTSecret string

	ImportChunkSize  int
	ImportChunkPause time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "crmdesk.db"
	c.RemoteDriver = DriverNone
	c.RemoteSyncEnabled = false
	c.S3Region = "us-east-1"
	c.JWTSecret = "crmdesk-dev-secret"
	c.ImportChunkSize = 50
	c.ImportChunkPause = 10 * time.Millisecond
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// RemoteEnabled reports whether a remote backend should be constructed.
func (c *Config) RemoteEnabled() bool {
	return c.RemoteSyncEnabled && c.RemoteDriver != "" && c.RemoteDriver != DriverNone
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args, then the remaining flags in args. Later sources win.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
