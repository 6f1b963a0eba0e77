// Package config assembles runtime settings for the TalentScout server and
// CLI: defaults, an optional JSON or YAML file, a .env file, environment
// variables and finally command-line flags, in that order.
//
// The encryption key is deliberately absent: it is read from ENCRYPTION_KEY
// by cryptox and never travels through files or flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/common"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSessionSecret is the development signing secret. The server
// refuses to start with it; see ValidateServer.
const DefaultSessionSecret = "secretKey"

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDriver / DatabaseDSN: primary store ("sqlite" file path or
//     PostgreSQL DSN for pgx).
//   - ArchivePath: JSONL audit archive; ArchiveS3* mirror entries to S3 when
//     ArchiveS3Bucket is set.
//   - Completion*: OpenAI-compatible chat completion endpoint.
//   - Geocoder*: Nominatim-compatible search endpoint for locations.
//   - SessionSecret / SessionTokenTTL: HS256 session handles for the gRPC
//     transport; SessionIdleTimeout and SweepInterval drive eviction.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string

	ArchivePath       string
	ArchiveS3Bucket   string
	ArchiveS3Prefix   string
	S3Region          string
	S3BaseEndpoint    string
	S3AccessKeyID     string
	S3SecretAccessKey string

	CompletionBaseURL string
	CompletionModel   string
	CompletionAPIKey  string
	CompletionTimeout time.Duration

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration
	EmailCheckMX      bool

	EndpointAddrGRPC   string
	SessionSecret      string
	SessionTokenTTL    time.Duration
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration

	LogBackend string
	LogLevel   string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "candidates.db"
	c.ArchivePath = "candidates_archive.jsonl"
	c.ArchiveS3Prefix = "archive/"
	c.S3Region = "us-east-1"
	c.CompletionBaseURL = "https://openrouter.ai/api/v1"
	c.CompletionModel = "openai/gpt-oss-20b:free"
	c.CompletionTimeout = 30 * time.Second
	c.GeocoderURL = "https://nominatim.openstreetmap.org/search"
	c.GeocoderUserAgent = "hiring-assistant"
	c.GeocoderTimeout = 10 * time.Second
	c.EmailCheckMX = true
	c.EndpointAddrGRPC = ":50051"
	c.SessionSecret = DefaultSessionSecret
	c.SessionTokenTTL = 2 * time.Hour
	c.SessionIdleTimeout = 30 * time.Minute
	c.SweepInterval = time.Minute
	c.LogBackend = "slog"
	c.LogLevel = "info"
}

// Load builds a Config from defaults, then the file named by -c/-config in
// args, then .env and the environment, then the server flags in args.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the process cannot start with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return &common.ConfigurationError{Setting: "database_driver", Err: fmt.Errorf("unsupported driver %q", c.DatabaseDriver)}
	}
	if c.DatabaseDSN == "" {
		return &common.ConfigurationError{Setting: "database_dsn", Err: errors.New("empty")}
	}
	if c.ArchivePath == "" {
		return &common.ConfigurationError{Setting: "archive_path", Err: errors.New("empty")}
	}
	if c.SessionSecret == "" {
		return &common.ConfigurationError{Setting: "session_secret", Err: errors.New("empty")}
	}
	if c.SessionTokenTTL <= 0 || c.SessionIdleTimeout <= 0 || c.SweepInterval <= 0 {
		return &common.ConfigurationError{Setting: "session", Err: errors.New("durations must be positive")}
	}
	return nil
}

// ValidateServer extends Validate for the gRPC server, which signs session
// tokens and so must not run with the published default secret.
func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SessionSecret == DefaultSessionSecret {
		return &common.ConfigurationError{Setting: "session_secret", Err: errors.New("default secret; set SESSION_SECRET or -s")}
	}
	return nil
}
