package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/flagx"
	"gopkg.in/yaml.v3"
)

// Duration accepts "90s"-style strings or integer nanoseconds in both JSON
// and YAML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x)
	case int:
		d.Duration = time.Duration(x)
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}

// FileConfig is the on-disk shape of a config file. Pointer fields keep
// unset keys from clobbering defaults.
type FileConfig struct {
	DatabaseDriver     *string   `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN        *string   `json:"database_dsn" yaml:"database_dsn"`
	ArchivePath        *string   `json:"archive_path" yaml:"archive_path"`
	ArchiveS3Bucket    *string   `json:"archive_s3_bucket" yaml:"archive_s3_bucket"`
	ArchiveS3Prefix    *string   `json:"archive_s3_prefix" yaml:"archive_s3_prefix"`
	S3Region           *string   `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint     *string   `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	CompletionBaseURL  *string   `json:"completion_base_url" yaml:"completion_base_url"`
	CompletionModel    *string   `json:"completion_model" yaml:"completion_model"`
	CompletionTimeout  *Duration `json:"completion_timeout" yaml:"completion_timeout"`
	GeocoderURL        *string   `json:"geocoder_url" yaml:"geocoder_url"`
	GeocoderUserAgent  *string   `json:"geocoder_user_agent" yaml:"geocoder_user_agent"`
	GeocoderTimeout    *Duration `json:"geocoder_timeout" yaml:"geocoder_timeout"`
	EmailCheckMX       *bool     `json:"email_check_mx" yaml:"email_check_mx"`
	EndpointAddrGRPC   *string   `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	SessionTokenTTL    *Duration `json:"session_token_ttl" yaml:"session_token_ttl"`
	SessionIdleTimeout *Duration `json:"session_idle_timeout" yaml:"session_idle_timeout"`
	SweepInterval      *Duration `json:"sweep_interval" yaml:"sweep_interval"`
	LogBackend         *string   `json:"log_backend" yaml:"log_backend"`
	LogLevel           *string   `json:"log_level" yaml:"log_level"`
}

// parseFile overlays the file named by -c/-config. Files ending in .yaml or
// .yml are read as YAML, everything else as JSON. Secrets (API keys, S3
// credentials, session secret) are only taken from the environment.
func parseFile(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.apply(config)
	return nil
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.ArchivePath, c.ArchivePath)
	setString(&config.ArchiveS3Bucket, c.ArchiveS3Bucket)
	setString(&config.ArchiveS3Prefix, c.ArchiveS3Prefix)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.CompletionBaseURL, c.CompletionBaseURL)
	setString(&config.CompletionModel, c.CompletionModel)
	setDuration(&config.CompletionTimeout, c.CompletionTimeout)
	setString(&config.GeocoderURL, c.GeocoderURL)
	setString(&config.GeocoderUserAgent, c.GeocoderUserAgent)
	setDuration(&config.GeocoderTimeout, c.GeocoderTimeout)
	if c.EmailCheckMX != nil {
		config.EmailCheckMX = *c.EmailCheckMX
	}
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setDuration(&config.SessionTokenTTL, c.SessionTokenTTL)
	setDuration(&config.SessionIdleTimeout, c.SessionIdleTimeout)
	setDuration(&config.SweepInterval, c.SweepInterval)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
