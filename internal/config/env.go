package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFiles lists the dotenv files tried in order; missing files are skipped.
// godotenv never overrides variables already present in the environment.
var envFiles = []string{".env"}

// parseEnv loads .env and overlays recognised environment variables.
func parseEnv(config *Config) error {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	envString(&config.DatabaseDriver, "DATABASE_DRIVER")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.ArchivePath, "CANDIDATES_ARCHIVE_PATH")
	envString(&config.ArchiveS3Bucket, "ARCHIVE_S3_BUCKET")
	envString(&config.ArchiveS3Prefix, "ARCHIVE_S3_PREFIX")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3AccessKeyID, "S3_ACCESS_KEY_ID")
	envString(&config.S3SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	envString(&config.CompletionBaseURL, "COMPLETION_BASE_URL")
	envString(&config.CompletionModel, "COMPLETION_MODEL")
	envString(&config.CompletionAPIKey, "OPENROUTER_API_KEY")
	envString(&config.GeocoderURL, "GEOCODER_URL")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDRESS")
	envString(&config.SessionSecret, "SESSION_SECRET")
	envString(&config.LogBackend, "LOG_BACKEND")
	envString(&config.LogLevel, "LOG_LEVEL")

	if err := envDuration(&config.CompletionTimeout, "COMPLETION_TIMEOUT"); err != nil {
		return err
	}
	if err := envDuration(&config.SessionIdleTimeout, "SESSION_IDLE_TIMEOUT"); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("EMAIL_CHECK_MX"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		config.EmailCheckMX = b
	}
	return nil
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
