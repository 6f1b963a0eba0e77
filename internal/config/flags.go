package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/talentscout/internal/flagx"
)

// parseFlags populates selected Config fields from server command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-r string   database driver (sqlite, postgres)
//	-d string   database DSN or SQLite path
//	-j string   archive JSONL path
//	-s string   session token HMAC secret
//	-t int      session token validity, minutes
//	-i int      session idle timeout, minutes
//	-b string   S3 archive mirror bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-l string   log level
//
// Unknown arguments are filtered out with flagx.FilterArgs first.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-r", "-d", "-j", "-s", "-t", "-i", "-b", "-g", "-e", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ArchivePath, "j", config.ArchivePath, "archive path")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret")

	tokenTTL := fs.Int("t", int(config.SessionTokenTTL.Minutes()), "session token validity (in minutes)")
	idle := fs.Int("i", int(config.SessionIdleTimeout.Minutes()), "session idle timeout (in minutes)")

	fs.StringVar(&config.ArchiveS3Bucket, "b", config.ArchiveS3Bucket, "S3 archive bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Minute flags only apply when given, so finer file or env values survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.SessionTokenTTL = time.Duration(*tokenTTL) * time.Minute
		case "i":
			config.SessionIdleTimeout = time.Duration(*idle) * time.Minute
		}
	})
	return nil
}
