// Package app assembles the interview components shared by the server and
// the CLI from a Config.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/talentscout/internal/archive"
	"github.com/dmitrijs2005/talentscout/internal/completion"
	"github.com/dmitrijs2005/talentscout/internal/config"
	"github.com/dmitrijs2005/talentscout/internal/cryptox"
	"github.com/dmitrijs2005/talentscout/internal/engine"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/questions"
	"github.com/dmitrijs2005/talentscout/internal/store"
	"github.com/dmitrijs2005/talentscout/internal/validation"
)

type Components struct {
	Logger    logging.Logger
	Store     *store.Store
	Validator *validation.Pipeline
	Completer completion.Completer
	Generator *questions.Generator
}

var newS3Archiver = func(ctx context.Context, c archive.S3Config) (archive.Archiver, error) {
	return archive.NewS3Archiver(ctx, c)
}

// NewLogger builds the configured logger writing to w.
func NewLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	l, err := logging.New(cfg.LogBackend, cfg.LogLevel, w)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// Build opens storage and wires verifiers and the completion client. The
// encryption key comes from the environment only; a missing or malformed
// key is a *common.ConfigurationError.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Components, error) {
	cipher, err := cryptox.NewCipherFromEnv()
	if err != nil {
		return nil, err
	}

	arch, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, cipher, arch, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	completer := completion.NewClient(completion.Config{
		BaseURL: cfg.CompletionBaseURL,
		Model:   cfg.CompletionModel,
		APIKey:  cfg.CompletionAPIKey,
		Timeout: cfg.CompletionTimeout,
	}, logger)

	pipeline := validation.NewPipeline(
		validation.NewDNSEmailVerifier(cfg.EmailCheckMX),
		validation.LibPhoneVerifier{},
		validation.NewNominatimVerifier(cfg.GeocoderURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout),
		logger,
	)

	logger.Info(ctx, "components ready", "driver", cfg.DatabaseDriver, "archive", cfg.ArchivePath, "s3_mirror", cfg.ArchiveS3Bucket != "")

	return &Components{
		Logger:    logger,
		Store:     st,
		Validator: pipeline,
		Completer: completer,
		Generator: questions.NewGenerator(completer, logger),
	}, nil
}

func buildArchive(ctx context.Context, cfg *config.Config) (archive.Archiver, error) {
	file, err := archive.NewFileArchiver(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	if cfg.ArchiveS3Bucket == "" {
		return file, nil
	}

	mirror, err := newS3Archiver(ctx, archive.S3Config{
		Bucket:          cfg.ArchiveS3Bucket,
		Prefix:          cfg.ArchiveS3Prefix,
		Region:          cfg.S3Region,
		BaseEndpoint:    cfg.S3BaseEndpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		return nil, fmt.Errorf("archive s3 mirror: %w", err)
	}
	return archive.Multi{file, mirror}, nil
}

// NewEngine builds the engine for one session.
func (c *Components) NewEngine(id string) *engine.Engine {
	return engine.New(id, engine.Deps{
		Validator: c.Validator,
		Completer: c.Completer,
		Generator: c.Generator,
		Saver:     c.Store,
		Logger:    c.Logger,
	})
}

func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}
