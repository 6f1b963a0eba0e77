// Package repomanager vends dialect-specific repositories bound to a DBTX
// and runs the embedded goose migrations for that dialect.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"

	"github.com/dmitrijs2005/talentscout/internal/config"
	"github.com/dmitrijs2005/talentscout/internal/dbx"
	"github.com/dmitrijs2005/talentscout/internal/filex"
	"github.com/dmitrijs2005/talentscout/internal/migrations"
	"github.com/dmitrijs2005/talentscout/internal/repositories/candidates"
	"github.com/dmitrijs2005/talentscout/internal/repositories/metadata"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// RepositoryManager builds repositories for one dialect.
type RepositoryManager interface {
	Candidates(db dbx.DBTX) candidates.Repository
	Metadata(db dbx.DBTX) metadata.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}

// gooseUp is a seam for testing migration failures.
var gooseUp = func(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	p, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = p.Up(ctx)
	return err
}

func runMigrations(ctx context.Context, dialect goose.Dialect, dir string, db *sql.DB) error {
	fsys, err := fs.Sub(migrations.Migrations, dir)
	if err != nil {
		return err
	}
	if err := gooseUp(ctx, dialect, db, fsys); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}

type SQLiteRepositoryManager struct{}

func (m *SQLiteRepositoryManager) Candidates(db dbx.DBTX) candidates.Repository {
	return candidates.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, goose.DialectSQLite3, migrations.DirSQLite, db)
}

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Candidates(db dbx.DBTX) candidates.Repository {
	return candidates.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Metadata(db dbx.DBTX) metadata.Repository {
	return metadata.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, goose.DialectPostgres, migrations.DirPostgres, db)
}

// sqliteDSN adds a busy timeout so readers never fail a concurrent commit.
// isMemoryDSN reports an in-memory SQLite database. Each connection to one
// gets its own empty database.
func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)"
}

// Open connects to the configured primary store, migrates it and returns
// the matching manager.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, RepositoryManager, error) {
	var (
		db  *sql.DB
		m   RepositoryManager
		err error
	)

	switch driver {
	case config.DriverSQLite:
		if !strings.HasPrefix(dsn, ":memory:") && !strings.HasPrefix(dsn, "file:") {
			if _, err := filex.EnsureParentDir(dsn); err != nil {
				return nil, nil, err
			}
		}
		db, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err == nil && isMemoryDSN(dsn) {
			// migrations only exist on the connection that ran them
			db.SetMaxOpenConns(1)
		}
		m = &SQLiteRepositoryManager{}
	case config.DriverPostgres:
		db, err = sql.Open("pgx", dsn)
		m = &PostgresRepositoryManager{}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("db open: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return db, m, nil
}
