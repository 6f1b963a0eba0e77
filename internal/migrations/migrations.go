// Package migrations embeds the goose schema migrations for each supported
// primary store dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var Migrations embed.FS

const (
	DirSQLite   = "sqlite"
	DirPostgres = "postgres"
)
