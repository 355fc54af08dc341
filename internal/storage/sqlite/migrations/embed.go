// Package migrations embeds the SQLite schema migrations in golang-migrate's
// NNNNNN_name.{up,down}.sql layout.
package migrations

import "embed"

// FS contains the embedded SQLite migrations.
//
//go:embed *.sql
var FS embed.FS
