// Package migrations embeds the PostgreSQL schema migrations in
// golang-migrate's NNNNNN_name.{up,down}.sql layout.
package migrations

import "embed"

// FS contains the embedded PostgreSQL migrations.
//
//go:embed *.sql
var FS embed.FS
