// Package migrations holds the embedded schema migration files.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
