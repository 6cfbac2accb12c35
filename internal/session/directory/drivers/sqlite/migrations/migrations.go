// Package migrations embeds the schema migrations for the sqlite credential
// directory.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
