// Package migrations embeds the schema migrations for the sqlite blob driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
