// Package migrations embeds the content database schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
