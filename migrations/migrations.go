// Package migrations embeds the SQL schema migrations so they can be
// applied at startup and inside integration test containers.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
