// Package migrations embeds the goose migrations for the collection
// database. The physical collection tables themselves are created lazily at
// runtime (their names are pseudonyms, unknowable at migration time); the
// migrations only manage the fixed registry schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
