// Package migrations содержит схему БД, применяется через goose при старте
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
