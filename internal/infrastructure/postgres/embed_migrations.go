package postgres

import "embed"

// MigrationFS embebe los archivos SQL de internal/infrastructure/postgres/migrations.
// Los aplica Migrate() en el arranque del proceso.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
