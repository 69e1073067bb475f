package postgres

import "embed"

// Migrations holds the embedded goose migration files for the ledger
// schema. cmd/migrate and test setups run them via goose.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads.
const MigrationsDir = "migrations"
