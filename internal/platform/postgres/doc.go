// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces using the pgx driver in database/sql mode.
//
// Foreign keys in the schema are declared RESTRICT, never ON DELETE
// CASCADE: cascade deletion is an explicit, ordered algorithm executed by
// the service layer inside one transaction, and a forgotten child delete
// surfaces as an integrity violation instead of silently removing rows.
package postgres
