// Package db wires the PostgreSQL connection, schema migrations and the
// repositories together.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/linkmark/internal/server/providers"
	"github.com/dmitrijs2005/linkmark/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Providers() providers.Repository
}
