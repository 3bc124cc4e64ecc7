// Package repomanager vends repository implementations bound to a database
// handle and owns schema migration.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/listora/listora/internal/dbx"
	"github.com/listora/listora/internal/server/repositories/refreshtokens"
	"github.com/listora/listora/internal/server/repositories/users"
)

// RepositoryManager builds repositories over a DBTX so the same constructor
// serves both pooled connections and transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
