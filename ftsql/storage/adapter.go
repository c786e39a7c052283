package storage

import (
	"context"
	"database/sql"

	"github.com/ministore/ftsql/ftsql/storage/sqlbuilder"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
)

// Adapter abstracts database-specific operations for the search history store
type Adapter interface {
	Backend() Backend
	PlaceholderStyle() sqlbuilder.PlaceholderStyle
	StoreID() string

	Connect(ctx context.Context) (*sql.DB, error)
	Close() error

	CreateSchema(ctx context.Context, db *sql.DB) error

	SQL() SQL
}

// SQL holds prepared SQL templates for the history tables
type SQL struct {
	GetMeta string
	SetMeta string

	// InsertSearch takes query, sql, error, results_json, duration_ms, created_at
	// and returns the new id.
	InsertSearch string
	GetSearch    string
	DeleteSearch string
	ClearSearch  string
	CountSearch  string

	// RecentSearches is a prefix; callers append the LIMIT placeholder.
	RecentSearches string
}

// SchemaVersion is stored in the meta table by CreateSchema.
const SchemaVersion = "1"
