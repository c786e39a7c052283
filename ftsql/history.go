package ftsql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ministore/ftsql/ftsql/results"
	"github.com/ministore/ftsql/ftsql/storage"
	"github.com/ministore/ftsql/ftsql/storage/postgres"
	"github.com/ministore/ftsql/ftsql/storage/sqlbuilder"
	"github.com/ministore/ftsql/ftsql/storage/sqlite"
)

// Entry is one recorded search. Error is empty for a successful search.
type Entry struct {
	ID          int64         `json:"id"`
	Query       string        `json:"query"`
	SQL         string        `json:"sql,omitempty"`
	Error       string        `json:"error,omitempty"`
	Results     []results.Row `json:"results"`
	DurationMS  int64         `json:"durationMs"`
	CreatedAtMS int64         `json:"createdAtMs"`
}

// History stores past searches in SQLite or PostgreSQL.
type History struct {
	adapter storage.Adapter
	db      *sql.DB
}

// NewHistoryAdapter builds the storage adapter for cfg, or nil when history is off.
func NewHistoryAdapter(cfg HistoryConfig) (storage.Adapter, error) {
	switch cfg.Backend {
	case HistoryOff:
		return nil, nil
	case HistorySQLite:
		return sqlite.NewWithDriver(cfg.SQLitePath, cfg.SQLiteDriver), nil
	case HistoryPostgres:
		if !postgres.ValidSchemaName(cfg.PostgresSchema) {
			return nil, ConfigError(fmt.Sprintf("invalid postgres schema %q", cfg.PostgresSchema))
		}
		return postgres.New(cfg.PostgresDSN, cfg.PostgresSchema), nil
	default:
		return nil, ConfigError(fmt.Sprintf("unknown history backend %q", cfg.Backend))
	}
}

// OpenHistory connects through adapter and creates the history tables if needed.
func OpenHistory(ctx context.Context, adapter storage.Adapter) (*History, error) {
	db, err := adapter.Connect(ctx)
	if err != nil {
		return nil, Wrap(ErrIO, "connect history store", err)
	}
	if err := adapter.CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, Wrap(ErrSQL, "create history schema", err)
	}
	return &History{adapter: adapter, db: db}, nil
}

func (h *History) Backend() storage.Backend {
	return h.adapter.Backend()
}

func (h *History) Record(ctx context.Context, e Entry) (int64, error) {
	rows := e.Results
	if rows == nil {
		rows = []results.Row{}
	}
	resultsJSON, err := json.Marshal(rows)
	if err != nil {
		return 0, Wrap(ErrIO, "encode results", err)
	}

	var id int64
	err = h.db.QueryRowContext(ctx, h.adapter.SQL().InsertSearch,
		e.Query, e.SQL, e.Error, string(resultsJSON), e.DurationMS, e.CreatedAtMS,
	).Scan(&id)
	if err != nil {
		return 0, Wrap(ErrSQL, "insert search", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	b := sqlbuilder.New(h.adapter.PlaceholderStyle())
	q := h.adapter.SQL().RecentSearches + b.Arg(limit)

	rows, err := h.db.QueryContext(ctx, q, b.Args()...)
	if err != nil {
		return nil, Wrap(ErrSQL, "query recent searches", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, Wrap(ErrSQL, "iterate recent searches", err)
	}
	return out, nil
}

func (h *History) Get(ctx context.Context, id int64) (Entry, error) {
	row := h.db.QueryRowContext(ctx, h.adapter.SQL().GetSearch, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, NotFoundError(fmt.Sprintf("search %d", id))
		}
		return Entry{}, err
	}
	return e, nil
}

func (h *History) Delete(ctx context.Context, id int64) error {
	res, err := h.db.ExecContext(ctx, h.adapter.SQL().DeleteSearch, id)
	if err != nil {
		return Wrap(ErrSQL, "delete search", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NotFoundError(fmt.Sprintf("search %d", id))
	}
	return nil
}

func (h *History) Clear(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, h.adapter.SQL().ClearSearch); err != nil {
		return Wrap(ErrSQL, "clear history", err)
	}
	return nil
}

func (h *History) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := h.db.QueryRowContext(ctx, h.adapter.SQL().CountSearch).Scan(&n); err != nil {
		return 0, Wrap(ErrSQL, "count searches", err)
	}
	return n, nil
}

func (h *History) Close() error {
	err := h.db.Close()
	if aerr := h.adapter.Close(); err == nil {
		err = aerr
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(s rowScanner) (Entry, error) {
	var e Entry
	var resultsJSON string
	if err := s.Scan(&e.ID, &e.Query, &e.SQL, &e.Error, &resultsJSON, &e.DurationMS, &e.CreatedAtMS); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, Wrap(ErrSQL, "scan search", err)
	}
	if err := json.Unmarshal([]byte(resultsJSON), &e.Results); err != nil {
		return Entry{}, Wrap(ErrIO, "decode results", err)
	}
	return e, nil
}
