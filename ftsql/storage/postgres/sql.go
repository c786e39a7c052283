package postgres

import "github.com/ministore/ftsql/ftsql/storage"

const ddlBase = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT
);

CREATE TABLE IF NOT EXISTS searches (
  id           BIGSERIAL PRIMARY KEY,
  query        TEXT   NOT NULL,
  sql_text     TEXT   NOT NULL DEFAULT '',
  error        TEXT   NOT NULL DEFAULT '',
  results_json JSONB  NOT NULL DEFAULT '[]'::jsonb,
  duration_ms  BIGINT NOT NULL DEFAULT 0,
  created_at   BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at);
`

var SQLTemplates = storage.SQL{
	GetMeta:        "SELECT value FROM meta WHERE key = $1",
	SetMeta:        "INSERT INTO meta(key,value) VALUES($1,$2) ON CONFLICT(key) DO UPDATE SET value=EXCLUDED.value",
	InsertSearch:   "INSERT INTO searches(query, sql_text, error, results_json, duration_ms, created_at) VALUES($1, $2, $3, $4::jsonb, $5, $6) RETURNING id",
	GetSearch:      "SELECT id, query, sql_text, error, results_json::text, duration_ms, created_at FROM searches WHERE id = $1",
	DeleteSearch:   "DELETE FROM searches WHERE id = $1",
	ClearSearch:    "DELETE FROM searches",
	CountSearch:    "SELECT COUNT(*) FROM searches",
	RecentSearches: "SELECT id, query, sql_text, error, results_json::text, duration_ms, created_at FROM searches ORDER BY created_at DESC, id DESC LIMIT ",
}
