package ftsql

import "time"

const (
	DefaultListenAddr    = "127.0.0.1:8080"
	DefaultCacheSize     = 256
	DefaultLinkBase      = "https://en.wikipedia.org/wiki/"
	DefaultRunnerTimeout = 30 * time.Second
	DefaultHistoryLimit  = 20
	DefaultSQLCmdBinary  = "sqlcmd"
	DefaultSQLPath       = "sql"
	DefaultResultsPath   = "results"
)
