package ftsql

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ministore/ftsql/ftsql/generator"
)

// Runner kinds
const (
	RunnerSQLCmd = "sqlcmd"
	RunnerMSSQL  = "mssql"
	RunnerNone   = "none"
)

// History backends. An empty backend disables history.
const (
	HistoryOff      = ""
	HistorySQLite   = "sqlite"
	HistoryPostgres = "postgres"
)

type Config struct {
	Generator  generator.Config `json:"generator"`
	Runner     RunnerConfig     `json:"runner"`
	History    HistoryConfig    `json:"history"`
	ListenAddr string           `json:"listenAddr"`
	CacheSize  int              `json:"cacheSize"`
	LinkBase   string           `json:"linkBase"`
}

type RunnerConfig struct {
	Kind           string `json:"kind"`
	Binary         string `json:"binary"`
	Server         string `json:"server"`
	User           string `json:"user"`
	Password       string `json:"password"`
	SQLPath        string `json:"sqlPath"`
	ResultsPath    string `json:"resultsPath"`
	DSN            string `json:"dsn"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// Timeout returns the per-search execution limit.
func (r RunnerConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return DefaultRunnerTimeout
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

type HistoryConfig struct {
	Backend        string `json:"backend"`
	SQLitePath     string `json:"sqlitePath"`
	SQLiteDriver   string `json:"sqliteDriver"`
	PostgresDSN    string `json:"postgresDSN"`
	PostgresSchema string `json:"postgresSchema"`
}

func DefaultConfig() Config {
	return Config{
		Generator: generator.DefaultConfig(),
		Runner: RunnerConfig{
			Kind:           RunnerSQLCmd,
			Binary:         DefaultSQLCmdBinary,
			Server:         "localhost",
			SQLPath:        DefaultSQLPath,
			ResultsPath:    DefaultResultsPath,
			TimeoutSeconds: int(DefaultRunnerTimeout / time.Second),
		},
		History: HistoryConfig{
			SQLiteDriver:   "sqlite",
			PostgresSchema: "ftsql",
		},
		ListenAddr: DefaultListenAddr,
		CacheSize:  DefaultCacheSize,
		LinkBase:   DefaultLinkBase,
	}
}

// LoadConfig reads a JSON config file over DefaultConfig. An empty path
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, Wrap(ErrIO, "read config", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, Wrap(ErrConfig, "parse config", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := c.Generator.Validate(); err != nil {
		return Wrap(ErrConfig, "generator", err)
	}
	if c.CacheSize < 0 {
		return ConfigError(fmt.Sprintf("cacheSize must not be negative, got %d", c.CacheSize))
	}

	switch c.Runner.Kind {
	case RunnerSQLCmd:
		if c.Runner.Binary == "" || c.Runner.Server == "" {
			return ConfigError("sqlcmd runner needs binary and server")
		}
		if c.Runner.SQLPath == "" || c.Runner.ResultsPath == "" {
			return ConfigError("sqlcmd runner needs sqlPath and resultsPath")
		}
	case RunnerMSSQL:
		if c.Runner.DSN == "" {
			return ConfigError("mssql runner needs dsn")
		}
	case RunnerNone:
	default:
		return ConfigError(fmt.Sprintf("unknown runner %q", c.Runner.Kind))
	}

	switch c.History.Backend {
	case HistoryOff:
	case HistorySQLite:
		if c.History.SQLitePath == "" {
			return ConfigError("sqlite history needs sqlitePath")
		}
	case HistoryPostgres:
		if c.History.PostgresDSN == "" {
			return ConfigError("postgres history needs postgresDSN")
		}
	default:
		return ConfigError(fmt.Sprintf("unknown history backend %q", c.History.Backend))
	}
	return nil
}
