package ftsql

import (
	"context"
	"errors"
	"time"

	"github.com/ministore/ftsql/ftsql/results"
	"github.com/ministore/ftsql/ftsql/runner"
)

// SearchResult is the outcome of one executed search.
type SearchResult struct {
	Query   string        `json:"query"`
	SQL     string        `json:"sql"`
	Rows    []results.Row `json:"rows"`
	Elapsed time.Duration `json:"elapsed"`
	// HistoryErr is set when the search succeeded but could not be recorded.
	HistoryErr error `json:"-"`
}

// Searcher compiles queries, runs them and records them in the history store.
type Searcher struct {
	cfg     Config
	cache   *Cache
	runner  runner.Runner
	history *History
	closers []func() error
	now     func() time.Time
}

// NewSearcher wires a searcher from parts. history may be nil.
func NewSearcher(cfg Config, r runner.Runner, history *History) *Searcher {
	return &Searcher{
		cfg:     cfg,
		cache:   NewCache(cfg.CacheSize),
		runner:  r,
		history: history,
		now:     time.Now,
	}
}

// Open validates cfg and builds the runner and history store it names.
func Open(ctx context.Context, cfg Config) (*Searcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r, closeRunner, err := NewRunner(ctx, cfg.Runner)
	if err != nil {
		return nil, err
	}

	var history *History
	adapter, err := NewHistoryAdapter(cfg.History)
	if err != nil {
		_ = closeRunner()
		return nil, err
	}
	if adapter != nil {
		history, err = OpenHistory(ctx, adapter)
		if err != nil {
			_ = closeRunner()
			return nil, err
		}
	}

	s := NewSearcher(cfg, r, history)
	s.closers = append(s.closers, closeRunner)
	return s, nil
}

// NewRunner builds the runner selected by cfg and a func releasing it.
func NewRunner(ctx context.Context, cfg RunnerConfig) (runner.Runner, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Kind {
	case RunnerSQLCmd:
		return &runner.SQLCmd{
			Binary:      cfg.Binary,
			Server:      cfg.Server,
			User:        cfg.User,
			Password:    cfg.Password,
			SQLPath:     cfg.SQLPath,
			ResultsPath: cfg.ResultsPath,
		}, noop, nil
	case RunnerMSSQL:
		m, err := runner.OpenMSSQL(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, Wrap(ErrRunner, "connect to sql server", err)
		}
		return m, m.Close, nil
	case RunnerNone:
		return runner.Static{}, noop, nil
	default:
		return nil, nil, ConfigError("unknown runner " + cfg.Kind)
	}
}

func (s *Searcher) Config() Config { return s.cfg }

// History returns the history store, or nil when history is off.
func (s *Searcher) History() *History { return s.history }

// Compile returns the SQL for query, consulting the compile cache first.
func (s *Searcher) Compile(query string) (string, error) {
	if sql, ok := s.cache.Get(query); ok {
		return sql, nil
	}
	sql, err := Compile(query, s.cfg.Generator)
	if err != nil {
		return "", err
	}
	s.cache.Add(query, sql)
	return sql, nil
}

// Search compiles and runs query. Failed searches are recorded too; a failure
// to record never fails the search.
func (s *Searcher) Search(ctx context.Context, query string) (*SearchResult, error) {
	start := s.now()

	sql, err := s.Compile(query)
	if err != nil {
		s.record(ctx, Entry{Query: query, Error: err.Error()}, start)
		return nil, err
	}

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Runner.Timeout())
	rows, err := s.runner.Run(runCtx, sql)
	cancel()
	if err != nil {
		err = classifyRunError(err)
		s.record(ctx, Entry{Query: query, SQL: sql, Error: err.Error()}, start)
		return nil, err
	}

	res := &SearchResult{Query: query, SQL: sql, Rows: rows}
	res.Elapsed, res.HistoryErr = s.record(ctx, Entry{Query: query, SQL: sql, Results: rows}, start)
	return res, nil
}

func (s *Searcher) record(ctx context.Context, e Entry, start time.Time) (time.Duration, error) {
	elapsed := s.now().Sub(start)
	if s.history == nil {
		return elapsed, nil
	}
	e.DurationMS = elapsed.Milliseconds()
	e.CreatedAtMS = start.UnixMilli()
	_, err := s.history.Record(ctx, e)
	return elapsed, err
}

func classifyRunError(err error) error {
	var re *results.RowError
	if errors.As(err, &re) || errors.Is(err, results.ErrNoHeader) {
		return Wrap(ErrResults, "read results", err)
	}
	return Wrap(ErrRunner, "run query", err)
}

// Close releases the runner and the history store.
func (s *Searcher) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
