package ftsql

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ministore/ftsql/ftsql/results"
	"github.com/ministore/ftsql/ftsql/runner"
	"github.com/ministore/ftsql/ftsql/storage/sqlite"
	_ "modernc.org/sqlite"
)

func steppingNow(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := t
		t = t.Add(step)
		return now
	}
}

type countingRunner struct {
	calls int
	last  string
	rows  []results.Row
	err   error
}

func (r *countingRunner) Run(ctx context.Context, sql string) ([]results.Row, error) {
	r.calls++
	r.last = sql
	return r.rows, r.err
}

func newTestSearcher(t *testing.T, r runner.Runner, withHistory bool) *Searcher {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Runner.Kind = RunnerNone

	var h *History
	if withHistory {
		var err error
		h, err = OpenHistory(context.Background(), sqlite.New(filepath.Join(t.TempDir(), "h.db")))
		if err != nil {
			t.Fatalf("OpenHistory: %v", err)
		}
	}
	s := NewSearcher(cfg, r, h)
	s.now = steppingNow(time.Unix(1700000000, 0), 15*time.Millisecond)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSearcherCompileCaches(t *testing.T) {
	s := newTestSearcher(t, runner.Static{}, false)
	first, err := s.Compile("@contains: cat:")
	if err != nil {
		t.Fatal(err)
	}
	if s.cache.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", s.cache.Len())
	}
	second, err := s.Compile("@contains: cat:")
	if err != nil || second != first {
		t.Errorf("expected cached sql, got %q (%v)", second, err)
	}

	if _, err := s.Compile("cat"); err == nil {
		t.Fatal("expected error")
	}
	if s.cache.Len() != 1 {
		t.Errorf("errors must not be cached, got %d entries", s.cache.Len())
	}
}

func TestSearcherSearchRecordsHistory(t *testing.T) {
	r := &countingRunner{rows: []results.Row{{Title: "Cat", Rank: 80}}}
	s := newTestSearcher(t, r, true)
	ctx := context.Background()

	res, err := s.Search(ctx, "@contains: cat:")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.HistoryErr != nil {
		t.Fatalf("unexpected history error: %v", res.HistoryErr)
	}
	if r.calls != 1 || r.last != res.SQL {
		t.Errorf("runner not called with compiled sql: %d calls, %q", r.calls, r.last)
	}
	if len(res.Rows) != 1 || res.Rows[0].Title != "Cat" {
		t.Errorf("unexpected rows %+v", res.Rows)
	}
	if res.Elapsed != 15*time.Millisecond {
		t.Errorf("expected 15ms elapsed, got %v", res.Elapsed)
	}

	if _, err := s.Search(ctx, "@weighted: a, 0.5:"); !IsKind(err, ErrWeights) {
		t.Fatalf("expected weights error, got %v", err)
	}
	if r.calls != 1 {
		t.Errorf("runner must not run for a failed compile, got %d calls", r.calls)
	}

	entries, err := s.History().Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(entries))
	}
	if entries[0].Error == "" || entries[0].SQL != "" {
		t.Errorf("expected failed entry first, got %+v", entries[0])
	}
	if entries[1].Error != "" || entries[1].DurationMS != 15 || len(entries[1].Results) != 1 {
		t.Errorf("unexpected successful entry %+v", entries[1])
	}
}

func TestSearcherRunnerErrors(t *testing.T) {
	s := newTestSearcher(t, runner.Static{Err: errors.New("login failed")}, false)
	if _, err := s.Search(context.Background(), "@contains: cat:"); !IsKind(err, ErrRunner) {
		t.Errorf("expected runner error, got %v", err)
	}

	s = newTestSearcher(t, runner.Static{Err: results.ErrNoHeader}, false)
	_, err := s.Search(context.Background(), "@contains: cat:")
	if !IsKind(err, ErrResults) || !errors.Is(err, results.ErrNoHeader) {
		t.Errorf("expected results error wrapping ErrNoHeader, got %v", err)
	}

	s = newTestSearcher(t, runner.Static{Err: &results.ServerError{Number: 7630, Level: 15}}, false)
	_, err = s.Search(context.Background(), "@contains: cat:")
	var se *results.ServerError
	if !IsKind(err, ErrRunner) || !errors.As(err, &se) {
		t.Errorf("expected runner error wrapping ServerError, got %v", err)
	}

	s = newTestSearcher(t, runner.Static{Err: context.DeadlineExceeded}, false)
	_, err = s.Search(context.Background(), "@contains: cat:")
	if !IsKind(err, ErrRunner) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected runner error wrapping DeadlineExceeded, got %v", err)
	}
}

func TestSearcherHistoryFailureDoesNotFailSearch(t *testing.T) {
	s := newTestSearcher(t, runner.Static{}, true)
	// Closing the store underneath the searcher makes every Record fail.
	_ = s.history.db.Close()

	res, err := s.Search(context.Background(), "@contains: cat:")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.HistoryErr == nil {
		t.Error("expected HistoryErr to report the failed insert")
	}
}

func TestOpenWithNoneRunner(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Runner.Kind = RunnerNone
	cfg.History = HistoryConfig{Backend: HistorySQLite, SQLitePath: filepath.Join(t.TempDir(), "h.db"), SQLiteDriver: sqlite.DriverModernc}

	s, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	res, err := s.Search(context.Background(), "@near: a, b:")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("expected no rows from none runner, got %+v", res.Rows)
	}
	if s.History() == nil {
		t.Error("expected history store")
	}
}

func TestOpenRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Runner.Kind = "bogus"
	if _, err := Open(context.Background(), cfg); !IsKind(err, ErrConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}
