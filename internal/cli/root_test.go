package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := ExecuteIO(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestHelp(t *testing.T) {
	code, out, _ := run(t)
	if code != 0 || !strings.Contains(out, "COMMANDS") {
		t.Errorf("expected help, got %d %q", code, out)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, errOut := run(t, "frobnicate")
	if code != 2 || !strings.Contains(errOut, "unknown command: frobnicate") {
		t.Errorf("expected usage error, got %d %q", code, errOut)
	}
}

func TestBadGlobalFlag(t *testing.T) {
	if code, _, _ := run(t, "--nope", "compile"); code != 2 {
		t.Errorf("expected exit 2, got %d", code)
	}
}

func TestCompile(t *testing.T) {
	code, out, errOut := run(t, "compile", "-q", "@contains: cat dog:")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "CONTAINSTABLE([dbo].[Real_Article], *, '(cat) AND (dog)')") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCompilePositionalPredicate(t *testing.T) {
	code, out, errOut := run(t, "compile", "--predicate", "@starts:", "run:")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if strings.TrimSpace(out) != "run*" {
		t.Errorf("expected run*, got %q", out)
	}
}

func TestCompileJSON(t *testing.T) {
	code, out, errOut := run(t, "--format", "json", "compile", "-q", "@thesaurus: car:")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if !strings.Contains(got["sql"], `FORMSOF(THESAURUS, "car")`) {
		t.Errorf("unexpected sql %q", got["sql"])
	}
}

func TestCompileErrors(t *testing.T) {
	if code, _, _ := run(t, "compile"); code != 2 {
		t.Errorf("missing query: expected 2, got %d", code)
	}
	code, _, errOut := run(t, "compile", "-q", "@weighted: a, 0.5, b, 0.6:")
	if code != 1 || !strings.Contains(errOut, "weights do not add up to 1.0") {
		t.Errorf("expected weight error, got %d %q", code, errOut)
	}
}

func TestTokens(t *testing.T) {
	code, out, _ := run(t, "tokens", "-q", "@near: a, 3:")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	want := "Near\nColon\nWordOrPhrase(a)\nComma\nNumber(3)\nColon\n"
	if out != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestSearchAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	global := []string{"--runner", "none", "--backend", "sqlite", "--sqlite-path", db}

	code, out, errOut := run(t, append(global, "search", "-q", "@contains: cat:")...)
	if code != 0 {
		t.Fatalf("search exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Found 0 results") {
		t.Errorf("unexpected search output %q", out)
	}

	code, _, _ = run(t, append(global, "search", "-q", "cat")...)
	if code != 1 {
		t.Errorf("expected failed search to exit 1, got %d", code)
	}

	code, out, errOut = run(t, append(global, "--format", "json", "history", "--limit", "5")...)
	if code != 0 {
		t.Fatalf("history exit %d: %s", code, errOut)
	}
	var entries []map[string]any
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["query"] != "cat" || entries[0]["error"] == nil {
		t.Errorf("expected the failed search first, got %v", entries[0])
	}

	code, out, _ = run(t, append(global, "history", "--clear")...)
	if code != 0 || !strings.Contains(out, "history cleared") {
		t.Errorf("clear: %d %q", code, out)
	}
}

func TestHistoryDisabled(t *testing.T) {
	code, _, errOut := run(t, "history")
	if code != 1 || !strings.Contains(errOut, "history is disabled") {
		t.Errorf("expected disabled error, got %d %q", code, errOut)
	}
}

func TestConfigFlagsOverride(t *testing.T) {
	code, _, errOut := run(t, "--runner", "odbc", "compile", "-q", "@contains: a:")
	if code != 1 || !strings.Contains(errOut, "unknown runner") {
		t.Errorf("expected config error, got %d %q", code, errOut)
	}
}
