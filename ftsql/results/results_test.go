package results

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const sample = "Changed database context to 'Wikipedia'.\r\n" +
	"Title                                    RANK\r\n" +
	"---------------------------------------- -----------\r\n" +
	"Go (programming language)                        112\r\n" +
	"Gopher                                            64\r\n" +
	"\r\n" +
	"(2 rows affected)\r\n"

func TestParseSample(t *testing.T) {
	rows, err := ParseString(sample)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Row{
		{Title: "Go (programming language)", Rank: 112},
		{Title: "Gopher", Rank: 64},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("expected %+v, got %+v", want, rows)
	}
}

func TestParseEndsAfterRowsAffected(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []Row
	}{
		{
			name: "one row",
			out:  "ctx\r\nTitle RANK\r\n-- --\r\nGopher 64\r\n\r\n(1 rows affected)\r\n",
			want: []Row{{Title: "Gopher", Rank: 64}},
		},
		{
			name: "two rows",
			out:  "ctx\r\nTitle RANK\r\n-- --\r\nAlpha 10\r\nBeta 5\r\n\r\n(2 rows affected)\r\n",
			want: []Row{{Title: "Alpha", Rank: 10}, {Title: "Beta", Rank: 5}},
		},
		{
			name: "no blank line before count",
			out:  "Title RANK\n-- --\nAlpha 10\n(1 row affected)\n",
			want: []Row{{Title: "Alpha", Rank: 10}},
		},
		{
			name: "no trailing newline",
			out:  "Title RANK\n-- --\nAlpha 10\n\n(1 rows affected)",
			want: []Row{{Title: "Alpha", Rank: 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ParseString(tt.out)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(rows, tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, rows)
			}
		})
	}
}

func TestParseEmptyOutput(t *testing.T) {
	for _, out := range []string{"", "\r\n", "\n\n"} {
		rows, err := ParseString(out)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", out, err)
		}
		if rows != nil {
			t.Errorf("%q: expected no rows, got %+v", out, rows)
		}
	}
}

func TestParseServerError(t *testing.T) {
	out := "Changed database context to 'Wikipedia'.\r\n" +
		"Msg 7630, Level 15, State 3, Server db01, Line 1\r\n" +
		"Syntax error near 'NOT' in the full-text search condition '(a) OR NOT (b)'.\r\n"
	_, err := ParseString(out)
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if se.Number != 7630 || se.Level != 15 {
		t.Errorf("expected msg 7630 level 15, got %d level %d", se.Number, se.Level)
	}
	if !strings.HasPrefix(se.Message, "Syntax error near 'NOT'") {
		t.Errorf("unexpected message %q", se.Message)
	}
}

func TestParseNoRows(t *testing.T) {
	out := strings.Join([]string{
		"Changed database context to 'Wikipedia'.",
		"Title RANK",
		"----- ----",
		"",
		"(0 rows affected)",
	}, "\n")
	rows, err := ParseString(out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("expected no rows, got %+v", rows)
	}
}

func TestParseNoHeader(t *testing.T) {
	out := strings.Repeat("some text 1\n", 8)
	_, err := ParseString(out)
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("expected ErrNoHeader, got %v", err)
	}
}

func TestParseBadRank(t *testing.T) {
	out := strings.Join([]string{
		"ctx",
		"Title RANK",
		"----- ----",
		"Alpha 10",
		"Beta high",
		"",
		"(2 rows affected)",
	}, "\n")
	_, err := ParseString(out)
	var re *RowError
	if !errors.As(err, &re) {
		t.Fatalf("expected RowError, got %v", err)
	}
	if re.Line != 5 {
		t.Errorf("expected line 5, got %d", re.Line)
	}
}

func TestRowLink(t *testing.T) {
	r := Row{Title: "New York City", Rank: 1}
	if got := r.Link("https://en.wikipedia.org/wiki/"); got != "https://en.wikipedia.org/wiki/New_York_City" {
		t.Errorf("unexpected link %q", got)
	}
}
