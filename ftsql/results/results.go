// Package results reads the tabular text that sqlcmd writes for a
// CONTAINSTABLE query into ranked rows.
package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	rowsAffectedRe = regexp.MustCompile(`^\(\d+ rows? affected\)$`)
	serverMsgRe    = regexp.MustCompile(`^Msg (\d+), Level (\d+)`)
)

// ErrNoHeader is returned when the output has no "---" separator under the column header.
var ErrNoHeader = errors.New("results: no header separator")

// RowError reports a row whose last column is not a rank.
type RowError struct {
	Line int
	Text string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("results: line %d: cannot read rank from %q", e.Line, e.Text)
}

// ServerError is a "Msg N, Level N" error that SQL Server wrote into the output.
type ServerError struct {
	Number  int
	Level   int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sql server error %d (level %d)", e.Number, e.Level)
	}
	return fmt.Sprintf("sql server error %d (level %d): %s", e.Number, e.Level, e.Message)
}

// Row is one ranked match.
type Row struct {
	Title string `json:"title"`
	Rank  uint64 `json:"rank"`
}

// Link returns the article URL for the row under base.
func (r Row) Link(base string) string {
	return base + url.PathEscape(strings.ReplaceAll(r.Title, " ", "_"))
}

// ParseString is Parse over a string.
func ParseString(s string) ([]Row, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads sqlcmd output. Rows run from the line after the "---" separator
// up to the first blank line or the "(N rows affected)" line. Empty output
// yields no rows and no error.
func Parse(r io.Reader) ([]Row, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("results: read: %w", err)
	}

	if err := serverError(lines); err != nil {
		return nil, err
	}
	if strings.TrimSpace(strings.Join(lines, "")) == "" {
		return nil, nil
	}

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "---") {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	var rows []Row
	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || rowsAffectedRe.MatchString(line) {
			break
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, &RowError{Line: i + 1, Text: lines[i]}
		}
		rank, err := strconv.ParseUint(fields[len(fields)-1], 10, 64)
		if err != nil {
			return nil, &RowError{Line: i + 1, Text: lines[i]}
		}
		rows = append(rows, Row{
			Title: strings.Join(fields[:len(fields)-1], " "),
			Rank:  rank,
		})
	}
	return rows, nil
}

// serverError returns the first server message in lines. The message text is
// the next line.
func serverError(lines []string) error {
	for i, line := range lines {
		m := serverMsgRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		number, _ := strconv.Atoi(m[1])
		level, _ := strconv.Atoi(m[2])
		var msg string
		if i+1 < len(lines) {
			msg = strings.TrimSpace(lines[i+1])
		}
		return &ServerError{Number: number, Level: level, Message: msg}
	}
	return nil
}
