package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ministore/ftsql/ftsql/results"
)

// ExitError is returned when the sqlcmd process fails. Server holds the
// server message sqlcmd wrote to the results file, if any.
type ExitError struct {
	Code   int
	Stderr string
	Server *results.ServerError
	Err    error
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Server != nil {
		msg = e.Server.Error()
	}
	if msg == "" {
		return fmt.Sprintf("sqlcmd exited with code %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("sqlcmd exited with code %d: %s", e.Code, msg)
}

func (e *ExitError) Unwrap() []error {
	if e.Server != nil {
		return []error{e.Err, e.Server}
	}
	return []error{e.Err}
}

// SQLCmd runs queries through the sqlcmd client. The query is written to
// SQLPath and the client's output is read back from ResultsPath.
type SQLCmd struct {
	Binary      string
	Server      string
	User        string // empty selects a trusted connection
	Password    string
	SQLPath     string
	ResultsPath string
}

// Args returns the sqlcmd command line, without the binary. -b makes a
// server error end sqlcmd with a non-zero exit code.
func (c *SQLCmd) Args() []string {
	args := []string{"-S", c.Server}
	if c.User != "" {
		args = append(args, "-U", c.User, "-P", c.Password)
	} else {
		args = append(args, "-E")
	}
	return append(args, "-b", "-i", c.SQLPath, "-o", c.ResultsPath)
}

func (c *SQLCmd) Run(ctx context.Context, sql string) ([]results.Row, error) {
	if err := os.WriteFile(c.SQLPath, []byte(sql), 0o600); err != nil {
		return nil, fmt.Errorf("write sql file: %w", err)
	}

	binary := c.Binary
	if binary == "" {
		binary = "sqlcmd"
	}
	cmd := exec.CommandContext(ctx, binary, c.Args()...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return nil, &ExitError{Code: ee.ExitCode(), Stderr: stderr.String(), Server: c.serverError(), Err: err}
		}
		return nil, fmt.Errorf("start %s: %w", binary, err)
	}

	f, err := os.Open(c.ResultsPath)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()
	return results.Parse(f)
}

// serverError reads the server message from the results file after a failed run.
func (c *SQLCmd) serverError() *results.ServerError {
	f, err := os.Open(c.ResultsPath)
	if err != nil {
		return nil
	}
	defer f.Close()
	var se *results.ServerError
	if _, err := results.Parse(f); errors.As(err, &se) {
		return se
	}
	return nil
}
