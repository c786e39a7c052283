package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ministore/ftsql/ftsql"
	"github.com/ministore/ftsql/internal/cliopt"
	"github.com/ministore/ftsql/internal/cliutil"
	"github.com/ministore/ftsql/internal/server"
)

func RunServe(g cliopt.GlobalOptions, argv []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(g.Stderr)
	var listen string
	fs.StringVar(&listen, "listen", "", "listen address (default from config)")
	if err := fs.Parse(argv); err != nil {
		return 2
	}

	cfg, err := cliutil.ResolveConfig(g)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	if listen != "" {
		cfg.ListenAddr = listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searcher, err := ftsql.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	defer searcher.Close()

	srv, err := server.New(searcher, cfg.LinkBase)
	if err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	if err := server.ListenAndServe(ctx, cfg.ListenAddr, srv); err != nil {
		fmt.Fprintln(g.Stderr, err)
		return 1
	}
	return 0
}
