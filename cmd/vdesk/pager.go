package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/1broseidon/vdesk/internal/config"
	"github.com/1broseidon/vdesk/internal/desktop"
	"github.com/1broseidon/vdesk/internal/pager"
	"github.com/1broseidon/vdesk/internal/state"
	"github.com/1broseidon/vdesk/internal/x11"
)

func runPager(args []string) int {
	fs := flag.NewFlagSet("pager", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk pager")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the pager toolbar in the foreground. Left-click a cell to switch,")
		fmt.Fprintln(os.Stderr, "right-click to pick a window and move it there, scroll to step through")
		fmt.Fprintln(os.Stderr, "desktops. Close the window to exit.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "pager takes no arguments")
		fs.Usage()
		return 2
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	statePath, err := cfg.StatePath()
	if err != nil {
		return fail(err)
	}
	conn, err := x11.NewConnection()
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	store := state.NewStore(statePath, cfg.DefaultDesktops)
	mgr := desktop.NewManager(conn, store, logger)

	if err := pager.New(conn, mgr, cfg.Pager, logger).Run(); err != nil {
		return fail(err)
	}
	return 0
}
