package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/1broseidon/vdesk/internal/config"
	"github.com/1broseidon/vdesk/internal/desktop"
	"github.com/1broseidon/vdesk/internal/popup"
	"github.com/1broseidon/vdesk/internal/state"
	"github.com/1broseidon/vdesk/internal/tui"
	"github.com/1broseidon/vdesk/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "next":
		os.Exit(runNext(os.Args[2:]))
	case "prev":
		os.Exit(runPrev(os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "set-desktops":
		os.Exit(runSetDesktops(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "current":
		os.Exit(runCurrent(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "identify":
		os.Exit(runIdentify(os.Args[2:]))
	case "pager":
		os.Exit(runPager(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  switch <N>           Switch to desktop N (1-indexed)")
	fmt.Fprintln(w, "  next                 Switch to the next desktop (wraps around)")
	fmt.Fprintln(w, "  prev                 Switch to the previous desktop (wraps around)")
	fmt.Fprintln(w, "  move <window> <N>    Move a window to desktop N (sticky or 0 = all desktops)")
	fmt.Fprintln(w, "  set-desktops <N>     Set the number of desktops")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  list                 List all desktops")
	fmt.Fprintln(w, "  current              Print the current desktop number")
	fmt.Fprintln(w, "  windows              List windows and their desktop assignments")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  identify             Show the current desktop number in a popup")
	fmt.Fprintln(w, "  pager                Run the pager toolbar (foreground)")
	fmt.Fprintln(w, "  tui                  Open the interactive desktop browser")
	fmt.Fprintln(w, "  mcp serve            Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "The window argument to move is a hex id (0x1a00003), a decimal id,")
	fmt.Fprintln(w, "or \"active\" for the currently focused window.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'vdesk <command> --help' for command-specific options.")
}

// setup loads config, connects to X, and builds the manager shared by the
// one-shot commands. Callers must Close the connection.
func setup() (*desktop.Manager, *x11.Connection, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	statePath, err := cfg.StatePath()
	if err != nil {
		return nil, nil, err
	}
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, nil, err
	}
	store := state.NewStore(statePath, cfg.DefaultDesktops)
	return desktop.NewManager(conn, store, nil), conn, nil
}

// fail prints an error and maps it to an exit code: 2 for user errors,
// 1 for everything else. A persistence failure gets an extra warning since
// the on-disk state and the X server may now disagree.
func fail(err error) int {
	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, state.ErrPersistence) {
		fmt.Fprintln(os.Stderr, "warning: desktop state was not saved; window visibility may be out of sync")
		return 1
	}
	switch {
	case errors.Is(err, state.ErrOutOfRange),
		errors.Is(err, state.ErrInvalidCount),
		errors.Is(err, desktop.ErrBadSpecifier),
		errors.Is(err, desktop.ErrBadTag),
		errors.Is(err, desktop.ErrUnknownWindow),
		errors.Is(err, x11.ErrNoActiveWindow):
		return 2
	}
	return 1
}

func runSwitch(args []string) int {
	fs := flag.NewFlagSet("switch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk switch <desktop>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Switch to a desktop by number (1-indexed).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "switch takes exactly one argument")
		fs.Usage()
		return 2
	}

	target, err := parseDesktopNumber(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	mgr, conn, err := setup()
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	if err := mgr.Switch(target); err != nil {
		return fail(err)
	}
	fmt.Printf("Switched to desktop %d\n", target)
	return 0
}

func runNext(args []string) int {
	return runStep("next", args, (*desktop.Manager).Next)
}

func runPrev(args []string) int {
	return runStep("prev", args, (*desktop.Manager).Prev)
}

func runStep(name string, args []string, step func(*desktop.Manager) (int, error)) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vdesk %s\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", name)
		fs.Usage()
		return 2
	}

	mgr, conn, err := setup()
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	target, err := step(mgr)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Switched to desktop %d\n", target)
	return 0
}

func runMove(args []string) int {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk move <window> <desktop>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Move a window to a desktop. The window is a hex id (0x1a00003), a")
		fmt.Fprintln(os.Stderr, "decimal id, or \"active\". The desktop is a number, or \"sticky\" (or 0)")
		fmt.Fprintln(os.Stderr, "to show the window on every desktop.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "move takes exactly two arguments")
		fs.Usage()
		return 2
	}

	sp, err := desktop.ParseSpec(fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	tag, err := desktop.ParseTag(fs.Arg(1))
	if err != nil {
		return fail(err)
	}

	mgr, conn, err := setup()
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	id, err := mgr.Resolve(sp)
	if err != nil {
		return fail(err)
	}
	if err := mgr.Move(id, tag); err != nil {
		return fail(err)
	}

	if tag.IsSticky() {
		fmt.Printf("Window 0x%x is now sticky (all desktops)\n", id)
	} else {
		fmt.Printf("Moved window 0x%x to desktop %d\n", id, tag)
	}
	return 0
}

func runSetDesktops(args []string) int {
	fs := flag.NewFlagSet("set-desktops", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk set-desktops <count>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Change the number of desktops. Windows assigned past the new count")
		fmt.Fprintln(os.Stderr, "keep their assignment and reappear when the count is raised again.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "set-desktops takes exactly one argument")
		fs.Usage()
		return 2
	}

	count, err := parseDesktopNumber(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	mgr, conn, err := setup()
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	if err := mgr.SetDesktops(count); err != nil {
		return fail(err)
	}
	fmt.Printf("Set desktop count to %d\n", count)
	return 0
}

func runIdentify(args []string) int {
	fs := flag.NewFlagSet("identify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk identify")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the current desktop number in a centered popup.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "identify takes no arguments")
		fs.Usage()
		return 2
	}

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
	current := store.Load().CurrentDesktop()
	if err := popup.Show(conn, current, cfg.Popup); err != nil {
		return fail(err)
	}
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk tui")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open the interactive desktop and window browser.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		fs.Usage()
		return 2
	}

	mgr, conn, err := setup()
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	if err := tui.Run(mgr); err != nil {
		return fail(err)
	}
	return 0
}

// parseDesktopNumber parses a positive desktop number argument.
func parseDesktopNumber(text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid desktop number %q", text)
	}
	return n, nil
}
