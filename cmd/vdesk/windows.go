package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/vdesk/internal/config"
	"github.com/1broseidon/vdesk/internal/state"
)

var (
	currentMarkStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))

	stickyMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	hiddenMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// stdoutIsTTY reports whether styled output is appropriate.
func stdoutIsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk list")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List all desktops, marking the current one.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "list takes no arguments")
		fs.Usage()
		return 2
	}

	snap, code := loadSnapshot()
	if snap == nil {
		return code
	}

	styled := stdoutIsTTY()
	fmt.Printf("Desktops: %d (current: %d)\n", snap.DesktopCount, snap.CurrentDesktop())
	for _, d := range snap.DesktopList() {
		marker := ""
		if d == snap.CurrentDesktop() {
			marker = " *"
			if styled {
				marker = " " + currentMarkStyle.Render("*")
			}
		}
		fmt.Printf("  %d%s\n", d, marker)
	}
	return 0
}

func runCurrent(args []string) int {
	fs := flag.NewFlagSet("current", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk current")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the current desktop number. Suitable for scripts and status bars.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "current takes no arguments")
		fs.Usage()
		return 2
	}

	snap, code := loadSnapshot()
	if snap == nil {
		return code
	}
	fmt.Println(snap.CurrentDesktop())
	return 0
}

// loadSnapshot reads state without touching the X server, so list and
// current work from scripts even without a display.
func loadSnapshot() (*state.State, int) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fail(err)
	}
	statePath, err := cfg.StatePath()
	if err != nil {
		return nil, fail(err)
	}
	return state.NewStore(statePath, cfg.DefaultDesktops).Load(), 0
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: vdesk windows")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List managed windows with their desktop assignments and visibility.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	mgr, conn, err := setup()
	if err != nil {
		return fail(err)
	}
	defer conn.Close()

	rows, err := mgr.Windows()
	if err != nil {
		return fail(err)
	}

	styled := stdoutIsTTY()
	fmt.Printf("Windows (current desktop: %d):\n", mgr.Snapshot().CurrentDesktop())
	for _, row := range rows {
		where := row.Tag.String()
		if styled && row.Tag.IsSticky() {
			where = stickyMarkStyle.Render(where)
		}

		status := ""
		if row.AppHidden {
			status = " [app-hidden]"
		} else if !row.Mapped {
			status = " [hidden]"
		}
		if styled && status != "" {
			status = hiddenMarkStyle.Render(status)
		}

		name := row.Name
		if len(name) > 40 {
			name = name[:40]
		}
		fmt.Printf("  0x%08x  desktop %s  %s%s\n", row.ID, where, name, status)
	}
	return 0
}
