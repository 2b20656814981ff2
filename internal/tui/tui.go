// Package tui is an interactive browser for desktops and windows: a
// bubbletea view of the same state the CLI verbs operate on.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/vdesk/internal/desktop"
)

// Run starts the TUI main loop, blocking until quit.
func Run(mgr *desktop.Manager) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(mgr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
