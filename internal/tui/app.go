package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/vdesk/internal/desktop"
	"github.com/1broseidon/vdesk/internal/state"
)

// model is the root bubbletea model: a desktop strip on top, the window
// list below it.
type model struct {
	mgr *desktop.Manager

	current int
	count   int
	rows    []desktop.WindowRow
	cursor  int

	lastError string

	width  int
	height int
}

func newModel(mgr *desktop.Manager) model {
	m := model{mgr: mgr}
	m.reload()
	return m
}

// reload re-reads state and the live window list.
func (m *model) reload() {
	snap := m.mgr.Snapshot()
	m.current = snap.CurrentDesktop()
	m.count = snap.DesktopCount

	rows, err := m.mgr.Windows()
	if err != nil {
		m.lastError = err.Error()
		return
	}
	m.lastError = ""
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
			return m, nil

		case "n", "right":
			if _, err := m.mgr.Next(); err != nil {
				m.lastError = err.Error()
			}
			m.reload()
			return m, nil

		case "p", "left":
			if _, err := m.mgr.Prev(); err != nil {
				m.lastError = err.Error()
			}
			m.reload()
			return m, nil

		case "enter":
			// Follow the selected window to its desktop.
			if m.cursor < len(m.rows) {
				tag := m.rows[m.cursor].Tag
				if !tag.IsSticky() {
					if err := m.mgr.Switch(int(tag)); err != nil {
						m.lastError = err.Error()
					}
					m.reload()
				}
			}
			return m, nil

		case "s":
			if m.cursor < len(m.rows) {
				row := m.rows[m.cursor]
				target := state.Sticky
				if row.Tag.IsSticky() {
					target = state.Tag(m.current)
				}
				if err := m.mgr.Move(row.ID, target); err != nil {
					m.lastError = err.Error()
				}
				m.reload()
			}
			return m, nil

		case "r":
			m.reload()
			return m, nil
		}

		// Number keys switch desktops directly.
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= m.count {
			if err := m.mgr.Switch(n); err != nil {
				m.lastError = err.Error()
			}
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := renderDesktopStrip(m.current, m.count, m.width)

	var list string
	if len(m.rows) == 0 {
		list = emptyStyle.Render("no managed windows")
	} else {
		lines := make([]string, 0, len(m.rows))
		for i, row := range m.rows {
			lines = append(lines, renderWindowRow(row, i == m.cursor, m.current))
		}
		list = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	parts := []string{header, list}
	if m.lastError != "" {
		parts = append(parts, errorStyle.Render("error: "+m.lastError))
	}
	parts = append(parts, helpStyle.Width(m.width).Render(
		"1-9 switch · n/p next/prev · ↑/↓ select · enter follow · s sticky · r reload · q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderWindowRow formats one window line, marking the selection, sticky
// windows, and windows hidden by their application.
func renderWindowRow(row desktop.WindowRow, selected bool, current int) string {
	status := ""
	if row.AppHidden {
		status = " (app hidden)"
	} else if !row.Mapped {
		status = " (hidden)"
	}

	// Pad before styling so escape codes don't skew column widths.
	where := fmt.Sprintf("%-7s", row.Tag.String())

	if selected {
		line := fmt.Sprintf("> 0x%-8x %s %s%s", row.ID, where, row.Name, status)
		return selectedStyle.Render(line)
	}

	if row.Tag.IsSticky() {
		where = stickyStyle.Render(where)
	} else if int(row.Tag) == current {
		where = currentStyle.Render(where)
	}
	if status != "" {
		status = dimStyle.Render(status)
	}
	return fmt.Sprintf("  0x%-8x %s %s%s", row.ID, where, row.Name, status)
}
