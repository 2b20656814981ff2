package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	currentCellStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	stripStyle = lipgloss.NewStyle().
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	stickyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

// renderDesktopStrip renders one cell per desktop with the current desktop
// highlighted, mirroring the pager toolbar.
func renderDesktopStrip(current, count, width int) string {
	cells := make([]string, 0, count)
	for d := 1; d <= count; d++ {
		label := fmt.Sprintf("%d", d)
		if d == current {
			cells = append(cells, currentCellStyle.Render(label))
		} else {
			cells = append(cells, cellStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	return stripStyle.Width(width).Render(row)
}
