package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	destructive = lipgloss.Color("#e53935")
	success     = lipgloss.Color("#8BC34A")
	warning     = lipgloss.Color("#FFC107")
	muted       = lipgloss.Color("#6b7280")
	border      = lipgloss.Color("#2a3850")

	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(destructive)
	errorStyle   = lipgloss.NewStyle().Foreground(destructive)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(success)
	warningStyle = lipgloss.NewStyle().Foreground(warning)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// newTable returns a bordered table with the given column headers.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(border)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}
