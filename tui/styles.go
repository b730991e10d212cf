package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Title     lipgloss.Style
	Badge     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Cursor    lipgloss.Style
	Done      lipgloss.Style
	Pending   lipgloss.Style
	Category  lipgloss.Style
	Muted     lipgloss.Style
	Warning   lipgloss.Style
	Success   lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("#7C6CF2")
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A4B8")).
			PaddingLeft(1),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Underline(true).
			Padding(0, 1),
		Cursor: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Done: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")).
			Strikethrough(true),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E4E4EF")),
		Category: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#89B4FA")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6E3A1")).
			Bold(true),
	}
}
