package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(m.renderList())
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderHeader() string {
	who := "guest mode"
	if id := m.snapshot.Identity; id != nil {
		who = "signed in"
		if id.Email != "" {
			who += " as " + id.Email
		}
	}

	total := len(m.snapshot.Tasks)
	done := m.completedCount()
	return lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Title.Render(m.title),
		m.styles.Badge.Render(fmt.Sprintf("%d/%d done", done, total)),
		m.styles.Badge.Render("· "+who),
	)
}

func (m Model) renderTabs() string {
	opts := m.filters()
	tabs := make([]string, len(opts))
	for i, name := range opts {
		if name == m.filter {
			tabs[i] = m.styles.ActiveTab.Render(name)
			continue
		}
		tabs[i] = m.styles.Tab.Render(name)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderList() string {
	vis := m.visible()
	if len(vis) == 0 {
		return m.styles.Muted.Render("  No tasks here.") + "\n"
	}

	var b strings.Builder
	for i, t := range vis {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.Cursor.Render("> ")
		}

		check, text := "[ ]", m.styles.Pending.Render(t.Text)
		if t.Completed {
			check, text = "[x]", m.styles.Done.Render(t.Text)
		}

		fmt.Fprintf(&b, "%s%s %s  %s\n", pointer, check, text, m.styles.Category.Render(t.Category))
	}
	return b.String()
}

func (m Model) renderStatus() string {
	switch {
	case m.status == "":
		return ""
	case m.clearArmed:
		return m.styles.Warning.Render(m.status)
	case m.celebrating:
		return m.styles.Success.Render(m.status)
	default:
		return m.styles.Muted.Render(m.status)
	}
}
