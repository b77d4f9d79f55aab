package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	maxTabTitleWidth = 24
	tabTitleTail     = "…"
)

// View is part of the tea.Model interface.
func (m *Model) View() string {
	if m.initErr != "" {
		return m.viewInitError()
	}
	if !m.ready {
		return styles.Loading.Render("connecting to host…")
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteByte('\n')
	b.WriteString(m.viewTabBar())
	b.WriteByte('\n')

	switch m.mode {
	case ModeSwitcher:
		b.WriteString(m.viewSwitcher())
	case ModeOpen:
		b.WriteString(m.viewOpenPrompt())
	default:
		b.WriteString(m.viewContent())
	}

	b.WriteByte('\n')
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m *Model) viewInitError() string {
	var b strings.Builder
	b.WriteString(styles.Error.Render("failed to initialize: " + m.initErr))
	b.WriteByte('\n')
	b.WriteString(styles.Footer.Render("r retry · q quit"))
	return b.String()
}

func (m *Model) viewHeader() string {
	title := "meshdeck"
	if windows := m.registry.Windows(); len(windows) > 1 {
		title = fmt.Sprintf("meshdeck · %d windows", len(windows))
	}
	return styles.Header.Render(title)
}

func (m *Model) viewTabBar() string {
	win, ok := m.mainWindow()
	if !ok || len(win.Tabs) == 0 {
		return styles.TabInactive.Render("no tabs")
	}
	parts := make([]string, 0, len(win.Tabs))
	for i, tab := range win.Tabs {
		title := truncate.StringWithTail(tab.Title, maxTabTitleWidth, tabTitleTail)
		label := fmt.Sprintf(" %d:%s ", i+1, title)
		style := styles.TabInactive
		switch {
		case tab.ID == win.ActiveTabID:
			style = styles.TabActive
		case tab.HasNotifications:
			style = styles.TabNotify
		}
		parts = append(parts, style.Render(label))
	}
	sep := styles.TabSeparator.Render("│")
	bar := strings.Join(parts, sep)
	if m.width > 0 {
		bar = truncate.String(bar, uint(m.width))
	}
	return bar
}

func (m *Model) viewSwitcher() string {
	s := m.switcher
	if s == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.Filter.Render(s.input.View()))
	b.WriteByte('\n')
	if len(s.filtered) == 0 {
		b.WriteString(styles.Item.Render("no matching tabs"))
		return b.String()
	}
	for i, entry := range s.filtered {
		marker := "  "
		style := styles.Item
		if i == s.cursor {
			marker = "> "
			style = styles.SelectedItem
		}
		title := entry.title
		if entry.notify {
			title += " ●"
		}
		if entry.active {
			title += " (active)"
		}
		b.WriteString(style.Render(marker + title))
		if i < len(s.filtered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) viewOpenPrompt() string {
	var b strings.Builder
	b.WriteString(styles.Filter.Render(m.openInput.View()))
	b.WriteByte('\n')
	b.WriteString(styles.Footer.Render("enter open · esc cancel"))
	return b.String()
}

func (m *Model) viewFooter() string {
	switch {
	case m.errMsg != "":
		return styles.Error.Render(m.errMsg)
	case m.infoMsg != "":
		return styles.Info.Render(m.infoMsg)
	case m.loading:
		return styles.Loading.Render("working…")
	}
	hints := "tab next · / switch · o open · x close · D detach · q quit"
	if m.width > 0 {
		hints = truncate.String(hints, uint(m.width))
	}
	return styles.Footer.Render(hints)
}

func joinTitled(title, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		styles.ContentTitle.Render(title),
		styles.ContentBody.Render(body),
	)
}
