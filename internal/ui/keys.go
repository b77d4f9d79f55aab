package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch m.mode {
	case ModeSwitcher:
		return m.handleSwitcherKey(key)
	case ModeOpen:
		return m.handleOpenKey(key)
	}

	if m.initErr != "" {
		switch key.String() {
		case "r":
			m.initErr = ""
			return m.initializeCmd()
		case "q", "esc":
			return tea.Quit
		}
		return nil
	}
	if !m.ready {
		if key.String() == "q" {
			return tea.Quit
		}
		return nil
	}

	m.clearInfo()
	switch key.String() {
	case "q":
		return tea.Quit
	case "tab", "right", "l":
		return m.activateNeighbour(1)
	case "shift+tab", "left", "h":
		return m.activateNeighbour(-1)
	case "x":
		return m.closeActive()
	case "D":
		return m.detachActive()
	case "r":
		m.loading = true
		return m.refreshCmd()
	case "/":
		m.openSwitcher()
		return textinput.Blink
	case "o":
		m.openPrompt()
		return textinput.Blink
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return m.activateIndex(int(key.String()[0] - '1'))
	}
	return nil
}

// activateNeighbour cycles the active tab of the main window by offset.
func (m *Model) activateNeighbour(offset int) tea.Cmd {
	win, ok := m.mainWindow()
	if !ok || len(win.Tabs) < 2 {
		return nil
	}
	cur := 0
	for i, tab := range win.Tabs {
		if tab.ID == win.ActiveTabID {
			cur = i
			break
		}
	}
	next := (cur + offset + len(win.Tabs)) % len(win.Tabs)
	m.loading = true
	return m.activateTabCmd(win.ID, win.Tabs[next].ID)
}

func (m *Model) activateIndex(idx int) tea.Cmd {
	win, ok := m.mainWindow()
	if !ok || idx < 0 || idx >= len(win.Tabs) {
		return nil
	}
	target := win.Tabs[idx]
	if target.ID == win.ActiveTabID {
		return nil
	}
	m.loading = true
	return m.activateTabCmd(win.ID, target.ID)
}

func (m *Model) closeActive() tea.Cmd {
	win, tab, ok := m.activeTab()
	if !ok {
		return nil
	}
	if !tab.Closable {
		m.setInfo("tab cannot be closed")
		return nil
	}
	m.loading = true
	return m.closeTabCmd(win.ID, tab.ID)
}

func (m *Model) detachActive() tea.Cmd {
	win, tab, ok := m.activeTab()
	if !ok {
		return nil
	}
	if len(win.Tabs) < 2 {
		m.setInfo("cannot detach the only tab")
		return nil
	}
	m.loading = true
	return m.detachTabCmd(win.ID, tab.ID)
}
