package ui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshdeck/meshdeck/internal/selection"
)

var errEmptySelection = errors.New("nothing to open")

func (m *Model) openPrompt() {
	m.openInput.Reset()
	// Seed the prompt with the grid remembered from the previous run so a
	// returning user only types the channel part.
	if m.bridge != nil {
		if grid := m.bridge.LastGridID(); grid != "" {
			m.openInput.SetValue(grid + "/")
			m.openInput.CursorEnd()
		}
	}
	m.openInput.Focus()
	m.mode = ModeOpen
}

func (m *Model) closePrompt() {
	m.openInput.Blur()
	m.mode = ModeTabs
}

func (m *Model) handleOpenKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		raw := m.openInput.Value()
		m.closePrompt()
		sel, err := parseSelection(raw)
		if err != nil {
			if !errors.Is(err, errEmptySelection) {
				m.setError(err.Error())
			}
			return nil
		}
		m.loading = true
		return m.applySelectionCmd(sel)
	}

	var cmd tea.Cmd
	m.openInput, cmd = m.openInput.Update(key)
	return cmd
}

// parseSelection turns prompt input into a selection. Three forms:
// "grid/channel" targets a channel, "grid!process" targets a process,
// and a bare "grid" selects the grid alone.
func parseSelection(raw string) (selection.Selection, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return selection.Selection{}, errEmptySelection
	}
	if grid, process, found := strings.Cut(raw, "!"); found {
		grid, process = strings.TrimSpace(grid), strings.TrimSpace(process)
		if grid == "" || process == "" {
			return selection.Selection{}, errors.New("process form is grid!process")
		}
		return selection.Selection{GridID: grid, ProcessID: process}, nil
	}
	if grid, channel, found := strings.Cut(raw, "/"); found {
		grid, channel = strings.TrimSpace(grid), strings.TrimSpace(channel)
		if grid == "" || channel == "" {
			return selection.Selection{}, errors.New("channel form is grid/channel")
		}
		return selection.Selection{GridID: grid, ChannelID: channel}, nil
	}
	return selection.Selection{GridID: raw}, nil
}
