package ui

import (
	"encoding/json"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshdeck/meshdeck/internal/backend"
	"github.com/meshdeck/meshdeck/internal/host"
)

type stateUpdatedMsg struct{}

type restoreMsg struct {
	event host.Event
}

type listenerDoneMsg struct{}

func waitForUpdate(l *backend.Listener) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-l.Updates()
		if !ok {
			return listenerDoneMsg{}
		}
		return stateUpdatedMsg{}
	}
}

func waitForRestore(l *backend.Listener) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-l.Restores()
		if !ok {
			return listenerDoneMsg{}
		}
		return restoreMsg{event: evt}
	}
}

func (m *Model) handleStateUpdatedMsg(msg tea.Msg) tea.Cmd {
	cmds := m.reconcileResolutions()
	if m.listener != nil {
		cmds = append(cmds, waitForUpdate(m.listener))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleRestoreMsg(msg tea.Msg) tea.Cmd {
	restore, ok := msg.(restoreMsg)
	if ok {
		var payload struct {
			TabID string `json:"tabId"`
		}
		if err := json.Unmarshal(restore.event.Payload, &payload); err == nil && payload.TabID != "" {
			m.restored[payload.TabID] = restore.event.Name
		}
	}
	if m.listener != nil {
		return waitForRestore(m.listener)
	}
	return nil
}

func (m *Model) handleListenerDoneMsg(msg tea.Msg) tea.Cmd {
	m.listener = nil
	return nil
}
