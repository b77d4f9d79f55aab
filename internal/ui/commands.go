package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/router"
	"github.com/meshdeck/meshdeck/internal/selection"
)

type initDoneMsg struct {
	err error
}

type opDoneMsg struct {
	op   string
	err  error
	info string
}

type tabCreatedMsg struct {
	tab content.Tab
	err error
}

type processResolvedMsg struct {
	tabID string
	res   router.ProcessResolution
}

type selectionAppliedMsg struct {
	err error
}

type noticeMsg string

func waitForNotice(notices <-chan string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg(<-notices)
	}
}

func (m *Model) initializeCmd() tea.Cmd {
	reg := m.registry
	return func() tea.Msg {
		if reg == nil {
			return initDoneMsg{}
		}
		return initDoneMsg{err: reg.Initialize(context.Background())}
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	reg := m.registry
	return func() tea.Msg {
		if reg == nil {
			return nil
		}
		return opDoneMsg{op: "refresh", err: reg.Refresh(context.Background())}
	}
}

func (m *Model) activateTabCmd(windowID, tabID string) tea.Cmd {
	reg := m.registry
	return func() tea.Msg {
		return opDoneMsg{op: "activate", err: reg.ActivateTab(context.Background(), windowID, tabID)}
	}
}

func (m *Model) closeTabCmd(windowID, tabID string) tea.Cmd {
	reg := m.registry
	return func() tea.Msg {
		err := reg.CloseTab(context.Background(), windowID, tabID)
		return opDoneMsg{op: "close", err: err, info: "closed tab"}
	}
}

func (m *Model) detachTabCmd(windowID, tabID string) tea.Cmd {
	reg := m.registry
	return func() tea.Msg {
		err := reg.DetachTab(context.Background(), host.DetachTabRequest{TabID: tabID, SourceWindowID: windowID})
		return opDoneMsg{op: "detach", err: err, info: "detached tab"}
	}
}

func (m *Model) createWelcomeCmd() tea.Cmd {
	reg := m.registry
	return func() tea.Msg {
		tab, err := reg.CreateTab(context.Background(), content.Welcome(), "", "")
		return tabCreatedMsg{tab: tab, err: err}
	}
}

func (m *Model) resolveProcessCmd(tabID, processID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return processResolvedMsg{
			tabID: tabID,
			res:   router.ResolveProcess(context.Background(), client, processID),
		}
	}
}

func (m *Model) applySelectionCmd(sel selection.Selection) tea.Cmd {
	bridge := m.bridge
	return func() tea.Msg {
		if bridge == nil {
			return selectionAppliedMsg{}
		}
		return selectionAppliedMsg{err: bridge.Apply(context.Background(), sel)}
	}
}
