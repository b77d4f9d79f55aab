package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/router"
)

func (m *Model) handleInitDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(initDoneMsg)
	if !ok {
		return nil
	}
	if done.err != nil {
		m.initErr = done.err.Error()
		return nil
	}
	m.initErr = ""
	m.ready = true

	cmds := m.reconcileResolutions()
	if win, ok := m.mainWindow(); ok && len(win.Tabs) == 0 {
		cmds = append(cmds, m.createWelcomeCmd())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleNoticeMsg(msg tea.Msg) tea.Cmd {
	if notice, ok := msg.(noticeMsg); ok {
		m.setError(string(notice))
	}
	return waitForNotice(m.notices)
}

func (m *Model) handleOpDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(opDoneMsg)
	if !ok {
		return nil
	}
	m.loading = false
	if done.err != nil {
		// The registry notifier already carried the message; keep the most
		// recent text in case the notice channel overflowed.
		m.setError(done.err.Error())
		return nil
	}
	m.errMsg = ""
	if done.info != "" && m.verbose {
		m.setInfo(done.info)
	}
	return m.reconcileBatch()
}

func (m *Model) handleTabCreatedMsg(msg tea.Msg) tea.Cmd {
	created, ok := msg.(tabCreatedMsg)
	if !ok {
		return nil
	}
	m.loading = false
	if created.err != nil {
		m.setError(created.err.Error())
		return nil
	}
	if m.verbose {
		m.setInfo("opened " + created.tab.Title)
	}
	if m.listener != nil {
		m.listener.RequestRefresh()
	}
	return m.reconcileBatch()
}

func (m *Model) handleSelectionAppliedMsg(msg tea.Msg) tea.Cmd {
	applied, ok := msg.(selectionAppliedMsg)
	if !ok {
		return nil
	}
	m.loading = false
	if applied.err != nil {
		m.setError(applied.err.Error())
		return nil
	}
	return m.reconcileBatch()
}

func (m *Model) handleProcessResolvedMsg(msg tea.Msg) tea.Cmd {
	resolved, ok := msg.(processResolvedMsg)
	if !ok {
		return nil
	}
	tab, found := m.findTab(resolved.tabID)
	if !found || tab.Content.ProcessID != resolved.res.ProcessID {
		// Stale completion: the tab closed or was replaced while the
		// lookup was in flight. Discard rather than clobber newer state.
		delete(m.resolutions, resolved.tabID)
		return nil
	}
	m.resolutions[resolved.tabID] = resolved.res
	return nil
}

// reconcileResolutions starts resolution for process tabs that lack one
// and prunes entries whose tabs are gone. Resolution is keyed by tab id;
// descriptors are immutable, so a resolved entry never re-runs.
func (m *Model) reconcileResolutions() []tea.Cmd {
	if m.registry == nil {
		return nil
	}
	live := make(map[string]bool)
	var cmds []tea.Cmd
	for _, win := range m.registry.Windows() {
		for _, tab := range win.Tabs {
			live[tab.ID] = true
			if tab.Content.Kind != content.KindProcess {
				continue
			}
			if _, tracked := m.resolutions[tab.ID]; tracked {
				continue
			}
			m.resolutions[tab.ID] = router.ProcessResolution{
				ProcessID: tab.Content.ProcessID,
				State:     router.ProcessLoading,
			}
			cmds = append(cmds, m.resolveProcessCmd(tab.ID, tab.Content.ProcessID))
		}
	}
	for tabID := range m.resolutions {
		if !live[tabID] {
			delete(m.resolutions, tabID)
		}
	}
	for tabID := range m.restored {
		if !live[tabID] {
			delete(m.restored, tabID)
		}
	}
	return cmds
}

func (m *Model) reconcileBatch() tea.Cmd {
	cmds := m.reconcileResolutions()
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) findTab(tabID string) (content.Tab, bool) {
	if m.registry == nil {
		return content.Tab{}, false
	}
	for _, win := range m.registry.Windows() {
		if tab, _, ok := win.FindTab(tabID); ok {
			return tab, true
		}
	}
	return content.Tab{}, false
}
