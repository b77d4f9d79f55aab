package ui

import (
	"sort"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// switcherEntry is one selectable row in the tab switcher.
type switcherEntry struct {
	windowID string
	tabID    string
	title    string
	active   bool
	notify   bool
}

// switcherState is the fuzzy tab switcher overlay. Entries span every
// registered window so detached tabs stay reachable.
type switcherState struct {
	input    textinput.Model
	entries  []switcherEntry
	filtered []switcherEntry
	cursor   int
}

func (m *Model) openSwitcher() {
	input := textinput.New()
	input.Placeholder = "filter tabs"
	input.Prompt = "> "
	if styles.FilterPrompt != nil {
		input.PromptStyle = *styles.FilterPrompt
	}
	input.Focus()

	s := &switcherState{input: input}
	for _, win := range m.registry.Windows() {
		for _, tab := range win.Tabs {
			s.entries = append(s.entries, switcherEntry{
				windowID: win.ID,
				tabID:    tab.ID,
				title:    tab.Title,
				active:   tab.ID == win.ActiveTabID,
				notify:   tab.HasNotifications,
			})
		}
	}
	s.filtered = s.entries
	m.switcher = s
	m.mode = ModeSwitcher
}

func (m *Model) closeSwitcher() {
	m.switcher = nil
	m.mode = ModeTabs
}

func (m *Model) handleSwitcherKey(key tea.KeyMsg) tea.Cmd {
	s := m.switcher
	if s == nil {
		m.mode = ModeTabs
		return nil
	}
	switch key.Type {
	case tea.KeyEsc:
		m.closeSwitcher()
		return nil
	case tea.KeyEnter:
		if s.cursor >= len(s.filtered) {
			m.closeSwitcher()
			return nil
		}
		entry := s.filtered[s.cursor]
		m.closeSwitcher()
		m.loading = true
		return m.activateTabCmd(entry.windowID, entry.tabID)
	case tea.KeyUp, tea.KeyCtrlP:
		if s.cursor > 0 {
			s.cursor--
		}
		return nil
	case tea.KeyDown, tea.KeyCtrlN:
		if s.cursor < len(s.filtered)-1 {
			s.cursor++
		}
		return nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(key)
	s.refilter()
	return cmd
}

func (s *switcherState) refilter() {
	query := s.input.Value()
	if query == "" {
		s.filtered = s.entries
		s.cursor = 0
		return
	}
	titles := make([]string, len(s.entries))
	for i, entry := range s.entries {
		titles[i] = entry.title
	}
	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Sort(ranks)
	filtered := make([]switcherEntry, 0, len(ranks))
	for _, rank := range ranks {
		filtered = append(filtered, s.entries[rank.OriginalIndex])
	}
	s.filtered = filtered
	if s.cursor >= len(filtered) {
		s.cursor = 0
	}
}
