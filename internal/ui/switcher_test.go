package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/host/hosttest"
)

func TestSwitcherFiltersAndActivates(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	m, reg := newTestModel(t, fake)
	initModel(t, m)

	drive(t, m, keyRune('/'))
	if m.mode != ModeSwitcher {
		t.Fatalf("mode = %v, want switcher", m.mode)
	}
	if got := len(m.switcher.filtered); got != 2 {
		t.Fatalf("unfiltered entries = %d, want 2", got)
	}

	drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("beta")})
	if got := len(m.switcher.filtered); got != 1 {
		t.Fatalf("filtered entries = %d, want 1", got)
	}
	if m.switcher.filtered[0].tabID != "t2" {
		t.Fatalf("filtered entry = %+v, want t2", m.switcher.filtered[0])
	}

	drive(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != ModeTabs {
		t.Fatalf("switcher did not close on enter")
	}
	if got := fake.Calls(host.OpActivateTab); got != 1 {
		t.Fatalf("activate calls = %d, want 1", got)
	}
	tab, ok := reg.ActiveTab("main")
	if !ok || tab.ID != "t2" {
		t.Fatalf("active tab = %+v (ok=%v), want t2", tab, ok)
	}
}

func TestSwitcherEscapeCancels(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	m, _ := newTestModel(t, fake)
	initModel(t, m)

	drive(t, m, keyRune('/'))
	drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeTabs {
		t.Fatalf("escape did not close the switcher")
	}
	if got := fake.Calls(host.OpActivateTab); got != 0 {
		t.Fatalf("activate calls = %d, want 0", got)
	}
}

func TestSwitcherSpansAllWindows(t *testing.T) {
	state := twoTabState()
	fake := hosttest.New()
	fake.SetState(state)
	m, reg := newTestModel(t, fake)
	initModel(t, m)

	// Detach the second tab, then refresh so the registry sees the new
	// window the host created for it.
	drive(t, m, tea.KeyMsg{Type: tea.KeyTab})
	drive(t, m, keyRune('D'))
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	drive(t, m, keyRune('/'))
	if got := len(m.switcher.entries); got != 2 {
		t.Fatalf("switcher entries = %d, want 2 across both windows", got)
	}
}
