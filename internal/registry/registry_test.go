package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/host/hosttest"
)

func twoTabState() host.WindowState {
	return host.WindowState{
		MainWindowID: "main",
		Windows: []content.Window{{
			ID: "main",
			Tabs: []content.Tab{
				{ID: "t1", Title: "one", Active: true, Closable: true},
				{ID: "t2", Title: "two", Closable: true},
			},
			ActiveTabID: "t1",
		}},
	}
}

func TestInitializePopulatesMainWindow(t *testing.T) {
	fake := hosttest.New()
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	win, ok := reg.MainWindow()
	if !ok {
		t.Fatal("expected main window after initialize")
	}
	if win.ID != "main" || len(win.Tabs) != 0 {
		t.Fatalf("unexpected main window: %#v", win)
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	fake := hosttest.New()
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("second initialize failed: %v", err)
	}
	if got := fake.Calls(host.OpGetAllWindows); got != 1 {
		t.Fatalf("expected exactly one full fetch, got %d", got)
	}
}

func TestInitializeFailureNotifiesAndReturnsError(t *testing.T) {
	fake := hosttest.New()
	fake.FailWith(host.OpGetAllWindows, errors.New("host unreachable"))
	var notices []string
	reg := New(fake, func(msg string) { notices = append(notices, msg) })

	err := reg.Initialize(context.Background())
	var initErr *InitializationError
	if !errors.As(err, &initErr) {
		t.Fatalf("expected InitializationError, got %v", err)
	}
	if len(notices) != 1 {
		t.Fatalf("expected one notification, got %d", len(notices))
	}
	if reg.Initialized() {
		t.Fatal("registry must not be marked ready after a failed fetch")
	}
}

func TestActivateTabMovesActiveFlag(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if err := reg.ActivateTab(context.Background(), "main", "t2"); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	win, _ := reg.Window("main")
	if win.ActiveTabID != "t2" {
		t.Fatalf("expected active id t2, got %q", win.ActiveTabID)
	}
	active := 0
	for _, tab := range win.Tabs {
		if tab.Active {
			active++
			if tab.ID != "t2" {
				t.Fatalf("wrong tab active: %s", tab.ID)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active tab, got %d", active)
	}
}

func TestActivateTabRollsBackOnHostFailure(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	fake.FailWith(host.OpActivateTab, errors.New("window busy"))
	var notices []string
	reg := New(fake, func(msg string) { notices = append(notices, msg) })
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	err := reg.ActivateTab(context.Background(), "main", "t2")
	var actErr *TabActivationError
	if !errors.As(err, &actErr) {
		t.Fatalf("expected TabActivationError, got %v", err)
	}
	win, _ := reg.Window("main")
	if win.ActiveTabID != "t1" {
		t.Fatalf("expected rollback to t1, got %q", win.ActiveTabID)
	}
	if len(notices) != 1 {
		t.Fatalf("expected one notification, got %d", len(notices))
	}
}

func TestActivateUnknownTabFailsWithoutHostCall(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if err := reg.ActivateTab(context.Background(), "main", "missing"); err == nil {
		t.Fatal("expected error for unknown tab")
	}
	if got := fake.Calls(host.OpActivateTab); got != 0 {
		t.Fatalf("expected no host call, got %d", got)
	}
}

func TestCloseActiveTabLeavesReplacementToHost(t *testing.T) {
	fake := hosttest.New()
	state := twoTabState()
	state.Windows[0].ActiveTabID = "t2"
	state.Windows[0].Tabs[0].Active = false
	state.Windows[0].Tabs[1].Active = true
	fake.SetState(state)
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	if err := reg.CloseTab(context.Background(), "main", "t2"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	win, _ := reg.Window("main")
	if len(win.Tabs) != 1 || win.Tabs[0].ID != "t1" {
		t.Fatalf("expected only t1 to remain, got %#v", win.Tabs)
	}
	if win.ActiveTabID != "" {
		t.Fatalf("registry must not elect a replacement active tab, got %q", win.ActiveTabID)
	}
}

func TestCloseTabFailureLeavesStateUnchanged(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	fake.FailWith(host.OpCloseTab, errors.New("tab has unsaved work"))
	reg := New(fake, func(string) {})
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	err := reg.CloseTab(context.Background(), "main", "t2")
	var closeErr *TabCloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("expected TabCloseError, got %v", err)
	}
	win, _ := reg.Window("main")
	if len(win.Tabs) != 2 {
		t.Fatalf("state changed despite host failure: %#v", win.Tabs)
	}
}

func TestCreateTabReflectsHostRecord(t *testing.T) {
	fake := hosttest.New()
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	tab, err := reg.CreateTab(context.Background(), content.TextChannel("ch-1", "grid-1"), "", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tab.Title != "#ch-1" {
		t.Fatalf("expected derived title, got %q", tab.Title)
	}
	win, _ := reg.MainWindow()
	if _, _, ok := win.FindTab(tab.ID); !ok {
		t.Fatalf("created tab missing from local state: %#v", win.Tabs)
	}
}

func TestDetachUpdatesLocalStateOnlyAfterConfirmation(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	fake.FailWith(host.OpDetachTab, errors.New("detach unsupported"))
	reg := New(fake, func(string) {})
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	err := reg.DetachTab(context.Background(), host.DetachTabRequest{TabID: "t2", SourceWindowID: "main"})
	var detachErr *TabDetachError
	if !errors.As(err, &detachErr) {
		t.Fatalf("expected TabDetachError, got %v", err)
	}
	win, _ := reg.Window("main")
	if len(win.Tabs) != 2 {
		t.Fatalf("detach failure must not change state, got %#v", win.Tabs)
	}

	fake.FailWith(host.OpDetachTab, nil)
	if err := reg.DetachTab(context.Background(), host.DetachTabRequest{TabID: "t2", SourceWindowID: "main"}); err != nil {
		t.Fatalf("detach failed: %v", err)
	}
	win, _ = reg.Window("main")
	if len(win.Tabs) != 1 {
		t.Fatalf("expected tab removed after confirmation, got %#v", win.Tabs)
	}
}

func TestRemoveWindowSparesMain(t *testing.T) {
	fake := hosttest.New()
	state := twoTabState()
	state.Windows = append(state.Windows, content.Window{ID: "aux"})
	fake.SetState(state)
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	reg.RemoveWindow("aux")
	if _, ok := reg.Window("aux"); ok {
		t.Fatal("aux window should be gone")
	}
	reg.RemoveWindow("main")
	if _, ok := reg.MainWindow(); !ok {
		t.Fatal("main window must never be removed by the client")
	}
}

func TestSnapshotsDoNotAliasRegistryState(t *testing.T) {
	fake := hosttest.New()
	fake.SetState(twoTabState())
	reg := New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}

	win, _ := reg.Window("main")
	win.Tabs[0].Title = "mutated"
	fresh, _ := reg.Window("main")
	if fresh.Tabs[0].Title != "one" {
		t.Fatal("snapshot mutation leaked into registry state")
	}
}
