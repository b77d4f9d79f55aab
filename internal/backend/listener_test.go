package backend

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/host/hosttest"
	"github.com/meshdeck/meshdeck/internal/registry"
)

func mustPayload(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return raw
}

func changeEvent(t *testing.T, eventType string) host.Event {
	t.Helper()
	return host.Event{
		Name: host.EventWindowStateChange,
		Payload: mustPayload(t, host.StateChange{
			EventType: eventType,
			WindowID:  "main",
			Timestamp: time.Now(),
		}),
	}
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listener update")
	}
}

func newListenerFixture(t *testing.T) (*hosttest.Fake, *registry.Registry, *Listener) {
	t.Helper()
	fake := hosttest.New()
	reg := registry.New(fake, nil)
	if err := reg.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	l := NewListener(fake, reg, 20*time.Millisecond)
	t.Cleanup(l.Stop)
	return fake, reg, l
}

func TestFullStatePushReplacesRegistry(t *testing.T) {
	fake, reg, l := newListenerFixture(t)

	state := host.WindowState{
		MainWindowID: "main",
		Windows: []content.Window{{
			ID:          "main",
			Tabs:        []content.Tab{{ID: "t1", Title: "pushed", Active: true}},
			ActiveTabID: "t1",
		}},
	}
	fake.Emit(host.Event{Name: host.EventWindowStateUpdated, Payload: mustPayload(t, state)})
	waitSignal(t, l.Updates())

	win, ok := reg.MainWindow()
	if !ok || len(win.Tabs) != 1 || win.Tabs[0].Title != "pushed" {
		t.Fatalf("registry not replaced from push: %#v", win)
	}
}

func TestWindowClosedRemovesImmediately(t *testing.T) {
	fake, reg, l := newListenerFixture(t)
	fake.SetState(host.WindowState{
		MainWindowID: "main",
		Windows:      []content.Window{{ID: "main"}, {ID: "aux"}},
	})
	if err := reg.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	fetches := fake.Calls(host.OpGetAllWindows)
	fake.Emit(host.Event{Name: host.EventWindowClosed, Payload: mustPayload(t, host.WindowClosed{WindowID: "aux"})})
	waitSignal(t, l.Updates())

	if _, ok := reg.Window("aux"); ok {
		t.Fatal("aux window should be removed without a refresh round-trip")
	}
	if got := fake.Calls(host.OpGetAllWindows); got != fetches {
		t.Fatalf("window-closed must not trigger a fetch, got %d extra", got-fetches)
	}
}

func TestChangeEventOutsideAllowListDoesNotRefresh(t *testing.T) {
	fake, _, _ := newListenerFixture(t)
	fetches := fake.Calls(host.OpGetAllWindows)

	fake.Emit(changeEvent(t, "tab-title-updated"))
	fake.Emit(changeEvent(t, "presence-ping"))
	time.Sleep(100 * time.Millisecond)

	if got := fake.Calls(host.OpGetAllWindows); got != fetches {
		t.Fatalf("ignored event types must not refresh, got %d extra fetches", got-fetches)
	}
}

func TestChangeEventBurstCoalescesToOneRefresh(t *testing.T) {
	fake, _, l := newListenerFixture(t)
	fetches := fake.Calls(host.OpGetAllWindows)

	for i := 0; i < 10; i++ {
		fake.Emit(changeEvent(t, "tab-created"))
	}
	waitSignal(t, l.Updates())

	if got := fake.Calls(host.OpGetAllWindows) - fetches; got != 1 {
		t.Fatalf("expected one coalesced refresh, got %d", got)
	}
}

func TestRestoreEventsAreForwarded(t *testing.T) {
	fake, _, l := newListenerFixture(t)

	evt := host.Event{Name: "restore-terminal", Payload: mustPayload(t, map[string]string{"tabId": "t1"})}
	fake.Emit(evt)

	select {
	case got := <-l.Restores():
		if got.Name != "restore-terminal" {
			t.Fatalf("unexpected restore event %q", got.Name)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for restore event")
	}
}

func TestStopReleasesSubscription(t *testing.T) {
	fake := hosttest.New()
	reg := registry.New(fake, nil)
	l := NewListener(fake, reg, 20*time.Millisecond)
	l.Stop()

	// Emitting after Stop must not deadlock or panic.
	fake.Emit(changeEvent(t, "tab-created"))
}
