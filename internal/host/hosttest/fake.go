// Package hosttest provides an in-memory host implementation for tests. It
// behaves like a minimal real host: it owns a window inventory, mutates it
// in response to API calls, and can emit push events to subscribers.
package hosttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/host"
)

type Fake struct {
	mu       sync.Mutex
	state    host.WindowState
	sessions map[string]string
	failures map[string]error
	calls    map[string]int
	subs     []chan host.Event
}

// New returns a fake host with a single empty main window.
func New() *Fake {
	return &Fake{
		state: host.WindowState{
			Windows:      []content.Window{{ID: "main"}},
			MainWindowID: "main",
		},
		sessions: make(map[string]string),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// SetState replaces the fake's inventory.
func (f *Fake) SetState(state host.WindowState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = cloneState(state)
}

// State returns a deep copy of the current inventory.
func (f *Fake) State() host.WindowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneState(f.state)
}

// SetProcessSession registers a terminal session for a process id.
func (f *Fake) SetProcessSession(processID, sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[processID] = sessionID
}

// FailWith makes every subsequent call to op return err. Pass nil to clear.
func (f *Fake) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// Calls reports how many times op has been invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Subscribe implements host.EventSource.
func (f *Fake) Subscribe() (<-chan host.Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan host.Event, 32)
	f.subs = append(f.subs, ch)
	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, sub := range f.subs {
			if sub == ch {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				close(sub)
				return
			}
		}
	}
	return ch, cancel
}

// Emit delivers a push event to every subscriber.
func (f *Fake) Emit(evt host.Event) {
	f.mu.Lock()
	subs := make([]chan host.Event, len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()
	for _, sub := range subs {
		sub <- evt
	}
}

func (f *Fake) begin(op string) error {
	f.calls[op]++
	if err := f.failures[op]; err != nil {
		return err
	}
	return nil
}

func (f *Fake) GetAllWindows(ctx context.Context) (host.WindowState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(host.OpGetAllWindows); err != nil {
		return host.WindowState{}, err
	}
	return cloneState(f.state), nil
}

func (f *Fake) CreateTab(ctx context.Context, req host.CreateTabRequest) (content.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(host.OpCreateTab); err != nil {
		return content.Tab{}, err
	}
	windowID := req.WindowID
	if windowID == "" {
		windowID = f.state.MainWindowID
	}
	idx := f.windowIndex(windowID)
	if idx < 0 {
		return content.Tab{}, fmt.Errorf("no such window %q", windowID)
	}
	tab := content.Tab{
		ID:       uuid.NewString(),
		Title:    req.Title,
		Content:  req.Content,
		Active:   true,
		Closable: true,
	}
	win := &f.state.Windows[idx]
	for i := range win.Tabs {
		win.Tabs[i].Active = false
	}
	win.Tabs = append(win.Tabs, tab)
	win.ActiveTabID = tab.ID
	return tab, nil
}

func (f *Fake) ActivateTab(ctx context.Context, windowID, tabID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(host.OpActivateTab); err != nil {
		return err
	}
	idx := f.windowIndex(windowID)
	if idx < 0 {
		return fmt.Errorf("no such window %q", windowID)
	}
	win := &f.state.Windows[idx]
	found := false
	for i := range win.Tabs {
		active := win.Tabs[i].ID == tabID
		win.Tabs[i].Active = active
		found = found || active
	}
	if !found {
		return fmt.Errorf("no such tab %q", tabID)
	}
	win.ActiveTabID = tabID
	return nil
}

func (f *Fake) CloseTab(ctx context.Context, windowID, tabID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(host.OpCloseTab); err != nil {
		return err
	}
	idx := f.windowIndex(windowID)
	if idx < 0 {
		return fmt.Errorf("no such window %q", windowID)
	}
	win := &f.state.Windows[idx]
	for i, tab := range win.Tabs {
		if tab.ID != tabID {
			continue
		}
		win.Tabs = append(win.Tabs[:i], win.Tabs[i+1:]...)
		if win.ActiveTabID == tabID {
			win.ActiveTabID = ""
			if len(win.Tabs) > 0 {
				last := len(win.Tabs) - 1
				win.Tabs[last].Active = true
				win.ActiveTabID = win.Tabs[last].ID
			}
		}
		return nil
	}
	return fmt.Errorf("no such tab %q", tabID)
}

func (f *Fake) DetachTab(ctx context.Context, req host.DetachTabRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(host.OpDetachTab); err != nil {
		return err
	}
	idx := f.windowIndex(req.SourceWindowID)
	if idx < 0 {
		return fmt.Errorf("no such window %q", req.SourceWindowID)
	}
	win := &f.state.Windows[idx]
	for i, tab := range win.Tabs {
		if tab.ID != req.TabID {
			continue
		}
		win.Tabs = append(win.Tabs[:i], win.Tabs[i+1:]...)
		if win.ActiveTabID == req.TabID {
			win.ActiveTabID = ""
		}
		tab.Active = true
		f.state.Windows = append(f.state.Windows, content.Window{
			ID:          uuid.NewString(),
			Tabs:        []content.Tab{tab},
			ActiveTabID: tab.ID,
		})
		return nil
	}
	return fmt.Errorf("no such tab %q", req.TabID)
}

func (f *Fake) ProcessSessionID(ctx context.Context, processID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(host.OpProcessSessionID); err != nil {
		return "", err
	}
	return f.sessions[processID], nil
}

func (f *Fake) windowIndex(id string) int {
	for i, win := range f.state.Windows {
		if win.ID == id {
			return i
		}
	}
	return -1
}

func cloneState(state host.WindowState) host.WindowState {
	dup := host.WindowState{MainWindowID: state.MainWindowID}
	dup.Windows = make([]content.Window, len(state.Windows))
	for i, win := range state.Windows {
		dup.Windows[i] = win.Clone()
	}
	return dup
}
