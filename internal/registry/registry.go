// Package registry keeps the client-side mirror of the host's window and
// tab state. It is the single mutable shared resource of the UI: every
// mutation goes through a registry operation, which forwards the request to
// the host and reconciles local state from the response. The registry never
// invents state of its own; the host stays authoritative and the event
// listener feeds replacements back in.
package registry

import (
	"context"
	"sync"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/logging/events"
)

// Notifier receives one user-visible message per failed mutating operation.
// The UI installs a toast here; tests install a recorder.
type Notifier func(message string)

// Registry mirrors host window state. Safe for concurrent use from the UI
// goroutine and the event listener.
type Registry struct {
	api    host.API
	notify Notifier

	mu           sync.Mutex
	initialized  bool
	windows      map[string]content.Window
	order        []string
	mainWindowID string
}

// New constructs an empty registry. The notifier may be nil.
func New(api host.API, notify Notifier) *Registry {
	return &Registry{
		api:     api,
		notify:  notify,
		windows: make(map[string]content.Window),
	}
}

// SetNotifier installs the failure-notification hook after construction.
// The UI owns the toast surface but is built after the registry.
func (r *Registry) SetNotifier(notify Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notify = notify
}

// Initialize performs the first full fetch. Idempotent: once the registry
// is marked ready, further calls return immediately without touching the
// host.
func (r *Registry) Initialize(ctx context.Context) error {
	r.mu.Lock()
	if r.initialized {
		r.mu.Unlock()
		return nil
	}
	r.mu.Unlock()

	state, err := r.api.GetAllWindows(ctx)
	if err != nil {
		werr := &InitializationError{Err: err}
		r.emit(werr.Error())
		return werr
	}

	r.mu.Lock()
	r.replaceLocked(state)
	r.initialized = true
	r.mu.Unlock()
	return nil
}

// Initialized reports whether the first full fetch has completed.
func (r *Registry) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Refresh re-fetches the full state and replaces the local copy. Tab
// object identities change across a refresh; callers must not hold stale
// references.
func (r *Registry) Refresh(ctx context.Context) error {
	state, err := r.api.GetAllWindows(ctx)
	if err != nil {
		events.Window.RefreshError(err)
		return err
	}
	r.mu.Lock()
	r.replaceLocked(state)
	r.mu.Unlock()
	return nil
}

// ReplaceState overwrites local state wholesale. Used by the event listener
// for window-state-updated pushes.
func (r *Registry) ReplaceState(state host.WindowState) {
	r.mu.Lock()
	r.replaceLocked(state)
	r.mu.Unlock()
	events.Window.Replaced(len(state.Windows), state.MainWindowID)
}

// RemoveWindow drops a window immediately, ahead of any refresh
// round-trip. Used by the event listener for window-closed pushes. The main
// window is never removed this way; tearing it down is the host's process
// exit, not a state change.
func (r *Registry) RemoveWindow(windowID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if windowID == r.mainWindowID {
		return
	}
	if _, ok := r.windows[windowID]; !ok {
		return
	}
	delete(r.windows, windowID)
	for i, id := range r.order {
		if id == windowID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	events.Window.Removed(windowID)
}

// Window returns a snapshot of the window with the given id.
func (r *Registry) Window(id string) (content.Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	win, ok := r.windows[id]
	if !ok {
		return content.Window{}, false
	}
	return win.Clone(), true
}

// MainWindow returns a snapshot of the main window. Absence is tolerated
// during startup races; callers check the bool.
func (r *Registry) MainWindow() (content.Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	win, ok := r.windows[r.mainWindowID]
	if !ok {
		return content.Window{}, false
	}
	return win.Clone(), true
}

// MainWindowID returns the id of the main window, empty before the first
// fetch completes.
func (r *Registry) MainWindowID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mainWindowID
}

// Windows returns snapshots of all windows in host order.
func (r *Registry) Windows() []content.Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]content.Window, 0, len(r.order))
	for _, id := range r.order {
		if win, ok := r.windows[id]; ok {
			out = append(out, win.Clone())
		}
	}
	return out
}

// ActiveTab returns the active tab of the given window, if the window
// exists and its active id references a present tab.
func (r *Registry) ActiveTab(windowID string) (content.Tab, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	win, ok := r.windows[windowID]
	if !ok {
		return content.Tab{}, false
	}
	return win.ActiveTab()
}

// CreateTab requests a tab from the host and, on success, reflects the
// returned record locally. The windowID defaults to the main window when
// empty. A follow-up Refresh reconciles ordering and activation.
func (r *Registry) CreateTab(ctx context.Context, desc content.Descriptor, title, windowID string) (content.Tab, error) {
	if windowID == "" {
		windowID = r.MainWindowID()
	}
	if title == "" {
		title = desc.DisplayTitle()
	}
	events.Tab.Create(windowID, string(desc.Kind), title)

	tab, err := r.api.CreateTab(ctx, host.CreateTabRequest{Content: desc, Title: title, WindowID: windowID})
	if err != nil {
		werr := &TabCreationError{Err: err}
		events.Tab.Error("create", err)
		r.emit(werr.Error())
		return content.Tab{}, werr
	}

	r.mu.Lock()
	if win, ok := r.windows[windowID]; ok {
		if _, _, exists := win.FindTab(tab.ID); !exists {
			win.Tabs = append(win.Tabs, tab)
			r.windows[windowID] = win
		}
	}
	r.mu.Unlock()
	events.Tab.Created(windowID, tab.ID)
	return tab, nil
}

// ActivateTab makes tabID the active tab of windowID. The local state is
// updated speculatively before the host round-trip so the UI switches
// without waiting; a host failure rolls the window back to its last
// confirmed state.
func (r *Registry) ActivateTab(ctx context.Context, windowID, tabID string) error {
	r.mu.Lock()
	win, ok := r.windows[windowID]
	if !ok {
		r.mu.Unlock()
		werr := &TabActivationError{WindowID: windowID, TabID: tabID, Err: errWindowNotFound}
		r.emit(werr.Error())
		return werr
	}
	if _, _, ok := win.FindTab(tabID); !ok {
		r.mu.Unlock()
		werr := &TabActivationError{WindowID: windowID, TabID: tabID, Err: errTabNotFound}
		r.emit(werr.Error())
		return werr
	}
	confirmed := win.Clone()
	r.applyActivationLocked(windowID, tabID)
	r.mu.Unlock()
	events.Tab.Activate(windowID, tabID)

	if err := r.api.ActivateTab(ctx, windowID, tabID); err != nil {
		r.mu.Lock()
		// Roll back only if nothing newer replaced the speculative state in
		// the meantime; a completed refresh is more authoritative than the
		// snapshot taken before this call.
		if cur, ok := r.windows[windowID]; ok && cur.ActiveTabID == tabID {
			r.windows[windowID] = confirmed
		}
		r.mu.Unlock()
		events.Tab.ActivateRollback(windowID, tabID)
		werr := &TabActivationError{WindowID: windowID, TabID: tabID, Err: err}
		r.emit(werr.Error())
		return werr
	}
	return nil
}

// CloseTab closes a tab through the host and removes it locally on
// success. When the closed tab was active the registry clears the active
// id and leaves electing a replacement to the host; the next refresh or
// push carries the host's choice.
func (r *Registry) CloseTab(ctx context.Context, windowID, tabID string) error {
	events.Tab.Close(windowID, tabID)
	if err := r.api.CloseTab(ctx, windowID, tabID); err != nil {
		werr := &TabCloseError{WindowID: windowID, TabID: tabID, Err: err}
		events.Tab.Error("close", err)
		r.emit(werr.Error())
		return werr
	}

	r.mu.Lock()
	if win, ok := r.windows[windowID]; ok {
		if _, idx, found := win.FindTab(tabID); found {
			win.Tabs = append(win.Tabs[:idx:idx], win.Tabs[idx+1:]...)
			if win.ActiveTabID == tabID {
				win.ActiveTabID = ""
			}
			r.windows[windowID] = win
		}
	}
	r.mu.Unlock()
	return nil
}

// DetachTab moves a tab into a new OS-level window. Local state changes
// only after host confirmation; the new window arrives through the
// follow-up state push.
func (r *Registry) DetachTab(ctx context.Context, req host.DetachTabRequest) error {
	events.Tab.Detach(req.SourceWindowID, req.TabID)
	if err := r.api.DetachTab(ctx, req); err != nil {
		werr := &TabDetachError{TabID: req.TabID, Err: err}
		events.Tab.Error("detach", err)
		r.emit(werr.Error())
		return werr
	}

	r.mu.Lock()
	if win, ok := r.windows[req.SourceWindowID]; ok {
		if _, idx, found := win.FindTab(req.TabID); found {
			win.Tabs = append(win.Tabs[:idx:idx], win.Tabs[idx+1:]...)
			if win.ActiveTabID == req.TabID {
				win.ActiveTabID = ""
			}
			r.windows[req.SourceWindowID] = win
		}
	}
	r.mu.Unlock()
	return nil
}

func (r *Registry) replaceLocked(state host.WindowState) {
	r.windows = make(map[string]content.Window, len(state.Windows))
	r.order = r.order[:0]
	for _, win := range state.Windows {
		r.windows[win.ID] = win.Clone()
		r.order = append(r.order, win.ID)
	}
	r.mainWindowID = state.MainWindowID
}

func (r *Registry) applyActivationLocked(windowID, tabID string) {
	win := r.windows[windowID]
	win = win.Clone()
	for i := range win.Tabs {
		win.Tabs[i].Active = win.Tabs[i].ID == tabID
	}
	win.ActiveTabID = tabID
	r.windows[windowID] = win
}

func (r *Registry) emit(message string) {
	r.mu.Lock()
	notify := r.notify
	r.mu.Unlock()
	if notify != nil {
		notify(message)
	}
}
