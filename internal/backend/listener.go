// Package backend keeps the window registry eventually consistent with the
// host. It owns the push-event subscription: full-state pushes overwrite
// the registry directly, window-closed pushes remove windows immediately,
// and allow-listed change events trigger a coalesced full refresh. Restore
// events pass through untouched for content renderers.
package backend

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/logging"
	"github.com/meshdeck/meshdeck/internal/logging/events"
	"github.com/meshdeck/meshdeck/internal/registry"
)

// DefaultRefreshDelay is the coalescing window for change-triggered
// refreshes.
const DefaultRefreshDelay = 100 * time.Millisecond

// refreshEventTypes is the allow-list of window-state-change event types
// that warrant a refresh. Everything else is noise the registry already
// reflects locally (optimistic activation above all) and is dropped to
// avoid refresh storms.
var refreshEventTypes = map[string]struct{}{
	"tab-created":    {},
	"tab-closed":     {},
	"tab-detached":   {},
	"tab-reattached": {},
	"tab-activated":  {},
	"window-created": {},
	"window-closed":  {},
	"window-focused": {},
}

// Listener consumes host push events and applies them to the registry.
type Listener struct {
	source   host.EventSource
	registry *registry.Registry
	refresh  *coalescer

	updates  chan struct{}
	restores chan host.Event

	mu       sync.Mutex
	draining bool

	stopOnce sync.Once
	cancel   func()
	done     chan struct{}
}

// NewListener subscribes to the event source and starts the apply loop.
// Callers must Stop the listener; the subscription is released on every
// exit path, including source shutdown.
func NewListener(source host.EventSource, reg *registry.Registry, refreshDelay time.Duration) *Listener {
	if refreshDelay <= 0 {
		refreshDelay = DefaultRefreshDelay
	}
	l := &Listener{
		source:   source,
		registry: reg,
		updates:  make(chan struct{}, 1),
		restores: make(chan host.Event, 16),
		done:     make(chan struct{}),
	}
	l.refresh = newCoalescer(refreshDelay, l.runRefresh)

	ch, cancel := source.Subscribe()
	l.cancel = cancel
	go l.run(ch)
	return l
}

// Updates signals after the listener has changed registry state. Buffered
// to one pending signal; consumers re-read the registry, not the channel.
func (l *Listener) Updates() <-chan struct{} {
	return l.updates
}

// Restores carries per-content restore events for the UI to forward to the
// affected renderer.
func (l *Listener) Restores() <-chan host.Event {
	return l.restores
}

// RequestRefresh schedules a coalesced refresh on behalf of a caller
// outside the event stream (the selection bridge after a create). Subject
// to the same drop-while-pending rule as change events.
func (l *Listener) RequestRefresh() {
	if l.refresh.trigger() {
		events.Window.Refresh("requested")
	}
}

// Stop releases the subscription and the pending refresh, then waits for
// the apply loop to drain.
func (l *Listener) Stop() {
	l.stopOnce.Do(func() {
		l.cancel()
		l.refresh.stop()
	})
	<-l.done
}

func (l *Listener) run(ch <-chan host.Event) {
	defer close(l.done)
	for evt := range ch {
		l.handle(evt)
	}
	// Subscription gone: no further state changes can arrive, so release
	// consumers blocked on the outbound channels.
	l.refresh.stop()
	l.mu.Lock()
	l.draining = true
	close(l.updates)
	close(l.restores)
	l.mu.Unlock()
}

func (l *Listener) handle(evt host.Event) {
	events.Host.Event(evt.Name)
	switch {
	case evt.Name == host.EventWindowStateUpdated:
		var state host.WindowState
		if err := json.Unmarshal(evt.Payload, &state); err != nil {
			logging.Error(err)
			return
		}
		l.registry.ReplaceState(state)
		l.signal()

	case evt.Name == host.EventWindowClosed:
		var closed host.WindowClosed
		if err := json.Unmarshal(evt.Payload, &closed); err != nil {
			logging.Error(err)
			return
		}
		l.registry.RemoveWindow(closed.WindowID)
		l.signal()

	case evt.Name == host.EventWindowStateChange:
		var change host.StateChange
		if err := json.Unmarshal(evt.Payload, &change); err != nil {
			logging.Error(err)
			return
		}
		if _, ok := refreshEventTypes[change.EventType]; !ok {
			events.Window.RefreshSkipped(change.EventType)
			return
		}
		if l.refresh.trigger() {
			events.Window.Refresh(change.EventType)
		}

	case strings.HasPrefix(evt.Name, host.EventRestorePrefix):
		select {
		case l.restores <- evt:
		default:
			// Restore payloads are advisory; the renderer re-fetches on
			// mount anyway, so drop rather than block the loop.
			events.Host.EventDropped(evt.Name)
		}
	}
}

func (l *Listener) runRefresh() {
	if err := l.registry.Refresh(context.Background()); err != nil {
		logging.Error(err)
		return
	}
	l.signal()
}

func (l *Listener) signal() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.draining {
		return
	}
	select {
	case l.updates <- struct{}{}:
	default:
	}
}
