// Package selection reconciles navigation-panel selections with tabs:
// selecting a channel or process ensures exactly one tab exists for it in
// the main window, without duplicates and without reacting to bare grid
// selections.
package selection

import (
	"context"
	"fmt"
	"sync"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/logging"
	"github.com/meshdeck/meshdeck/internal/logging/events"
	"github.com/meshdeck/meshdeck/internal/registry"
)

// Selection is the navigation panel's current pointer. Ephemeral;
// recomputed on every relevant user action, never stored as an entity.
type Selection struct {
	GridID    string
	ChannelID string
	ProcessID string
	// ChannelKind carries the channel's content kind when ChannelID is
	// set. Zero value means text channel.
	ChannelKind content.Kind
}

func (s Selection) key() string {
	return fmt.Sprintf("%s|%s|%s", s.GridID, s.ChannelID, s.ProcessID)
}

// Bridge applies selections against the registry. Apply calls are
// serialized internally; the UI issues them from command goroutines.
type Bridge struct {
	registry *registry.Registry
	store    *Store
	refresh  func()

	mu      sync.Mutex
	lastKey string
}

// NewBridge wires the bridge to the registry. The store may be nil (no
// persistence); refresh is invoked after a create to schedule a coalesced
// registry refresh and may be nil in tests.
func NewBridge(reg *registry.Registry, store *Store, refresh func()) *Bridge {
	return &Bridge{registry: reg, store: store, refresh: refresh}
}

// LastGridID returns the grid remembered from the previous run.
func (b *Bridge) LastGridID() string {
	if b.store == nil {
		return ""
	}
	return b.store.LastGridID()
}

// Apply processes a selection change. Repeat selections are dropped by
// composite key so state-update feedback cannot loop. A selection naming
// neither a channel nor a process is recorded and otherwise inert. A
// matching existing tab is reused silently: it is deliberately not
// re-activated, so the bridge never fights a user-driven tab switch.
func (b *Bridge) Apply(ctx context.Context, sel Selection) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := sel.key()
	if key == b.lastKey {
		return nil
	}
	b.lastKey = key
	events.Selection.Changed(sel.GridID, sel.ChannelID, sel.ProcessID)

	if b.store != nil && sel.GridID != "" {
		if err := b.store.SetLastGridID(sel.GridID); err != nil {
			logging.Error(err)
		}
	}

	if sel.ChannelID == "" && sel.ProcessID == "" {
		events.Selection.BareGrid(sel.GridID)
		return nil
	}

	desc := sel.descriptor()
	main, ok := b.registry.MainWindow()
	if ok {
		if tab, found := matchTab(main.Tabs, desc); found {
			events.Selection.Reused(tab.ID)
			return nil
		}
	}

	tab, err := b.registry.CreateTab(ctx, desc, "", "")
	if err != nil {
		events.Selection.Error(err)
		return err
	}
	events.Selection.Opened(tab.ID)
	if b.refresh != nil {
		b.refresh()
	}
	return nil
}

// descriptor derives the tab content for the selection. Process selection
// takes precedence over channel when both are set; the driving UI clears
// the process pointer first, so both set at once only occurs on malformed
// input.
func (s Selection) descriptor() content.Descriptor {
	if s.ProcessID != "" {
		return content.Process(s.ProcessID, s.GridID)
	}
	kind := s.ChannelKind
	if kind == "" {
		kind = content.KindTextChannel
	}
	return content.Descriptor{Kind: kind, ChannelID: s.ChannelID, GridID: s.GridID}
}

// matchTab finds a tab whose content points at the same resource. Channel
// content must also match on grid id since channel ids are scoped per
// grid.
func matchTab(tabs []content.Tab, desc content.Descriptor) (content.Tab, bool) {
	for _, tab := range tabs {
		c := tab.Content
		switch {
		case desc.Kind == content.KindProcess:
			if c.Kind == content.KindProcess && c.ProcessID == desc.ProcessID {
				return tab, true
			}
		case desc.Kind.Channel():
			if c.Kind.Channel() && c.ChannelID == desc.ChannelID && c.GridID == desc.GridID {
				return tab, true
			}
		}
	}
	return content.Tab{}, false
}
