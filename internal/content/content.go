// Package content defines the descriptors identifying what a tab displays,
// along with the Tab and Window records mirrored from the host. Descriptors
// carry identifiers and labels only; they never own business data.
package content

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the closed set of tab content variants.
type Kind string

const (
	KindTerminal      Kind = "terminal"
	KindTextChannel   Kind = "text-channel"
	KindMediaChannel  Kind = "media-channel"
	KindVoiceChannel  Kind = "voice-channel"
	KindProcess       Kind = "process"
	KindGridDashboard Kind = "grid-dashboard"
	KindDirectMessage Kind = "direct-message"
	KindWelcome       Kind = "welcome"
)

// Known reports whether k is one of the enumerated content kinds. Unknown
// kinds still round-trip through the client unmodified so a newer host can
// introduce variants without breaking older clients.
func (k Kind) Known() bool {
	switch k {
	case KindTerminal, KindTextChannel, KindMediaChannel, KindVoiceChannel,
		KindProcess, KindGridDashboard, KindDirectMessage, KindWelcome:
		return true
	}
	return false
}

// Channel reports whether the kind renders a channel view and therefore
// matches selections on both channel id and grid id.
func (k Kind) Channel() bool {
	switch k {
	case KindTextChannel, KindMediaChannel, KindVoiceChannel:
		return true
	}
	return false
}

// Descriptor identifies what a tab displays. Identifier fields are fixed at
// tab creation; content never changes kind in place, a new tab is created
// instead.
type Descriptor struct {
	Kind           Kind   `json:"type"`
	SessionID      string `json:"sessionId,omitempty"`
	ChannelID      string `json:"channelId,omitempty"`
	ProcessID      string `json:"processId,omitempty"`
	GridID         string `json:"gridId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	Label          string `json:"label,omitempty"`
}

// ResourceID returns the identifier a selection would match for this
// descriptor: the channel id for channel kinds, the process id for process
// tabs, and the primary id otherwise.
func (d Descriptor) ResourceID() string {
	switch {
	case d.Kind.Channel():
		return d.ChannelID
	case d.Kind == KindProcess:
		return d.ProcessID
	case d.Kind == KindTerminal:
		return d.SessionID
	case d.Kind == KindGridDashboard:
		return d.GridID
	case d.Kind == KindDirectMessage:
		return d.ConversationID
	}
	return ""
}

// Terminal builds a descriptor for a terminal session tab.
func Terminal(sessionID, gridID string) Descriptor {
	return Descriptor{Kind: KindTerminal, SessionID: sessionID, GridID: gridID}
}

// TextChannel builds a descriptor for a text channel tab.
func TextChannel(channelID, gridID string) Descriptor {
	return Descriptor{Kind: KindTextChannel, ChannelID: channelID, GridID: gridID}
}

// VoiceChannel builds a descriptor for a voice channel tab.
func VoiceChannel(channelID, gridID string) Descriptor {
	return Descriptor{Kind: KindVoiceChannel, ChannelID: channelID, GridID: gridID}
}

// Process builds a descriptor for a process tab.
func Process(processID, gridID string) Descriptor {
	return Descriptor{Kind: KindProcess, ProcessID: processID, GridID: gridID}
}

// GridDashboard builds a descriptor for a grid management tab.
func GridDashboard(gridID string) Descriptor {
	return Descriptor{Kind: KindGridDashboard, GridID: gridID}
}

// DirectMessage builds a descriptor for a conversation tab.
func DirectMessage(conversationID string) Descriptor {
	return Descriptor{Kind: KindDirectMessage, ConversationID: conversationID}
}

// Welcome builds a descriptor for the landing tab.
func Welcome() Descriptor {
	return Descriptor{Kind: KindWelcome}
}

// Tab is one open view inside a window, as reported by the host.
type Tab struct {
	ID               string                     `json:"id"`
	Title            string                     `json:"title"`
	Content          Descriptor                 `json:"content"`
	Active           bool                       `json:"isActive"`
	Closable         bool                       `json:"isClosable"`
	CreatedAt        time.Time                  `json:"createdAt"`
	LastAccessed     time.Time                  `json:"lastAccessed"`
	HasNotifications bool                       `json:"hasNotifications"`
	Metadata         map[string]json.RawMessage `json:"metadata,omitempty"`
}

// Window is an ordered collection of tabs plus the id of the active one.
// ActiveTabID may be empty during host-driven transitions; when set it must
// reference a tab present in Tabs.
type Window struct {
	ID          string `json:"id"`
	Tabs        []Tab  `json:"tabs"`
	ActiveTabID string `json:"activeTabId,omitempty"`
}

// ActiveTab returns the tab referenced by ActiveTabID, if any.
func (w Window) ActiveTab() (Tab, bool) {
	if w.ActiveTabID == "" {
		return Tab{}, false
	}
	for _, tab := range w.Tabs {
		if tab.ID == w.ActiveTabID {
			return tab, true
		}
	}
	return Tab{}, false
}

// FindTab returns the tab with the given id along with its position.
func (w Window) FindTab(id string) (Tab, int, bool) {
	for i, tab := range w.Tabs {
		if tab.ID == id {
			return tab, i, true
		}
	}
	return Tab{}, -1, false
}

// Clone returns a deep copy so callers can hold snapshots across registry
// refreshes without aliasing shared slices.
func (w Window) Clone() Window {
	dup := w
	if len(w.Tabs) > 0 {
		dup.Tabs = make([]Tab, len(w.Tabs))
		copy(dup.Tabs, w.Tabs)
	}
	return dup
}

// DisplayTitle derives a human-readable title from a descriptor when the
// host did not supply one.
func (d Descriptor) DisplayTitle() string {
	if d.Label != "" {
		return d.Label
	}
	switch d.Kind {
	case KindTerminal:
		return fmt.Sprintf("terminal %s", d.SessionID)
	case KindTextChannel, KindMediaChannel:
		return fmt.Sprintf("#%s", d.ChannelID)
	case KindVoiceChannel:
		return fmt.Sprintf("voice %s", d.ChannelID)
	case KindProcess:
		return fmt.Sprintf("process %s", d.ProcessID)
	case KindGridDashboard:
		return fmt.Sprintf("grid %s", d.GridID)
	case KindDirectMessage:
		return fmt.Sprintf("dm %s", d.ConversationID)
	case KindWelcome:
		return "welcome"
	}
	return string(d.Kind)
}
