package host

import (
	"encoding/json"
	"time"

	"github.com/meshdeck/meshdeck/internal/content"
)

// Operation names understood by the host. These are part of the wire
// contract and must not be renamed.
const (
	OpGetAllWindows    = "get-all-windows"
	OpCreateTab        = "create-tab"
	OpActivateTab      = "activate-tab"
	OpCloseTab         = "close-tab"
	OpDetachTab        = "detach-tab"
	OpProcessSessionID = "get-process-session-id"
)

// Push event names emitted by the host.
const (
	EventWindowStateUpdated = "window-state-updated"
	EventWindowStateChange  = "window-state-change"
	EventWindowClosed       = "window-closed"
	EventRestorePrefix      = "restore-"
)

// WindowState is the host's complete window/tab inventory.
type WindowState struct {
	Windows      []content.Window `json:"windows"`
	MainWindowID string           `json:"mainWindowId"`
}

// CreateTabRequest asks the host to open a tab. WindowID defaults to the
// main window when empty; Title defaults to a host-derived label.
type CreateTabRequest struct {
	Content  content.Descriptor `json:"content"`
	Title    string             `json:"title,omitempty"`
	WindowID string             `json:"windowId,omitempty"`
}

// DetachTabRequest asks the host to move a tab into a new OS-level window.
type DetachTabRequest struct {
	TabID          string `json:"tabId"`
	SourceWindowID string `json:"sourceWindowId"`
	X              int    `json:"x,omitempty"`
	Y              int    `json:"y,omitempty"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

// StateChange is the payload of a window-state-change push event.
type StateChange struct {
	EventType string          `json:"eventType"`
	WindowID  string          `json:"windowId"`
	TabID     string          `json:"tabId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// WindowClosed is the payload of a window-closed push event.
type WindowClosed struct {
	WindowID string `json:"windowId"`
}

// Event is a push notification from the host. Payload decoding is left to
// the consumer since restore events are forwarded untouched to content
// renderers.
type Event struct {
	Name    string
	Payload json.RawMessage
}

// requestFrame and responseFrame are the newline-delimited JSON frames
// exchanged on the host socket. A frame with an Event name is a push
// notification; frames with an ID correlate a request with its response.
type requestFrame struct {
	ID     string          `json:"id"`
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params,omitempty"`
}

type responseFrame struct {
	ID     string          `json:"id,omitempty"`
	Event  string          `json:"event,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}
