// Package router maps content descriptors to the view that renders them.
// It holds no state: the single switch over the descriptor kind lives
// here, and every other component goes through it.
package router

import "github.com/meshdeck/meshdeck/internal/content"

// RouteKind names the view mounted for a tab.
type RouteKind int

const (
	// RouteTerminal mounts the terminal session view.
	RouteTerminal RouteKind = iota
	// RouteChannel mounts the channel view for text and media channels.
	RouteChannel
	// RouteVoice mounts the voice channel view.
	RouteVoice
	// RouteProcess requires render-time resolution: the process either has
	// an attached terminal session (terminal view) or not (dashboard).
	RouteProcess
	// RouteGridDashboard mounts the grid management view.
	RouteGridDashboard
	// RouteConversation mounts the channel view in conversation mode.
	RouteConversation
	// RouteWelcome mounts the landing view.
	RouteWelcome
	// RouteUnsupported is the placeholder for unknown discriminants.
	RouteUnsupported
)

// Route is the resolved render target for one descriptor.
type Route struct {
	Kind           RouteKind
	SessionID      string
	ChannelID      string
	ProcessID      string
	GridID         string
	ConversationID string
	// RawKind carries the unrecognized discriminant for display when Kind
	// is RouteUnsupported.
	RawKind string
}

// Resolve maps a descriptor to its route. Unknown kinds fall through to
// RouteUnsupported; that branch is reachable only for discriminants newer
// than this client.
func Resolve(desc content.Descriptor) Route {
	switch desc.Kind {
	case content.KindTerminal:
		return Route{Kind: RouteTerminal, SessionID: desc.SessionID, GridID: desc.GridID}
	case content.KindTextChannel, content.KindMediaChannel:
		return Route{Kind: RouteChannel, ChannelID: desc.ChannelID, GridID: desc.GridID}
	case content.KindVoiceChannel:
		return Route{Kind: RouteVoice, ChannelID: desc.ChannelID, GridID: desc.GridID}
	case content.KindProcess:
		return Route{Kind: RouteProcess, ProcessID: desc.ProcessID, GridID: desc.GridID}
	case content.KindGridDashboard:
		return Route{Kind: RouteGridDashboard, GridID: desc.GridID}
	case content.KindDirectMessage:
		return Route{Kind: RouteConversation, ConversationID: desc.ConversationID}
	case content.KindWelcome:
		return Route{Kind: RouteWelcome}
	}
	return Route{Kind: RouteUnsupported, RawKind: string(desc.Kind)}
}
