package ui

import (
	"fmt"
	"strings"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/format/table"
	"github.com/meshdeck/meshdeck/internal/router"
)

// viewContent renders the active tab's body. The route decides the view;
// process tabs additionally consult the model's resolution state.
func (m *Model) viewContent() string {
	_, tab, ok := m.activeTab()
	if !ok {
		return styles.ContentBody.Render("no active tab")
	}
	route := router.Resolve(tab.Content)

	var body string
	switch route.Kind {
	case router.RouteTerminal:
		body = m.viewTerminal(tab.Title, route.SessionID)
	case router.RouteChannel:
		body = joinTitled(tab.Title, fmt.Sprintf("channel %s · grid %s", route.ChannelID, route.GridID))
	case router.RouteVoice:
		body = joinTitled(tab.Title, fmt.Sprintf("voice channel %s · grid %s (audio runs host-side)", route.ChannelID, route.GridID))
	case router.RouteProcess:
		body = m.viewProcess(tab, route)
	case router.RouteGridDashboard:
		body = m.viewGridDashboard(tab.Title, route.GridID)
	case router.RouteConversation:
		body = joinTitled(tab.Title, "conversation "+route.ConversationID)
	case router.RouteWelcome:
		body = m.viewWelcome()
	default:
		body = styles.ContentError.Render(
			fmt.Sprintf("unsupported content type %q; update the client to view this tab", route.RawKind),
		)
	}

	if note, ok := m.restored[tab.ID]; ok && note != "" {
		body += "\n" + styles.Info.Render("restored: "+note)
	}
	return body
}

func (m *Model) viewTerminal(title, sessionID string) string {
	return joinTitled(title, "terminal session "+sessionID)
}

func (m *Model) viewProcess(tab content.Tab, route router.Route) string {
	res, tracked := m.resolutions[tab.ID]
	if !tracked || res.State == router.ProcessLoading {
		return styles.Loading.Render("resolving process " + route.ProcessID + "…")
	}
	switch res.State {
	case router.ProcessTerminalResolved:
		return m.viewTerminal(tab.Title, res.SessionID)
	case router.ProcessErrored:
		return styles.ContentError.Render(res.Err.Error())
	}
	return joinTitled(tab.Title, m.processDashboard(tab, route))
}

// processDashboard is the sessionless fallback: static details, no stream.
func (m *Model) processDashboard(tab content.Tab, route router.Route) string {
	rows := [][]string{
		{"process", route.ProcessID},
		{"grid", route.GridID},
		{"session", "none attached"},
	}
	if !tab.CreatedAt.IsZero() {
		rows = append(rows, []string{"opened", tab.CreatedAt.Format("15:04:05")})
	}
	return strings.Join(table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft}), "\n")
}

// viewGridDashboard lists every open tab that belongs to the grid, so the
// dashboard doubles as a jump table for the switcher.
func (m *Model) viewGridDashboard(title, gridID string) string {
	rows := [][]string{{"TAB", "KIND", "RESOURCE"}}
	for _, win := range m.registry.Windows() {
		for _, tab := range win.Tabs {
			if tab.Content.GridID != gridID || tab.Content.Kind == content.KindGridDashboard {
				continue
			}
			rows = append(rows, []string{tab.Title, string(tab.Content.Kind), tab.Content.ResourceID()})
		}
	}
	if len(rows) == 1 {
		return joinTitled(title, "no open tabs in this grid")
	}
	body := strings.Join(table.Format(rows, []table.Alignment{table.AlignLeft, table.AlignLeft, table.AlignLeft}), "\n")
	return joinTitled(title, body)
}

func (m *Model) viewWelcome() string {
	lines := []string{
		"No tabs are open yet.",
		"",
		"o      open a grid, channel, or process",
		"/      fuzzy-switch between tabs",
		"q      quit",
	}
	return joinTitled("Welcome", strings.Join(lines, "\n"))
}
