// Package ui renders the tab bar and active tab content, and translates
// key input into registry operations. All host access goes through the
// registry and the router; the model owns no window state of its own
// beyond render-time bookkeeping.
package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshdeck/meshdeck/internal/backend"
	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/registry"
	"github.com/meshdeck/meshdeck/internal/router"
	"github.com/meshdeck/meshdeck/internal/selection"
	"github.com/meshdeck/meshdeck/internal/theme"
)

var styles = theme.Default()

// Mode selects which input surface is live.
type Mode int

const (
	ModeTabs Mode = iota
	ModeSwitcher
	ModeOpen
)

const infoDisplayDuration = 3 * time.Second

type msgHandler func(tea.Msg) tea.Cmd

// Params carries the collaborators the model needs.
type Params struct {
	Client   host.API
	Registry *registry.Registry
	Listener *backend.Listener
	Bridge   *selection.Bridge
	Width    int
	Height   int
	Verbose  bool
}

// Model implements the Bubble Tea model for the meshdeck client.
type Model struct {
	client   host.API
	registry *registry.Registry
	listener *backend.Listener
	bridge   *selection.Bridge

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	verbose     bool

	ready   bool
	initErr string
	loading bool

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	mode      Mode
	switcher  *switcherState
	openInput textinput.Model

	resolutions map[string]router.ProcessResolution
	restored    map[string]string

	notices  chan string
	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI state.
func NewModel(p Params) *Model {
	input := textinput.New()
	input.Placeholder = "grid/channel, grid!process, or grid"
	input.Prompt = "open> "
	if styles.FilterPrompt != nil {
		input.PromptStyle = *styles.FilterPrompt
	}

	m := &Model{
		client:      p.Client,
		registry:    p.Registry,
		listener:    p.Listener,
		bridge:      p.Bridge,
		verbose:     p.Verbose,
		mode:        ModeTabs,
		openInput:   input,
		resolutions: make(map[string]router.ProcessResolution),
		restored:    make(map[string]string),
		notices:     make(chan string, 8),
	}
	if p.Width > 0 {
		m.width = p.Width
		m.fixedWidth = true
	}
	if p.Height > 0 {
		m.height = p.Height
		m.fixedHeight = true
	}
	if m.registry != nil {
		m.registry.SetNotifier(func(msg string) {
			select {
			case m.notices <- msg:
			default:
			}
		})
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.initializeCmd(), waitForNotice(m.notices)}
	if m.listener != nil {
		cmds = append(cmds, waitForUpdate(m.listener), waitForRestore(m.listener))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):          m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):   m.handleWindowSizeMsg,
		reflect.TypeOf(initDoneMsg{}):         m.handleInitDoneMsg,
		reflect.TypeOf(stateUpdatedMsg{}):     m.handleStateUpdatedMsg,
		reflect.TypeOf(restoreMsg{}):          m.handleRestoreMsg,
		reflect.TypeOf(listenerDoneMsg{}):     m.handleListenerDoneMsg,
		reflect.TypeOf(noticeMsg("")):         m.handleNoticeMsg,
		reflect.TypeOf(opDoneMsg{}):           m.handleOpDoneMsg,
		reflect.TypeOf(tabCreatedMsg{}):       m.handleTabCreatedMsg,
		reflect.TypeOf(processResolvedMsg{}):  m.handleProcessResolvedMsg,
		reflect.TypeOf(selectionAppliedMsg{}): m.handleSelectionAppliedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	return nil
}

func (m *Model) setInfo(msg string) {
	m.infoMsg = msg
	m.infoExpire = time.Now().Add(infoDisplayDuration)
}

func (m *Model) clearInfo() {
	if m.infoMsg != "" && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
	}
}

func (m *Model) setError(msg string) {
	m.errMsg = msg
}

// mainWindow is a nil-tolerant registry lookup for rendering paths.
func (m *Model) mainWindow() (content.Window, bool) {
	if m.registry == nil {
		return content.Window{}, false
	}
	return m.registry.MainWindow()
}

// activeTab resolves the main window's active tab. False during startup
// and while the host has not elected an active tab.
func (m *Model) activeTab() (content.Window, content.Tab, bool) {
	win, ok := m.mainWindow()
	if !ok {
		return content.Window{}, content.Tab{}, false
	}
	tab, ok := win.ActiveTab()
	return win, tab, ok
}
