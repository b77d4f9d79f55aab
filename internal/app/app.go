package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/meshdeck/meshdeck/internal/backend"
	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/logging"
	"github.com/meshdeck/meshdeck/internal/logging/events"
	"github.com/meshdeck/meshdeck/internal/registry"
	"github.com/meshdeck/meshdeck/internal/selection"
	"github.com/meshdeck/meshdeck/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	SocketPath string
	StateDir   string
	Width      int
	Height     int
	Verbose    bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	socketPath, err := ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return fmt.Errorf("resolve host socket: %w", err)
	}
	client, err := host.Dial(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()

	reg := registry.New(client, nil)
	listener := backend.NewListener(client, reg, backend.DefaultRefreshDelay)
	defer listener.Stop()

	store, err := selection.NewStore(filepath.Join(resolveStateDir(cfg.StateDir), "selection.json"))
	if err != nil {
		// Persistence is a convenience; run without it rather than refuse
		// to start.
		logging.Error(err)
		store = nil
	}
	bridge := selection.NewBridge(reg, store, listener.RequestRefresh)

	model := ui.NewModel(ui.Params{
		Client:   client,
		Registry: reg,
		Listener: listener,
		Bridge:   bridge,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Verbose:  cfg.Verbose,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	events.App.Stop("program exit")
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// ResolveSocketPath finds the host socket: the explicit value when given,
// then the runtime directory, then the shared temp fallback the host uses
// when no runtime directory exists.
func ResolveSocketPath(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "meshdeck", "host.sock"), nil
	}
	return filepath.Join(os.TempDir(), "meshdeck-host.sock"), nil
}

func resolveStateDir(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "meshdeck")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("meshdeck-%d", time.Now().Unix()))
}
