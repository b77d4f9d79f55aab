package router

import (
	"context"
	"fmt"

	"github.com/meshdeck/meshdeck/internal/host"
)

// ProcessState is the render-time resolution state of a process tab.
// Resolution starts in ProcessLoading and reaches exactly one of the three
// terminal states; it re-runs only when a new tab carries a different
// process id, never as a mutation of an existing tab.
type ProcessState int

const (
	ProcessLoading ProcessState = iota
	// ProcessTerminalResolved means the process has an attached terminal
	// session and the terminal view applies.
	ProcessTerminalResolved
	// ProcessDashboardResolved means no session exists and the dashboard
	// view applies.
	ProcessDashboardResolved
	// ProcessErrored is terminal for this tab's render: an inline error
	// panel, no automatic retry.
	ProcessErrored
)

// ContentResolutionError reports a failed render-time lookup. It is local
// to one tab's content area and never surfaces as a global notification.
type ContentResolutionError struct {
	ProcessID string
	Err       error
}

func (e *ContentResolutionError) Error() string {
	return fmt.Sprintf("resolve content for process %s: %v", e.ProcessID, e.Err)
}

func (e *ContentResolutionError) Unwrap() error { return e.Err }

// ProcessResolution is the outcome of one resolution run.
type ProcessResolution struct {
	ProcessID string
	State     ProcessState
	SessionID string
	Err       *ContentResolutionError
}

// ResolveProcess queries the host for the session attached to a process
// and returns the terminal state. Callers running this asynchronously must
// discard the result if the originating tab is gone by completion time.
func ResolveProcess(ctx context.Context, api host.API, processID string) ProcessResolution {
	sessionID, err := api.ProcessSessionID(ctx, processID)
	if err != nil {
		return ProcessResolution{
			ProcessID: processID,
			State:     ProcessErrored,
			Err:       &ContentResolutionError{ProcessID: processID, Err: err},
		}
	}
	if sessionID == "" {
		return ProcessResolution{ProcessID: processID, State: ProcessDashboardResolved}
	}
	return ProcessResolution{ProcessID: processID, State: ProcessTerminalResolved, SessionID: sessionID}
}
