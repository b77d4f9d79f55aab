package registry

import (
	"errors"
	"fmt"
)

var (
	errWindowNotFound = errors.New("window not found")
	errTabNotFound    = errors.New("tab not found")
)

// InitializationError reports that the registry failed its first full fetch.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("initialize window registry: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// TabCreationError wraps the host's error text for a failed create-tab.
type TabCreationError struct {
	Err error
}

func (e *TabCreationError) Error() string {
	return fmt.Sprintf("create tab: %v", e.Err)
}

func (e *TabCreationError) Unwrap() error { return e.Err }

// TabActivationError wraps the host's error text for a failed activate-tab.
type TabActivationError struct {
	WindowID string
	TabID    string
	Err      error
}

func (e *TabActivationError) Error() string {
	return fmt.Sprintf("activate tab %s in window %s: %v", e.TabID, e.WindowID, e.Err)
}

func (e *TabActivationError) Unwrap() error { return e.Err }

// TabCloseError wraps the host's error text for a failed close-tab.
type TabCloseError struct {
	WindowID string
	TabID    string
	Err      error
}

func (e *TabCloseError) Error() string {
	return fmt.Sprintf("close tab %s in window %s: %v", e.TabID, e.WindowID, e.Err)
}

func (e *TabCloseError) Unwrap() error { return e.Err }

// TabDetachError wraps the host's error text for a failed detach-tab.
type TabDetachError struct {
	TabID string
	Err   error
}

func (e *TabDetachError) Error() string {
	return fmt.Sprintf("detach tab %s: %v", e.TabID, e.Err)
}

func (e *TabDetachError) Unwrap() error { return e.Err }
