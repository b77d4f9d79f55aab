package app

import (
	"path/filepath"
	"testing"
)

func TestResolveSocketPathPrefersExplicitValue(t *testing.T) {
	got, err := ResolveSocketPath("/tmp/custom.sock")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "/tmp/custom.sock" {
		t.Fatalf("expected explicit path, got %q", got)
	}
}

func TestResolveSocketPathUsesRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := filepath.Join("/run/user/1000", "meshdeck", "host.sock")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestResolveSocketPathFallsBackToTempDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(got) != "meshdeck-host.sock" {
		t.Fatalf("expected temp fallback, got %q", got)
	}
}

func TestResolveStateDirPrefersExplicitValue(t *testing.T) {
	if got := resolveStateDir("/var/lib/meshdeck"); got != "/var/lib/meshdeck" {
		t.Fatalf("expected explicit dir, got %q", got)
	}
}
