package main

import (
	"testing"

	"github.com/meshdeck/meshdeck/internal/app"
	"github.com/meshdeck/meshdeck/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			SocketPath: "/run/meshdeck/host.sock",
			StateDir:   "/tmp/meshdeck-state",
			Width:      80,
			Height:     24,
			Verbose:    true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"socket":   "/run/meshdeck/host.sock",
			"stateDir": "/tmp/meshdeck-state",
			"width":    "80",
			"height":   "24",
			"verbose":  "true",
		},
		Args: []string{"--socket", "/run/meshdeck/host.sock"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["socket"] != "/run/meshdeck/host.sock" {
		t.Fatalf("expected socket flag, got %v", flagsValue["socket"])
	}
	if flagsValue["stateDir"] != "/tmp/meshdeck-state" {
		t.Fatalf("expected state dir flag, got %v", flagsValue["stateDir"])
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if payload["socket"] != "/run/meshdeck/host.sock" {
		t.Fatalf("expected socket in payload, got %v", payload["socket"])
	}
	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}
