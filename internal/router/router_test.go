package router

import (
	"context"
	"errors"
	"testing"

	"github.com/meshdeck/meshdeck/internal/content"
	"github.com/meshdeck/meshdeck/internal/host"
	"github.com/meshdeck/meshdeck/internal/host/hosttest"
)

func TestResolveMapsEveryKnownKind(t *testing.T) {
	cases := []struct {
		desc content.Descriptor
		want RouteKind
	}{
		{content.Terminal("s1", "g1"), RouteTerminal},
		{content.TextChannel("c1", "g1"), RouteChannel},
		{content.Descriptor{Kind: content.KindMediaChannel, ChannelID: "c2", GridID: "g1"}, RouteChannel},
		{content.VoiceChannel("c3", "g1"), RouteVoice},
		{content.Process("p1", "g1"), RouteProcess},
		{content.GridDashboard("g1"), RouteGridDashboard},
		{content.DirectMessage("dm1"), RouteConversation},
		{content.Welcome(), RouteWelcome},
	}
	for _, tc := range cases {
		got := Resolve(tc.desc)
		if got.Kind != tc.want {
			t.Fatalf("%s resolved to %v, want %v", tc.desc.Kind, got.Kind, tc.want)
		}
	}
}

func TestResolveCarriesIdentifiers(t *testing.T) {
	route := Resolve(content.TextChannel("general", "grid-9"))
	if route.ChannelID != "general" || route.GridID != "grid-9" {
		t.Fatalf("identifiers dropped: %#v", route)
	}
}

func TestResolveUnknownKindFallsBack(t *testing.T) {
	route := Resolve(content.Descriptor{Kind: "hologram"})
	if route.Kind != RouteUnsupported {
		t.Fatalf("expected unsupported route, got %v", route.Kind)
	}
	if route.RawKind != "hologram" {
		t.Fatalf("raw discriminant lost: %q", route.RawKind)
	}
}

func TestResolveProcessWithSession(t *testing.T) {
	fake := hosttest.New()
	fake.SetProcessSession("proc-1", "sess-123")

	res := ResolveProcess(context.Background(), fake, "proc-1")
	if res.State != ProcessTerminalResolved {
		t.Fatalf("expected terminal resolution, got %v", res.State)
	}
	if res.SessionID != "sess-123" {
		t.Fatalf("expected sess-123, got %q", res.SessionID)
	}
}

func TestResolveProcessWithoutSession(t *testing.T) {
	fake := hosttest.New()

	res := ResolveProcess(context.Background(), fake, "proc-1")
	if res.State != ProcessDashboardResolved {
		t.Fatalf("expected dashboard resolution, got %v", res.State)
	}
}

func TestResolveProcessFetchFailure(t *testing.T) {
	fake := hosttest.New()
	fake.FailWith(host.OpProcessSessionID, errors.New("host offline"))

	res := ResolveProcess(context.Background(), fake, "proc-1")
	if res.State != ProcessErrored {
		t.Fatalf("expected errored state, got %v", res.State)
	}
	if res.Err == nil || res.Err.ProcessID != "proc-1" {
		t.Fatalf("expected ContentResolutionError for proc-1, got %v", res.Err)
	}
	var cre *ContentResolutionError
	if !errors.As(res.Err, &cre) {
		t.Fatalf("error type lost: %T", res.Err)
	}
}
