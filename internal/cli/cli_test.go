package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/retronet/internal/config"
	"github.com/ashureev/retronet/internal/domain"
	"github.com/ashureev/retronet/internal/tracker"
)

type harness struct {
	cfg *config.ClientConfig
}

func newHarness(t *testing.T, endpoint string) *harness {
	t.Helper()
	return &harness{cfg: &config.ClientConfig{
		ProxyEndpoint:  endpoint,
		DBPath:         filepath.Join(t.TempDir(), "retronet.db"),
		Partition:      "test",
		UpdateInterval: time.Second,
	}}
}

func (h *harness) run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := NewRootCmd(h.cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("retronet %v failed: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func unreachableRelay(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"API key not configured"}`))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestSessionPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))

	var first, second domain.Session
	if err := json.Unmarshal([]byte(h.run(t, "", "session")), &first); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if err := json.Unmarshal([]byte(h.run(t, "", "session")), &second); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if first.ID == "" || first.ID != second.ID {
		t.Fatalf("expected persisted session, got %q and %q", first.ID, second.ID)
	}
}

func TestVisitAndExport(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))

	h.run(t, "", "profile", "set", "goals", "finish", "my", "thesis")
	h.run(t, "", "profile", "set", "interests", "anime", "chess")
	h.run(t, "", "visit", "landing")
	h.run(t, "", "visit", "article-1", "--title", "Article")

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(h.run(t, "", "export")), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.UserGoals != "finish my thesis" {
		t.Fatalf("unexpected goals %q", snap.UserGoals)
	}
	if len(snap.UserInterests) != 2 || snap.UserInterests[1] != "chess" {
		t.Fatalf("unexpected interests %v", snap.UserInterests)
	}
	if got := snap.UserPath.Pages(); len(got) != 2 || got[0] != "landing" || got[1] != "article-1" {
		t.Fatalf("unexpected path %v", got)
	}
}

func TestPreviewFallsBackWhenRelayFails(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))
	h.run(t, "", "profile", "set", "goals", "Sleep")

	var p domain.Preview
	if err := json.Unmarshal([]byte(h.run(t, "", "preview", "2")), &p); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if p.Hook != tracker.FallbackHook {
		t.Fatalf("expected fallback hook, got %q", p.Hook)
	}
	if p.Title != "10 Signs You're Avoiding Sleep (But Don't Know It Yet)" {
		t.Fatalf("unexpected title %q", p.Title)
	}
}

func TestListicleUsesRelayText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":"1. Hide your phone | It is watching."}`))
	}))
	defer srv.Close()

	h := newHarness(t, srv.URL)
	out := h.run(t, "", "listicle")
	if !strings.Contains(out, "It is watching.") {
		t.Fatalf("expected relay text, got %q", out)
	}
}

func TestProductsFallback(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))
	out := h.run(t, "", "products")
	if !strings.Contains(out, productsFallback) {
		t.Fatalf("expected fallback listings, got %q", out)
	}
}

func TestInjectFromStdinAndFile(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))

	out := h.run(t, "<h1>{{SITE_NAME}}</h1>{{UNKNOWN}}", "inject", "-")
	if out != "<h1>RetroNet</h1>{{UNKNOWN}}" {
		t.Fatalf("unexpected stdin render %q", out)
	}

	path := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(path, []byte("{{DB_NAME}}"), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if out := h.run(t, "", "inject", path); out != "user_profiles" {
		t.Fatalf("unexpected file render %q", out)
	}
}

func TestClearKeepsAPIKeyAndRotatesSession(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))

	var before domain.Session
	if err := json.Unmarshal([]byte(h.run(t, "", "session")), &before); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	h.run(t, "", "apikey", "sk-local")
	h.run(t, "", "profile", "set", "role", "student")

	out := h.run(t, "", "clear")
	if strings.Contains(out, before.ID) {
		t.Fatalf("expected new session after clear, got %q", out)
	}

	var prof domain.UserProfile
	if err := json.Unmarshal([]byte(h.run(t, "", "profile", "get")), &prof); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if prof.Role != "" {
		t.Fatalf("expected role to be cleared, got %q", prof.Role)
	}
}

func TestPartitions(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))
	h.run(t, "", "session")
	h.run(t, "", "--partition", "other", "session")

	out := h.run(t, "", "partitions")
	if out != "other\ntest\n" {
		t.Fatalf("unexpected partitions %q", out)
	}
}

func TestMemoryStoreIsEphemeral(t *testing.T) {
	h := newHarness(t, unreachableRelay(t))
	h.run(t, "", "--memory", "profile", "set", "goals", "x")

	var prof domain.UserProfile
	if err := json.Unmarshal([]byte(h.run(t, "", "--memory", "profile", "get")), &prof); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if prof.Goals != "" {
		t.Fatalf("expected fresh memory store, got goals %q", prof.Goals)
	}
}
