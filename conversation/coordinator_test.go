package conversation_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/loomchat/loom/conversation"
	"github.com/loomchat/loom/core/protocol"
	"github.com/loomchat/loom/session"
	"github.com/loomchat/loom/store"
)

func newCoordinator(t *testing.T, client *fakeClient) *conversation.Coordinator {
	t.Helper()
	s := store.NewFileStore(t.TempDir())
	dir := session.NewDirectory(s)
	ptr := session.NewPointer(s)
	ctrl := conversation.NewController(dir, ptr, client, nil)
	return conversation.NewCoordinator(dir, ptr, ctrl, nil)
}

func TestCoordinator_NewSession(t *testing.T) {
	client := &fakeClient{}
	co := newCoordinator(t, client)
	ctx := t.Context()

	id, err := co.NewSession(ctx)
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}

	ctrl := co.Controller()
	if got := ctrl.SessionID(); got != id {
		t.Errorf("controller shows %q, want the new session %q", got, id)
	}
	if ctrl.State() != conversation.StateReady {
		t.Errorf("got state %q, want ready without waiting for a load", ctrl.State())
	}
	msgs := ctrl.Messages()
	if len(msgs) != 1 || msgs[0].Text != conversation.WelcomeText {
		t.Errorf("new session thread = %+v, want a single welcome seed", msgs)
	}

	// New sessions are known to have empty history; no fetch is issued.
	if n := client.historyCount(); n != 0 {
		t.Errorf("new session fetched history %d times, want 0", n)
	}

	sessions := co.Sessions(ctx)
	if len(sessions) != 1 || sessions[0].ID != id {
		t.Errorf("directory after new session = %+v", sessions)
	}
	if sessions[0].Preview != session.DefaultPreview {
		t.Errorf("got preview %q, want default", sessions[0].Preview)
	}
}

func TestCoordinator_NewSession_ClearsError(t *testing.T) {
	fail := true
	client := &fakeClient{
		exchangeFn: func(_ context.Context, _, _ string) (string, error) {
			if fail {
				return "", context.DeadlineExceeded
			}
			return "ok", nil
		},
	}
	co := newCoordinator(t, client)
	ctx := t.Context()

	if _, err := co.NewSession(ctx); err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	co.Controller().Send(ctx, "doomed")
	if co.Controller().LastError() == "" {
		t.Fatal("expected an error after the failed send")
	}

	if _, err := co.NewSession(ctx); err != nil {
		t.Fatalf("second new session failed: %v", err)
	}
	if got := co.Controller().LastError(); got != "" {
		t.Errorf("new session did not clear the error: %q", got)
	}
}

func TestCoordinator_SwitchTo_SameSessionIsNoOp(t *testing.T) {
	client := &fakeClient{}
	co := newCoordinator(t, client)
	ctx := t.Context()

	id, err := co.NewSession(ctx)
	if err != nil {
		t.Fatalf("new session failed: %v", err)
	}

	if err := co.SwitchTo(ctx, id); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if n := client.historyCount(); n != 0 {
		t.Errorf("switching to the active session reloaded history %d times", n)
	}
}

func TestCoordinator_SwitchTo_LoadsTarget(t *testing.T) {
	client := &fakeClient{
		historyFn: func(_ context.Context, id string) ([]protocol.Message, error) {
			if id == "other" {
				return []protocol.Message{{Role: protocol.RoleUser, Text: "from other thread"}}, nil
			}
			return nil, nil
		},
	}
	co := newCoordinator(t, client)
	ctx := t.Context()

	if _, err := co.NewSession(ctx); err != nil {
		t.Fatalf("new session failed: %v", err)
	}
	if err := co.SwitchTo(ctx, "other"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	ctrl := co.Controller()
	if got := ctrl.SessionID(); got != "other" {
		t.Errorf("active session is %q, want other", got)
	}
	msgs := ctrl.Messages()
	if len(msgs) != 1 || msgs[0].Text != "from other thread" {
		t.Errorf("messages after switch = %+v", msgs)
	}
}

func TestCoordinator_SwitchTo_UnknownID(t *testing.T) {
	// An id the directory has never seen proceeds and yields empty
	// history, behaving like a new unregistered session.
	co := newCoordinator(t, &fakeClient{})
	ctx := t.Context()

	if err := co.SwitchTo(ctx, "crafted-by-hand"); err != nil {
		t.Fatalf("switch failed: %v", err)
	}

	ctrl := co.Controller()
	if ctrl.State() != conversation.StateReady {
		t.Errorf("got state %q, want ready", ctrl.State())
	}
	msgs := ctrl.Messages()
	if len(msgs) != 1 || msgs[0].Text != conversation.WelcomeText {
		t.Errorf("messages = %+v, want welcome seed", msgs)
	}
}

func TestNew_FromConfig(t *testing.T) {
	cfg := conversation.DefaultConfig()
	cfg.Store.Path = t.TempDir()

	co, err := conversation.New(&cfg, conversation.WithClient(&fakeClient{}))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	if _, err := co.NewSession(t.Context()); err != nil {
		t.Fatalf("new session on configured core failed: %v", err)
	}
}

func TestNew_RequiresStore(t *testing.T) {
	cfg := conversation.DefaultConfig()

	if _, err := conversation.New(&cfg); err == nil {
		t.Error("expected an error without a store path")
	}
}

func TestNew_WithStoreOption(t *testing.T) {
	cfg := conversation.DefaultConfig()

	co, err := conversation.New(&cfg,
		conversation.WithStore(store.NewFileStore(t.TempDir())),
		conversation.WithClient(&fakeClient{}),
	)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if _, err := co.NewSession(t.Context()); err != nil {
		t.Fatalf("new session failed: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"backend": {"base_url": "http://example.test:9000"}, "store": {"backend": "sqlite", "path": "/tmp/loom.db"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}

	cfg, err := conversation.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://example.test:9000" {
		t.Errorf("base url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Store.Backend != store.BackendSQLite {
		t.Errorf("store backend = %q", cfg.Store.Backend)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := conversation.LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected an error for a missing config file")
	}
}
