package store_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"testing"

	"github.com/loomchat/loom/store"
)

// backends returns a fresh instance of every Store implementation, each
// rooted in its own temporary location.
func backends(t *testing.T) map[string]store.Store {
	t.Helper()

	sqlite, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}
	if closer, ok := sqlite.(io.Closer); ok {
		t.Cleanup(func() { closer.Close() })
	}

	return map[string]store.Store{
		"file":   store.NewFileStore(t.TempDir()),
		"sqlite": sqlite,
	}
}

func TestStore_SaveLoad(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := s.Save(ctx, store.Entry{Key: "sessions/current", Value: []byte("abc-123")})
			if err != nil {
				t.Fatalf("save failed: %v", err)
			}

			entries, err := s.Load(ctx, "sessions/current")
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if string(entries[0].Value) != "abc-123" {
				t.Errorf("got value %q, want %q", entries[0].Value, "abc-123")
			}
		})
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, v := range []string{"first", "second"} {
				if err := s.Save(ctx, store.Entry{Key: "k", Value: []byte(v)}); err != nil {
					t.Fatalf("save %q failed: %v", v, err)
				}
			}

			entries, err := s.Load(ctx, "k")
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			if string(entries[0].Value) != "second" {
				t.Errorf("got %q, want %q", entries[0].Value, "second")
			}
		})
	}
}

func TestStore_LoadMissingKey(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(context.Background(), "no/such/key")
			if !errors.Is(err, store.ErrKeyNotFound) {
				t.Errorf("got %v, want ErrKeyNotFound", err)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			keys, err := s.List(ctx)
			if err != nil {
				t.Fatalf("list on empty store failed: %v", err)
			}
			if len(keys) != 0 {
				t.Fatalf("empty store listed %d keys", len(keys))
			}

			want := []string{"sessions/current", "sessions/index"}
			for _, k := range want {
				if err := s.Save(ctx, store.Entry{Key: k, Value: []byte("x")}); err != nil {
					t.Fatalf("save %q failed: %v", k, err)
				}
			}

			keys, err = s.List(ctx)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			sort.Strings(keys)
			if len(keys) != len(want) {
				t.Fatalf("got %d keys, want %d", len(keys), len(want))
			}
			for i, k := range want {
				if keys[i] != k {
					t.Errorf("key %d: got %q, want %q", i, keys[i], k)
				}
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if err := s.Save(ctx, store.Entry{Key: "k", Value: []byte("v")}); err != nil {
				t.Fatalf("save failed: %v", err)
			}
			if err := s.Delete(ctx, "k"); err != nil {
				t.Fatalf("delete failed: %v", err)
			}
			if _, err := s.Load(ctx, "k"); !errors.Is(err, store.ErrKeyNotFound) {
				t.Errorf("got %v after delete, want ErrKeyNotFound", err)
			}

			// Deleting a missing key is not an error.
			if err := s.Delete(ctx, "k"); err != nil {
				t.Errorf("delete of missing key failed: %v", err)
			}
		})
	}
}

func TestConfig_New(t *testing.T) {
	tests := []struct {
		name    string
		cfg     store.Config
		wantErr bool
	}{
		{"file backend", store.Config{Backend: store.BackendFile, Path: t.TempDir()}, false},
		{"default backend", store.Config{Path: t.TempDir()}, false},
		{"sqlite backend", store.Config{Backend: store.BackendSQLite, Path: filepath.Join(t.TempDir(), "s.db")}, false},
		{"missing path", store.Config{Backend: store.BackendFile}, true},
		{"unknown backend", store.Config{Backend: "redis", Path: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := store.New(&tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s == nil {
				t.Error("got nil store")
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := store.DefaultConfig()
	cfg.Path = "/base"

	cfg.Merge(&store.Config{Backend: store.BackendSQLite})
	if cfg.Backend != store.BackendSQLite {
		t.Errorf("backend not merged: got %q", cfg.Backend)
	}
	if cfg.Path != "/base" {
		t.Errorf("path should be untouched by zero-value merge, got %q", cfg.Path)
	}
}
