package session

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/loomchat/loom/store"
)

// Pointer is the persisted identifier of the currently active session.
// It outlives any single conversation and survives restarts.
type Pointer struct {
	store store.Store
}

// NewPointer creates a Pointer backed by the given store.
func NewPointer(s store.Store) *Pointer {
	return &Pointer{store: s}
}

// Current returns the active session id, or "" when no session has been
// chosen yet or the stored value is unusable.
func (p *Pointer) Current(ctx context.Context) string {
	entries, err := p.store.Load(ctx, currentKey)
	if err != nil {
		return ""
	}
	id := string(entries[0].Value)
	if !utf8.ValidString(id) {
		return ""
	}
	return id
}

// SetCurrent persists id as the active session.
func (p *Pointer) SetCurrent(ctx context.Context, id string) error {
	if err := p.store.Save(ctx, store.Entry{Key: currentKey, Value: []byte(id)}); err != nil {
		return fmt.Errorf("failed to persist current session: %w", err)
	}
	return nil
}

// CreateNew generates a fresh globally-unique session id, sets it as
// current, and registers it in the directory with the default preview.
// UUIDv7 collision probability is treated as negligible; the id is not
// checked against existing directory entries.
func (p *Pointer) CreateNew(ctx context.Context, dir *Directory) (string, error) {
	id := uuid.Must(uuid.NewV7()).String()

	if err := p.SetCurrent(ctx, id); err != nil {
		return "", err
	}
	if err := dir.Touch(ctx, id, ""); err != nil {
		return "", fmt.Errorf("failed to register new session: %w", err)
	}
	return id, nil
}
