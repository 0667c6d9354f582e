// Package session manages the persisted directory of known conversation
// threads and the pointer to the currently active one. Both live in the
// local state store under fixed keys and degrade to empty/absent when the
// stored data is missing or corrupt.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/loomchat/loom/store"
)

// Storage keys for the two persisted blobs.
const (
	indexKey   = "sessions/index"
	currentKey = "sessions/current"
)

// PreviewLimit is the maximum preview length in runes.
const PreviewLimit = 50

// DefaultPreview is the placeholder shown for sessions that have not had a
// first exchange yet.
const DefaultPreview = "New conversation"

// Metadata describes one known session in the directory.
type Metadata struct {
	ID          string    `json:"id"`
	Preview     string    `json:"preview"`
	LastTouched time.Time `json:"lastTouched"`
}

// Directory is the persisted mapping from session id to metadata. New
// entries are inserted at the front; ids are unique. Every mutation
// persists the full snapshot.
type Directory struct {
	store store.Store
	mu    sync.Mutex
	now   func() time.Time
}

// NewDirectory creates a Directory backed by the given store.
func NewDirectory(s store.Store) *Directory {
	return &Directory{store: s, now: time.Now}
}

// List returns the directory entries in stored order. It never fails:
// a missing or corrupt snapshot yields an empty list.
func (d *Directory) List(ctx context.Context) []Metadata {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load(ctx)
}

// Touch registers activity on a session. An unknown id is inserted at the
// front with the given preview (or DefaultPreview when empty) and
// LastTouched set to now. A known id has its preview and LastTouched
// updated only when preview is non-empty and differs from the stored value;
// otherwise the call is a no-op, so passive re-visits never churn
// timestamps.
func (d *Directory) Touch(ctx context.Context, id, preview string) error {
	if id == "" {
		return fmt.Errorf("session id is required")
	}

	// Truncate before comparing so a long preview that truncates to the
	// stored value still counts as unchanged.
	preview = TruncatePreview(preview)

	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.load(ctx)

	for i := range entries {
		if entries[i].ID != id {
			continue
		}
		if preview == "" || entries[i].Preview == preview {
			return nil
		}
		entries[i].Preview = preview
		entries[i].LastTouched = d.now()
		return d.save(ctx, entries)
	}

	if preview == "" {
		preview = DefaultPreview
	}
	entry := Metadata{
		ID:          id,
		Preview:     preview,
		LastTouched: d.now(),
	}
	entries = append([]Metadata{entry}, entries...)
	return d.save(ctx, entries)
}

// load reads the persisted snapshot under the directory's lock. Any load or
// decode failure is treated as an empty directory.
func (d *Directory) load(ctx context.Context) []Metadata {
	entries, err := d.store.Load(ctx, indexKey)
	if err != nil {
		return nil
	}

	var list []Metadata
	if err := json.Unmarshal(entries[0].Value, &list); err != nil {
		return nil
	}
	return list
}

func (d *Directory) save(ctx context.Context, list []Metadata) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode session index: %w", err)
	}
	if err := d.store.Save(ctx, store.Entry{Key: indexKey, Value: data}); err != nil {
		return fmt.Errorf("failed to persist session index: %w", err)
	}
	return nil
}

// TruncatePreview caps s at PreviewLimit runes.
func TruncatePreview(s string) string {
	runes := []rune(s)
	if len(runes) <= PreviewLimit {
		return s
	}
	return string(runes[:PreviewLimit])
}
