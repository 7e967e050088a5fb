package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorSentinel is the translation text stored on entries whose request failed.
const ErrorSentinel = "Error translating"

// Status tracks where an entry is in its translation lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// Entry is one submitted line and its translation.
type Entry struct {
	ID           string
	Original     string
	Translation  string
	Status       Status
	Untranslated bool
	// SourceLang and TargetLang record the pair the entry was submitted
	// with. Histories from older builds leave them empty.
	SourceLang string
	TargetLang string
}

// Pending reports whether a translation request is outstanding for the entry.
func (e Entry) Pending() bool {
	return e.Status == StatusPending
}

// DisplayTranslation renders the translation cell used by listings and exports.
func (e Entry) DisplayTranslation() string {
	text := strings.TrimSpace(e.Translation)
	if text == "" {
		return "..."
	}
	if e.Untranslated {
		return text + " (untranslated)"
	}
	return text
}

// ErrCorrupt is returned by a store whose persisted payload cannot be decoded.
var ErrCorrupt = errors.New("notes: stored history is corrupt")

// Store persists the full ordered note list. Every Save replaces the previous
// snapshot; Load returns entries in insertion order.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
	Close() error
}

// Clone returns a copy of entries that shares no backing array with the input.
func Clone(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	return append([]Entry(nil), entries...)
}

// Backends understood by OpenStore.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// OpenStore builds the store for the named backend.
func OpenStore(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewFileStore(path), nil
	case BackendSQLite:
		store, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("notes: unknown store backend %q", backend)
	}
}
