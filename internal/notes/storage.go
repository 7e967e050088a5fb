package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is the slot name used when no path is configured.
const DefaultFileName = "lingonotes-history.json"

// record is the on-disk shape of an entry. isTranslating mirrors the pending
// state so histories written by older builds without a status still load.
type record struct {
	ID            string `json:"id"`
	Original      string `json:"original"`
	Translation   string `json:"translation"`
	IsTranslating bool   `json:"isTranslating"`
	Status        Status `json:"status,omitempty"`
	Untranslated  bool   `json:"untranslated,omitempty"`
	SourceLang    string `json:"sourceLang,omitempty"`
	TargetLang    string `json:"targetLang,omitempty"`
}

func toRecord(e Entry) record {
	return record{
		ID:            e.ID,
		Original:      e.Original,
		Translation:   e.Translation,
		IsTranslating: e.Status == StatusPending,
		Status:        e.Status,
		Untranslated:  e.Untranslated,
		SourceLang:    e.SourceLang,
		TargetLang:    e.TargetLang,
	}
}

func (r record) entry() Entry {
	status := r.Status
	if !status.Valid() {
		switch {
		case r.IsTranslating:
			status = StatusPending
		case r.Translation == ErrorSentinel:
			status = StatusFailed
		default:
			status = StatusCompleted
		}
	}
	return Entry{
		ID:           r.ID,
		Original:     r.Original,
		Translation:  r.Translation,
		Status:       status,
		Untranslated: r.Untranslated,
		SourceLang:   r.SourceLang,
		TargetLang:   r.TargetLang,
	}
}

// FileStore keeps the history as a single JSON array on disk.
type FileStore struct {
	path string
}

// NewFileStore returns a store writing to path. The parent directory is
// created on first save.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFileName
	}
	return &FileStore{path: path}
}

// Path reports the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored entries. A missing or empty file yields an empty
// list; an undecodable one yields ErrCorrupt.
func (s *FileStore) Load(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := loadRecords(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

// Save replaces the stored history with entries.
func (s *FileStore) Save(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	records := make([]record, 0, len(entries))
	for _, e := range entries {
		records = append(records, toRecord(e))
	}
	return writeRecords(s.path, records)
}

// Close is a no-op; the file is opened per operation.
func (s *FileStore) Close() error {
	return nil
}

func writeRecords(path string, records []record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func loadRecords(path string) ([]record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return records, nil
}
