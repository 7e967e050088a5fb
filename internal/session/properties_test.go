package session

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/csheth/lingonotes/internal/notes"
)

func TestSubmitProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := Open(context.Background(), &memStore{}, nil, Options{NewID: sequentialIDs()})
		prefill := rapid.IntRange(0, 5).Draw(t, "prefill")
		for i := 0; i < prefill; i++ {
			c.Submit(rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "word"), "German", "English")
		}
		before := c.Snapshot()

		raw := rapid.String().Draw(t, "raw")
		req, ok := c.Submit(raw, "German", "English")
		after := c.Snapshot()

		if strings.TrimSpace(raw) == "" {
			if ok || len(after) != len(before) {
				t.Fatalf("whitespace input %q mutated the list", raw)
			}
			return
		}
		if !ok || len(after) != len(before)+1 {
			t.Fatalf("expected exactly one new entry for %q", raw)
		}
		last := after[len(after)-1]
		if last.ID != req.ID || last.Status != notes.StatusPending || last.Translation != "" {
			t.Fatalf("unexpected appended entry %#v", last)
		}
		if last.Original != strings.TrimSpace(raw) {
			t.Fatalf("original not trimmed: %q", last.Original)
		}
	})
}

func TestRemoveIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := Open(context.Background(), &memStore{}, nil, Options{NewID: sequentialIDs()})
		n := rapid.IntRange(1, 8).Draw(t, "n")
		var ids []string
		for i := 0; i < n; i++ {
			req, _ := c.Submit(rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "word"), "German", "English")
			ids = append(ids, req.ID)
		}
		target := rapid.SampledFrom(ids).Draw(t, "target")
		c.Remove(target)
		once := c.Snapshot()
		c.Remove(target)
		twice := c.Snapshot()
		if len(once) != len(twice) {
			t.Fatalf("second remove changed the list: %d vs %d", len(once), len(twice))
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Fatalf("second remove changed entry %d", i)
			}
		}
	})
}

func TestStoreRoundTripProperty(t *testing.T) {
	dir := t.TempDir()
	statuses := []notes.Status{notes.StatusPending, notes.StatusCompleted, notes.StatusFailed}
	run := 0
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 10).Draw(rt, "n")
		entries := make([]notes.Entry, 0, n)
		for i := 0; i < n; i++ {
			status := rapid.SampledFrom(statuses).Draw(rt, "status")
			e := notes.Entry{
				ID:       fmt.Sprintf("%s-%d", rapid.StringMatching(`[a-f0-9]{8}`).Draw(rt, "id"), i),
				Original: rapid.StringMatching(`[\p{L}\p{N} ]{0,20}[\p{L}]`).Draw(rt, "original"),
				Status:   status,
			}
			if rapid.Bool().Draw(rt, "hasLanguages") {
				e.SourceLang = rapid.SampledFrom([]string{"German", "French", "Japanese"}).Draw(rt, "source")
				e.TargetLang = rapid.SampledFrom([]string{"English", "Spanish"}).Draw(rt, "target")
			}
			switch status {
			case notes.StatusCompleted:
				e.Translation = rapid.StringMatching(`[\p{L}\p{N} ]{0,20}[\p{L}]`).Draw(rt, "translation")
				e.Untranslated = rapid.Bool().Draw(rt, "untranslated")
			case notes.StatusFailed:
				e.Translation = notes.ErrorSentinel
			}
			entries = append(entries, e)
		}

		run++
		store := notes.NewFileStore(filepath.Join(dir, fmt.Sprintf("history-%d.json", run)))
		ctx := context.Background()
		if err := store.Save(ctx, entries); err != nil {
			rt.Fatalf("save error = %v", err)
		}
		got, err := store.Load(ctx)
		if err != nil {
			rt.Fatalf("load error = %v", err)
		}
		if len(got) != len(entries) {
			rt.Fatalf("expected %d entries, got %d", len(entries), len(got))
		}
		for i := range entries {
			if got[i] != entries[i] {
				rt.Fatalf("entry %d mismatch:\nwant %#v\ngot  %#v", i, entries[i], got[i])
			}
		}
	})
}
