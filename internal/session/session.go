// Package session owns the ordered note list and reconciles asynchronous
// translation results into it.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/csheth/lingonotes/internal/notes"
	"github.com/csheth/lingonotes/internal/translator"
)

// DefaultTimeout bounds a single translation request.
const DefaultTimeout = 30 * time.Second

const persistTimeout = 5 * time.Second

// ErrNoTranslator is reported for requests made without a configured client.
var ErrNoTranslator = errors.New("session: no translation provider configured")

// Request is a translation job for one entry.
type Request struct {
	ID         string
	Text       string
	SourceLang string
	TargetLang string
}

func (r Request) translation() translator.Request {
	return translator.Request{Text: r.Text, SourceLang: r.SourceLang, TargetLang: r.TargetLang}
}

// Outcome is the result of a Request, delivered back to Reconcile.
type Outcome struct {
	ID     string
	Result translator.Result
	Err    error
}

// Options configures a Controller.
type Options struct {
	Logger  *zap.Logger
	Timeout time.Duration
	// NewID overrides id generation; tests use it for stable ids.
	NewID func() string
}

// Controller is the single owner of the note list. All mutators are safe for
// concurrent use; Translate never touches the list.
type Controller struct {
	mu       sync.Mutex
	entries  []notes.Entry
	inflight map[string]struct{}

	store   notes.Store
	client  translator.Client
	logger  *zap.Logger
	timeout time.Duration
	newID   func() string
}

// Open loads the stored history into a new controller. Load failures leave
// the list empty and are logged.
func Open(ctx context.Context, store notes.Store, client translator.Client, opts Options) *Controller {
	c := &Controller{
		inflight: map[string]struct{}{},
		store:    store,
		client:   client,
		logger:   opts.Logger,
		timeout:  opts.Timeout,
		newID:    opts.NewID,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if store == nil {
		return c
	}
	entries, err := store.Load(ctx)
	if err != nil {
		c.logger.Warn("history unreadable; starting empty", zap.Error(err))
		return c
	}
	c.entries = dedupe(entries)
	c.logger.Info("history loaded", zap.Int("entries", len(c.entries)))
	return c
}

// dedupe drops entries with an empty, repeated id or blank text.
func dedupe(entries []notes.Entry) []notes.Entry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]notes.Entry, 0, len(entries))
	for _, e := range entries {
		if e.ID == "" || strings.TrimSpace(e.Original) == "" {
			continue
		}
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// Submit appends a pending entry for raw and returns the request the caller
// must dispatch. Whitespace-only input is ignored.
func (c *Controller) Submit(raw, sourceLang, targetLang string) (Request, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Request{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.newID()
	for c.indexLocked(id) >= 0 {
		id = c.newID()
	}
	c.entries = append(c.entries, notes.Entry{
		ID:         id,
		Original:   text,
		Status:     notes.StatusPending,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	c.inflight[id] = struct{}{}
	c.persistLocked()
	return Request{ID: id, Text: text, SourceLang: sourceLang, TargetLang: targetLang}, true
}

// Translate runs req against the client with the configured timeout.
func (c *Controller) Translate(ctx context.Context, req Request) Outcome {
	if c.client == nil {
		return Outcome{ID: req.ID, Err: ErrNoTranslator}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	res, err := c.client.Translate(ctx, req.translation())
	fields := []zap.Field{
		zap.String("id", req.ID),
		zap.String("provider", c.client.Name()),
		zap.Duration("duration", time.Since(started)),
	}
	if err != nil {
		c.logger.Warn("translation failed", append(fields, zap.Error(err))...)
		return Outcome{ID: req.ID, Err: err}
	}
	c.logger.Debug("translation completed", append(fields, zap.Bool("untranslated", res.Untranslated))...)
	return Outcome{ID: req.ID, Result: res}
}

// Dispatch translates req on its own goroutine and hands the outcome to
// deliver.
func (c *Controller) Dispatch(ctx context.Context, req Request, deliver func(Outcome)) {
	go func() {
		deliver(c.Translate(ctx, req))
	}()
}

// Reconcile applies an outcome to its entry. It returns false, changing
// nothing, when the entry was deleted meanwhile or is no longer pending.
func (c *Controller) Reconcile(out Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inflight, out.ID)
	idx := c.indexLocked(out.ID)
	if idx < 0 {
		c.logger.Debug("dropping outcome for removed entry", zap.String("id", out.ID))
		return false
	}
	entry := &c.entries[idx]
	if entry.Status != notes.StatusPending {
		return false
	}
	if out.Err != nil {
		entry.Translation = notes.ErrorSentinel
		entry.Status = notes.StatusFailed
		entry.Untranslated = false
	} else {
		entry.Translation = out.Result.Text
		entry.Status = notes.StatusCompleted
		entry.Untranslated = out.Result.Untranslated
	}
	c.persistLocked()
	return true
}

// Remove deletes the entry with id. Unknown ids are a no-op.
func (c *Controller) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 {
		return false
	}
	c.entries = append(c.entries[:idx:idx], c.entries[idx+1:]...)
	delete(c.inflight, id)
	c.persistLocked()
	return true
}

// Clear removes every entry and returns how many were dropped. Outstanding
// requests reconcile as no-ops.
func (c *Controller) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = nil
	c.inflight = map[string]struct{}{}
	c.persistLocked()
	return n
}

// Retry re-queues a failed entry. Only failed entries qualify. The entry's
// own language pair wins; sourceLang and targetLang fill in for entries
// stored without one.
func (c *Controller) Retry(id, sourceLang, targetLang string) (Request, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexLocked(id)
	if idx < 0 || c.entries[idx].Status != notes.StatusFailed {
		return Request{}, false
	}
	entry := &c.entries[idx]
	entry.Status = notes.StatusPending
	entry.Translation = ""
	entry.Untranslated = false
	c.inflight[id] = struct{}{}
	c.persistLocked()
	return requestFor(*entry, sourceLang, targetLang), true
}

// Resume returns a request for every pending entry with nothing in flight,
// which happens when a history is loaded after the process that submitted
// the entries exited. Language fallbacks work as in Retry.
func (c *Controller) Resume(sourceLang, targetLang string) []Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	var reqs []Request
	for _, e := range c.entries {
		if e.Status != notes.StatusPending {
			continue
		}
		if _, busy := c.inflight[e.ID]; busy {
			continue
		}
		c.inflight[e.ID] = struct{}{}
		reqs = append(reqs, requestFor(e, sourceLang, targetLang))
	}
	return reqs
}

func requestFor(e notes.Entry, sourceLang, targetLang string) Request {
	if e.SourceLang != "" || e.TargetLang != "" {
		sourceLang, targetLang = e.SourceLang, e.TargetLang
	}
	return Request{ID: e.ID, Text: e.Original, SourceLang: sourceLang, TargetLang: targetLang}
}

// Snapshot returns a copy of the list in insertion order.
func (c *Controller) Snapshot() []notes.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return notes.Clone(c.entries)
}

// Get returns the entry with id.
func (c *Controller) Get(id string) (notes.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexLocked(id); idx >= 0 {
		return c.entries[idx], true
	}
	return notes.Entry{}, false
}

// Len reports the number of entries.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// InFlight reports how many requests are outstanding.
func (c *Controller) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

// Provider names the configured translation client, or "" when none is set.
func (c *Controller) Provider() string {
	if c.client == nil {
		return ""
	}
	return c.client.Name()
}

func (c *Controller) indexLocked(id string) int {
	for i := range c.entries {
		if c.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// persistLocked mirrors the list to the store. Failures are logged and
// otherwise ignored.
func (c *Controller) persistLocked() {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := c.store.Save(ctx, notes.Clone(c.entries)); err != nil {
		c.logger.Error("persist history failed", zap.Error(err), zap.Int("entries", len(c.entries)))
	}
}
