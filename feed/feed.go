// path: feed/feed.go

// Package feed maintains a standing subscription to the report collection
// and republishes a full ordered snapshot on every change.
package feed

import (
	"context"
	"sort"
	"sync"

	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

// Feed owns at most one live subscription at a time. Changing scope or
// reloading tears the previous subscription down before a new one is
// established.
type Feed struct {
	reports    store.Reports
	onSnapshot func([]models.Report)

	// lifeMu serializes Start/Stop so two subscriptions can never be
	// concurrently active for the same feed.
	lifeMu sync.Mutex

	mu      sync.Mutex
	scope   store.Scope
	cancel  context.CancelFunc
	done    chan struct{}
	records []models.Report
	errMsg  string
}

// New builds a feed. onSnapshot receives the full ordered list on every
// underlying change; consumers treat each emission as authoritative and
// total. It may be nil.
func New(reports store.Reports, onSnapshot func([]models.Report)) *Feed {
	return &Feed{reports: reports, onSnapshot: onSnapshot}
}

// Start subscribes with the given scope, replacing any active
// subscription. The initial snapshot is published before change events
// are consumed.
func (f *Feed) Start(ctx context.Context, scope store.Scope) error {
	f.lifeMu.Lock()
	defer f.lifeMu.Unlock()
	f.stopLocked()

	sctx, cancel := context.WithCancel(ctx)

	// Subscribe before the initial read so no change can fall between
	// them; duplicates are collapsed by id when events are applied.
	events, err := f.reports.Subscribe(sctx, scope)
	if err != nil {
		cancel()
		f.setError(err)
		return err
	}
	snapshot, err := f.reports.ListOnce(sctx, scope)
	if err != nil {
		cancel()
		f.setError(err)
		return err
	}
	sortReports(snapshot)

	done := make(chan struct{})
	f.mu.Lock()
	f.scope = scope
	f.cancel = cancel
	f.done = done
	f.records = snapshot
	f.errMsg = ""
	f.mu.Unlock()

	f.publish()
	go f.consume(events, done)
	return nil
}

// SetScope switches between "all" and "mine", resubscribing from scratch.
func (f *Feed) SetScope(ctx context.Context, scope store.Scope) error {
	return f.Start(ctx, scope)
}

// Reload re-invokes subscription setup with the current scope. This is
// the manual recovery path after an error state; the feed never retries
// on its own.
func (f *Feed) Reload(ctx context.Context) error {
	f.mu.Lock()
	scope := f.scope
	f.mu.Unlock()
	return f.Start(ctx, scope)
}

// Stop cancels the active subscription and waits for its consumer to
// exit.
func (f *Feed) Stop() {
	f.lifeMu.Lock()
	defer f.lifeMu.Unlock()
	f.stopLocked()
}

func (f *Feed) stopLocked() {
	f.mu.Lock()
	cancel, done := f.cancel, f.done
	f.cancel, f.done = nil, nil
	f.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Snapshot returns a copy of the current ordered list.
func (f *Feed) Snapshot() []models.Report {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Report, len(f.records))
	copy(out, f.records)
	return out
}

// Err returns the human-readable subscription error, or "" when healthy.
func (f *Feed) Err() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

func (f *Feed) Scope() store.Scope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scope
}

func (f *Feed) setError(err error) {
	f.mu.Lock()
	f.errMsg = err.Error()
	f.mu.Unlock()
}

func (f *Feed) consume(events <-chan store.Event, done chan struct{}) {
	defer close(done)
	for ev := range events {
		if ev.Type == store.EventError {
			f.setError(ev.Err)
			return
		}
		f.apply(ev)
		f.publish()
	}
}

func (f *Feed) apply(ev store.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch ev.Type {
	case store.EventAdded, store.EventModified:
		replaced := false
		for i := range f.records {
			if f.records[i].ID == ev.Report.ID {
				f.records[i] = ev.Report
				replaced = true
				break
			}
		}
		if !replaced {
			f.records = append(f.records, ev.Report)
		}
	case store.EventRemoved:
		for i := range f.records {
			if f.records[i].ID == ev.Report.ID {
				f.records = append(f.records[:i], f.records[i+1:]...)
				break
			}
		}
	}
	sortReports(f.records)
}

func (f *Feed) publish() {
	if f.onSnapshot == nil {
		return
	}
	f.onSnapshot(f.Snapshot())
}

// sortReports orders by created_at descending, newest first; id breaks
// ties so the order is stable across emissions.
func sortReports(rs []models.Report) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		}
		return rs[i].ID.Hex() > rs[j].ID.Hex()
	})
}
