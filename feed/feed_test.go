// path: feed/feed_test.go
package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

// fakeStore drives subscriptions by hand and tracks how many are active
// so teardown-before-resubscribe is observable.
type fakeStore struct {
	mu      sync.Mutex
	reports []models.Report
	input   chan store.Event
	active  int
	opened  int
}

func newFakeStore(reports ...models.Report) *fakeStore {
	return &fakeStore{reports: reports, input: make(chan store.Event, 16)}
}

func (f *fakeStore) Create(context.Context, models.Report) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeStore) UpdateStatus(context.Context, string, models.Status) error {
	return errors.New("not implemented")
}

func (f *fakeStore) ListOnce(_ context.Context, scope store.Scope) ([]models.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Report{}
	for _, r := range f.reports {
		if scope.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) Subscribe(ctx context.Context, scope store.Scope) (<-chan store.Event, error) {
	f.mu.Lock()
	f.active++
	f.opened++
	in := f.input
	f.mu.Unlock()

	out := make(chan store.Event)
	go func() {
		defer close(out)
		defer func() {
			f.mu.Lock()
			f.active--
			f.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-in:
				if ev.Type != store.EventError && !scope.Matches(ev.Report) {
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
				if ev.Type == store.EventError {
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *fakeStore) push(ev store.Event) { f.input <- ev }

func (f *fakeStore) activeSubs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeStore) openedSubs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened
}

func report(author string, createdAt time.Time) models.Report {
	return models.Report{
		ID:        primitive.NewObjectID(),
		Title:     "t",
		Status:    models.StatusPending,
		CreatedAt: createdAt,
		AuthorID:  author,
	}
}

// snapshotSink collects published snapshots.
type snapshotSink struct {
	ch chan []models.Report
}

func newSink() *snapshotSink {
	return &snapshotSink{ch: make(chan []models.Report, 16)}
}

func (s *snapshotSink) fn(rs []models.Report) { s.ch <- rs }

func (s *snapshotSink) next(t *testing.T) []models.Report {
	t.Helper()
	select {
	case rs := <-s.ch:
		return rs
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return nil
	}
}

func TestMineScopeOnlyEmitsOwnRecords(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	mine := report("u1", now.Add(-time.Minute))
	theirs := report("u2", now)
	st := newFakeStore(mine, theirs)
	sink := newSink()
	f := New(st, sink.fn)
	defer f.Stop()

	if err := f.Start(context.Background(), store.Mine("u1")); err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := sink.next(t)
	if len(snap) != 1 || snap[0].AuthorID != "u1" {
		t.Fatalf("mine snapshot = %+v, want only u1's records", snap)
	}

	// Another author's new record never reaches the mine scope...
	st.push(store.Event{Type: store.EventAdded, Report: report("u2", now.Add(time.Minute))})
	// ...but our own does.
	ours := report("u1", now.Add(2 * time.Minute))
	st.push(store.Event{Type: store.EventAdded, Report: ours})

	snap = sink.next(t)
	for _, r := range snap {
		if r.AuthorID != "u1" {
			t.Fatalf("mine scope leaked record from %q", r.AuthorID)
		}
	}
	if len(snap) != 2 || snap[0].ID != ours.ID {
		t.Fatalf("snapshot = %+v, want our new record first", snap)
	}

	// Widening to all includes other authors.
	if err := f.SetScope(context.Background(), store.All()); err != nil {
		t.Fatalf("SetScope: %v", err)
	}
	snap = sink.next(t)
	authors := map[string]bool{}
	for _, r := range snap {
		authors[r.AuthorID] = true
	}
	if !authors["u2"] {
		t.Fatalf("all scope should include other authors, got %+v", snap)
	}
}

func TestSnapshotsAreOrderedNewestFirst(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	st := newFakeStore(report("u1", now.Add(-2*time.Hour)), report("u1", now))
	sink := newSink()
	f := New(st, sink.fn)
	defer f.Stop()

	if err := f.Start(context.Background(), store.All()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	snap := sink.next(t)
	if !snap[0].CreatedAt.After(snap[1].CreatedAt) {
		t.Fatalf("initial snapshot not ordered newest first: %+v", snap)
	}

	// An older record arriving late still lands in order.
	st.push(store.Event{Type: store.EventAdded, Report: report("u1", now.Add(-time.Hour))})
	snap = sink.next(t)
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i := 1; i < len(snap); i++ {
		if snap[i].CreatedAt.After(snap[i-1].CreatedAt) {
			t.Fatalf("snapshot out of order at %d: %+v", i, snap)
		}
	}
}

func TestModifiedAndRemovedEvents(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	r := report("u1", now)
	st := newFakeStore(r)
	sink := newSink()
	f := New(st, sink.fn)
	defer f.Stop()

	if err := f.Start(context.Background(), store.All()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sink.next(t)

	changed := r
	changed.Status = models.StatusResolved
	st.push(store.Event{Type: store.EventModified, Report: changed})
	snap := sink.next(t)
	if len(snap) != 1 || snap[0].Status != models.StatusResolved {
		t.Fatalf("modified snapshot = %+v", snap)
	}

	st.push(store.Event{Type: store.EventRemoved, Report: models.Report{ID: r.ID}})
	snap = sink.next(t)
	if len(snap) != 0 {
		t.Fatalf("removed snapshot = %+v, want empty", snap)
	}
}

func TestScopeChangeTearsDownPreviousSubscription(t *testing.T) {
	t.Parallel()
	st := newFakeStore(report("u1", time.Now().UTC()))
	f := New(st, nil)
	defer f.Stop()

	if err := f.Start(context.Background(), store.All()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := st.activeSubs(); got != 1 {
		t.Fatalf("active subscriptions = %d, want 1", got)
	}

	if err := f.SetScope(context.Background(), store.Mine("u1")); err != nil {
		t.Fatalf("SetScope: %v", err)
	}
	// The old subscription is gone before the new one was opened, so at
	// no point were two active; and only one remains.
	if got := st.activeSubs(); got != 1 {
		t.Fatalf("active subscriptions after scope change = %d, want 1", got)
	}
	if got := st.openedSubs(); got != 2 {
		t.Fatalf("opened subscriptions = %d, want 2", got)
	}

	f.Stop()
	if got := st.activeSubs(); got != 0 {
		t.Fatalf("active subscriptions after Stop = %d, want 0", got)
	}
}

func TestErrorStateStopsUntilReload(t *testing.T) {
	t.Parallel()
	st := newFakeStore(report("u1", time.Now().UTC()))
	sink := newSink()
	f := New(st, sink.fn)
	defer f.Stop()

	if err := f.Start(context.Background(), store.All()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	sink.next(t)

	st.push(store.Event{Type: store.EventError, Err: errors.New("stream broke")})

	deadline := time.After(2 * time.Second)
	for f.Err() == "" {
		select {
		case <-deadline:
			t.Fatal("feed never entered the error state")
		case <-time.After(time.Millisecond):
		}
	}
	if f.Err() != "stream broke" {
		t.Fatalf("Err = %q, want the stream message", f.Err())
	}

	// No auto-retry: nothing new is opened on its own.
	opened := st.openedSubs()
	time.Sleep(20 * time.Millisecond)
	if st.openedSubs() != opened {
		t.Fatal("feed must not resubscribe without an explicit reload")
	}

	// Manual reload clears the error and resubscribes from scratch.
	if err := f.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if f.Err() != "" {
		t.Fatalf("Err after reload = %q, want cleared", f.Err())
	}
	if st.openedSubs() != opened+1 {
		t.Fatalf("opened = %d, want %d after reload", st.openedSubs(), opened+1)
	}
	sink.next(t)
}
