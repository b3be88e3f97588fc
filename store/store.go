// path: store/store.go

// Package store wraps the remote document collections behind narrow
// interfaces so the feed, submission, and dashboard code never touch the
// driver directly. Malformed documents are rejected or coerced here,
// before they reach aggregation logic.
package store

import (
	"context"
	"errors"

	"github.com/PaoloBrandonE/Denuncia-app/models"
)

var (
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrEmailTaken        = errors.New("email already registered")
)

// Scope filters a listing or subscription. The zero value means "all
// reports"; Mine narrows to a single author.
type Scope struct {
	AuthorID string
}

func All() Scope                 { return Scope{} }
func Mine(authorID string) Scope { return Scope{AuthorID: authorID} }

func (s Scope) IsMine() bool { return s.AuthorID != "" }

// Matches reports whether a record falls inside the scope.
func (s Scope) Matches(r models.Report) bool {
	return s.AuthorID == "" || r.AuthorID == s.AuthorID
}

// EventType classifies a live subscription event.
type EventType int

const (
	EventAdded EventType = iota
	EventModified
	EventRemoved
	// EventError is terminal: the subscription delivers it once and the
	// channel closes.
	EventError
)

func (t EventType) String() string {
	switch t {
	case EventAdded:
		return "added"
	case EventModified:
		return "modified"
	case EventRemoved:
		return "removed"
	default:
		return "error"
	}
}

// Event is one change observed by a live subscription. For EventRemoved
// only Report.ID is guaranteed to be populated.
type Event struct {
	Type   EventType
	Report models.Report
	Err    error
}

// Reports is the report store adapter. Every create and update made
// through it is eventually observed by all active subscriptions; no
// ordering beyond the provider's own consistency model is synthesized.
type Reports interface {
	// Create persists a new record and returns its assigned id. The
	// caller must be authenticated (non-empty author), otherwise
	// ErrPermissionDenied.
	Create(ctx context.Context, r models.Report) (string, error)

	// UpdateStatus partially updates exactly the status and the update
	// timestamp. Illegal edges are rejected with ErrInvalidTransition,
	// unknown ids with ErrNotFound.
	UpdateStatus(ctx context.Context, id string, next models.Status) error

	// ListOnce is a point-in-time read ordered by created_at descending.
	ListOnce(ctx context.Context, scope Scope) ([]models.Report, error)

	// Subscribe opens a live subscription. The channel closes when ctx is
	// cancelled or after a terminal EventError.
	Subscribe(ctx context.Context, scope Scope) (<-chan Event, error)
}

// Users persists account documents keyed by auth identity.
type Users interface {
	CreateUser(ctx context.Context, u models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}
