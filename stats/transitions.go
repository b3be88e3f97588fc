// path: stats/transitions.go
package stats

import (
	"context"
	"errors"
	"sync"

	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

// Action names a status-transition a dashboard can offer.
type Action string

const (
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionMarkInProgress Action = "mark_in_progress"
	ActionResolve        Action = "resolve"
)

// rule binds an action to the role allowed to take it, the statuses it
// can be taken from, and the status it produces.
type rule struct {
	action  Action
	role    models.Role
	sources []models.Status
	target  models.Status
}

var rules = []rule{
	{ActionApprove, models.RoleAdmin, []models.Status{models.StatusPending}, models.StatusApproved},
	{ActionReject, models.RoleAdmin, []models.Status{models.StatusPending}, models.StatusRejected},
	{ActionMarkInProgress, models.RoleAuthority, []models.Status{models.StatusPending}, models.StatusInProgress},
	{ActionResolve, models.RoleAuthority, []models.Status{models.StatusPending, models.StatusInProgress}, models.StatusResolved},
}

// ActionsFor lists the actions offered to a role for a report in the
// given status. A status that is not a valid source for an action simply
// omits it.
func ActionsFor(role models.Role, status models.Status) []Action {
	var out []Action
	for _, r := range rules {
		if r.role != role {
			continue
		}
		for _, src := range r.sources {
			if src == status {
				out = append(out, r.action)
				break
			}
		}
	}
	return out
}

var (
	ErrActionNotAllowed = errors.New("action not allowed for this role")
	// ErrUpdateInFlight suppresses a repeat transition while one is
	// already pending for the same report.
	ErrUpdateInFlight = errors.New("an update for this report is already in flight")
	ErrUnknownAction  = errors.New("unknown action")
)

// Transitioner serializes status transitions per report id: while one is
// in flight that id is marked updating and further requests for it are
// suppressed without reaching the store.
type Transitioner struct {
	reports store.Reports

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewTransitioner(reports store.Reports) *Transitioner {
	return &Transitioner{reports: reports, inFlight: map[string]bool{}}
}

// Updating reports whether a transition for the id is currently pending;
// dashboards disable the report's action buttons while it is.
func (t *Transitioner) Updating(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight[id]
}

func (t *Transitioner) Approve(ctx context.Context, actor models.User, id string) error {
	return t.apply(ctx, actor, ActionApprove, id)
}

func (t *Transitioner) Reject(ctx context.Context, actor models.User, id string) error {
	return t.apply(ctx, actor, ActionReject, id)
}

func (t *Transitioner) MarkInProgress(ctx context.Context, actor models.User, id string) error {
	return t.apply(ctx, actor, ActionMarkInProgress, id)
}

func (t *Transitioner) Resolve(ctx context.Context, actor models.User, id string) error {
	return t.apply(ctx, actor, ActionResolve, id)
}

func (t *Transitioner) apply(ctx context.Context, actor models.User, action Action, id string) error {
	var target models.Status
	found := false
	for _, r := range rules {
		if r.action != action {
			continue
		}
		found = true
		if r.role == actor.Role {
			target = r.target
			break
		}
	}
	if !found {
		return ErrUnknownAction
	}
	if target == "" {
		return ErrActionNotAllowed
	}

	t.mu.Lock()
	if t.inFlight[id] {
		t.mu.Unlock()
		return ErrUpdateInFlight
	}
	t.inFlight[id] = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.inFlight, id)
		t.mu.Unlock()
	}()

	// The store validates the status edge itself, so a stale snapshot
	// here cannot push a report across an illegal transition.
	return t.reports.UpdateStatus(ctx, id, target)
}
