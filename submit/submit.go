// path: submit/submit.go

// Package submit drives the report submission workflow:
// idle -> validating -> submitting -> done | failed.
package submit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PaoloBrandonE/Denuncia-app/geo"
	"github.com/PaoloBrandonE/Denuncia-app/media"
	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateDone:
		return "done"
	default:
		return "failed"
	}
}

// FieldError blocks a submission before any store call is made.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

var (
	// ErrInFlight rejects a re-submission while a create call is pending;
	// there is no queuing.
	ErrInFlight         = errors.New("a submission is already in flight")
	ErrNotAuthenticated = errors.New("sign in to submit a report")
)

// Form holds one submission's input state. On success the input is
// cleared; on failure it is preserved for retry.
type Form struct {
	reports store.Reports

	mu          sync.Mutex
	state       State
	lastErr     string
	title       string
	description string
	category    models.Category
	imageInline string
	imageURL    string
	location    *geo.Point
}

func NewForm(reports store.Reports) *Form {
	return &Form{reports: reports, category: models.DefaultCategory}
}

func (f *Form) SetTitle(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = s
}

func (f *Form) SetDescription(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.description = s
}

func (f *Form) SetCategory(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.category = models.ParseCategory(s)
}

// AttachImage validates and inline-encodes a photo. A media error leaves
// the rest of the form untouched.
func (f *Form) AttachImage(mimeType string, data []byte) error {
	encoded, err := media.EncodeImage(mimeType, data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageInline = encoded
	return nil
}

// AttachImageURL records an externally hosted photo.
func (f *Form) AttachImageURL(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageURL = url
}

func (f *Form) ClearImage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageInline = ""
	f.imageURL = ""
}

func (f *Form) UseLocation(p geo.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.location = &p
}

func (f *Form) ClearLocation() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.location = nil
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError is the verbatim message of the most recent failure.
func (f *Form) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Submit validates the form and issues exactly one create call. Repeat
// calls while that call is pending return ErrInFlight. On success the
// created record, with its assigned id, is returned so the caller can
// insert it locally ahead of the live feed.
func (f *Form) Submit(ctx context.Context, author models.User) (models.Report, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return models.Report{}, ErrInFlight
	}
	f.state = StateValidating

	if strings.TrimSpace(f.title) == "" {
		f.state = StateIdle
		f.mu.Unlock()
		return models.Report{}, &FieldError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(f.description) == "" {
		f.state = StateIdle
		f.mu.Unlock()
		return models.Report{}, &FieldError{Field: "description", Message: "description is required"}
	}
	if strings.TrimSpace(author.ID) == "" {
		f.state = StateIdle
		f.mu.Unlock()
		return models.Report{}, ErrNotAuthenticated
	}

	r := models.Report{
		Title:       strings.TrimSpace(f.title),
		Description: strings.TrimSpace(f.description),
		Category:    f.category,
		ImageInline: f.imageInline,
		ImageURL:    f.imageURL,
		Location:    models.NoLocation,
		Status:      models.StatusPending,
		AuthorID:    author.ID,
		AuthorLabel: author.Label(),
	}
	if f.location != nil {
		lat, lng := f.location.Lat, f.location.Lng
		r.Lat, r.Lng = &lat, &lng
		r.Location = geo.AreaLabel(*f.location)
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	id, err := f.reports.Create(ctx, r)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateFailed
		f.lastErr = err.Error()
		return models.Report{}, err
	}

	if oid, perr := primitive.ObjectIDFromHex(id); perr == nil {
		r.ID = oid
	}
	r.CreatedAt = time.Now().UTC()

	f.title = ""
	f.description = ""
	f.category = models.DefaultCategory
	f.imageInline = ""
	f.imageURL = ""
	f.location = nil
	f.lastErr = ""
	f.state = StateDone
	return r, nil
}
