// path: store/mongo.go
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PaoloBrandonE/Denuncia-app/database"
	"github.com/PaoloBrandonE/Denuncia-app/models"
)

const opTimeout = 8 * time.Second

// Mongo implements Reports and Users over the connected database.
type Mongo struct{}

func NewMongo() *Mongo { return &Mongo{} }

func (m *Mongo) reports() *mongo.Collection { return database.Col("reports") }
func (m *Mongo) users() *mongo.Collection   { return database.Col("users") }

func (m *Mongo) Create(ctx context.Context, r models.Report) (string, error) {
	if strings.TrimSpace(r.AuthorID) == "" {
		return "", ErrPermissionDenied
	}

	// Server-assigned fields; the caller's values are ignored.
	r.ID = primitive.NilObjectID
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = nil
	r.Status = models.StatusPending
	r.Category = models.ParseCategory(string(r.Category))
	if strings.TrimSpace(r.Location) == "" {
		r.Location = models.NoLocation
	}

	octx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	res, err := m.reports().InsertOne(octx, r)
	if err != nil {
		return "", storeErr("insert report", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert report: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *Mongo) UpdateStatus(ctx context.Context, id string, next models.Status) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	octx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var current struct {
		Status string `bson:"status"`
	}
	err = m.reports().FindOne(octx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"status": 1})).Decode(&current)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("read report status", err)
	}

	from := models.ParseStatus(current.Status)
	if !models.CanTransition(from, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}

	res, err := m.reports().UpdateOne(octx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"status": next, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return storeErr("update report status", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) ListOnce(ctx context.Context, scope Scope) ([]models.Report, error) {
	filter := bson.M{}
	if scope.IsMine() {
		filter["author_id"] = scope.AuthorID
	}
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	octx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	cur, err := m.reports().Find(octx, filter, findOpts)
	if err != nil {
		return nil, storeErr("list reports", err)
	}
	defer cur.Close(octx)

	out := []models.Report{}
	for cur.Next(octx) {
		r, err := decodeReport(cur.Current)
		if err != nil {
			// Coercion failed outright: drop the document rather than
			// feeding a malformed record to aggregation.
			log.Printf("store: skipping malformed report: %v", err)
			continue
		}
		out = append(out, r)
	}
	if err := cur.Err(); err != nil {
		return nil, storeErr("list reports", err)
	}
	return out, nil
}

// changeEvent is the slice of a change-stream document we care about.
type changeEvent struct {
	OperationType string   `bson:"operationType"`
	FullDocument  bson.Raw `bson:"fullDocument"`
	DocumentKey   struct {
		ID primitive.ObjectID `bson:"_id"`
	} `bson:"documentKey"`
}

func (m *Mongo) Subscribe(ctx context.Context, scope Scope) (<-chan Event, error) {
	pipeline := mongo.Pipeline{bson.D{{Key: "$match", Value: bson.D{
		{Key: "operationType", Value: bson.D{
			{Key: "$in", Value: bson.A{"insert", "update", "replace", "delete"}},
		}},
	}}}}
	cs, err := m.reports().Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		return nil, storeErr("watch reports", err)
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		defer cs.Close(context.Background())
		for cs.Next(ctx) {
			var ce changeEvent
			if err := cs.Decode(&ce); err != nil {
				emit(ctx, out, Event{Type: EventError, Err: fmt.Errorf("decode change: %w", err)})
				return
			}
			ev, ok := toEvent(ce, scope)
			if !ok {
				continue
			}
			if !emit(ctx, out, ev) {
				return
			}
		}
		if err := cs.Err(); err != nil && !errors.Is(err, context.Canceled) {
			emit(ctx, out, Event{Type: EventError, Err: storeErr("change stream", err)})
		}
	}()
	return out, nil
}

func emit(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func toEvent(ce changeEvent, scope Scope) (Event, bool) {
	if ce.OperationType == "delete" {
		// No document body on deletes; consumers drop ids they don't hold.
		return Event{Type: EventRemoved, Report: models.Report{ID: ce.DocumentKey.ID}}, true
	}
	if len(ce.FullDocument) == 0 {
		// The looked-up document can be gone by the time an update event
		// arrives; the matching delete follows.
		return Event{}, false
	}
	r, err := decodeReport(ce.FullDocument)
	if err != nil {
		log.Printf("store: skipping malformed change document: %v", err)
		return Event{}, false
	}
	if !scope.Matches(r) {
		return Event{}, false
	}
	t := EventModified
	if ce.OperationType == "insert" {
		t = EventAdded
	}
	return Event{Type: t, Report: r}, true
}

// rawReport tolerates the loose shapes remote writers have used for
// coordinates and enums; decodeReport is the strict boundary that turns it
// into a models.Report.
type rawReport struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	ImageInline string             `bson:"image_inline"`
	ImageURL    string             `bson:"image_url"`
	Location    any                `bson:"location"`
	Lat         any                `bson:"lat"`
	Lng         any                `bson:"lng"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at"`
	AuthorID    string             `bson:"author_id"`
	AuthorLabel string             `bson:"author_label"`
}

func decodeReport(raw bson.Raw) (models.Report, error) {
	var d rawReport
	if err := bson.Unmarshal(raw, &d); err != nil {
		return models.Report{}, fmt.Errorf("decode report: %w", err)
	}
	if d.AuthorID == "" {
		return models.Report{}, fmt.Errorf("decode report %s: missing author_id", d.ID.Hex())
	}

	r := models.Report{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Category:    models.ParseCategory(d.Category),
		ImageInline: d.ImageInline,
		ImageURL:    d.ImageURL,
		Status:      models.ParseStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		AuthorID:    d.AuthorID,
		AuthorLabel: d.AuthorLabel,
	}
	if r.AuthorLabel == "" {
		r.AuthorLabel = r.AuthorID
	}

	if lat, ok := models.CoordFromAny(d.Lat, "lat"); ok {
		r.Lat = &lat
	}
	if lng, ok := models.CoordFromAny(d.Lng, "lng"); ok {
		r.Lng = &lng
	}

	switch loc := d.Location.(type) {
	case string:
		r.Location = loc
	case nil:
		// fall through to sentinel
	default:
		if lat, lng, ok := models.PointFromGeoJSON(loc); ok {
			r.Location = fmt.Sprintf("%v, %v", lat, lng)
			if r.Lat == nil {
				r.Lat = &lat
			}
			if r.Lng == nil {
				r.Lng = &lng
			}
		} else if lat, lng, ok := models.PointFromDoc(loc); ok {
			r.Location = fmt.Sprintf("%v, %v", lat, lng)
			if r.Lat == nil {
				r.Lat = &lat
			}
			if r.Lng == nil {
				r.Lng = &lng
			}
		}
	}
	if strings.TrimSpace(r.Location) == "" {
		r.Location = models.NoLocation
	}
	return r, nil
}

// storeErr wraps driver failures so callers can test errors.Is against the
// adapter's sentinel set instead of driver internals.
func storeErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
