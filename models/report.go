// path: models/report.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status of a report. Reports start as pending and only move along the
// edges in transitions below.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusResolved   Status = "resolved"
)

// ParseStatus coerces a stored status value. Documents written before the
// status field existed (or with junk in it) read as pending.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending
	case StatusInProgress:
		return StatusInProgress
	case StatusApproved:
		return StatusApproved
	case StatusRejected:
		return StatusRejected
	case StatusResolved:
		return StatusResolved
	default:
		return StatusPending
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusApproved, StatusRejected, StatusResolved:
		return true
	}
	return false
}

// transitions lists the permitted status edges.
var transitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusRejected, StatusInProgress, StatusResolved},
	StatusInProgress: {StatusResolved},
}

// CanTransition reports whether a status change from -> to is a permitted
// edge.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Category of a report. Unknown values coerce to CategoryOther.
type Category string

const (
	CategoryPotholes       Category = "potholes"
	CategoryStreetLighting Category = "street_lighting"
	CategoryWaste          Category = "waste"
	CategoryWaterLeak      Category = "water_leak"
	CategorySignage        Category = "signage"
	CategorySafety         Category = "safety"
	CategoryOther          Category = "other"
)

// DefaultCategory is the submission form's initial selection.
const DefaultCategory = CategoryPotholes

func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryPotholes:
		return CategoryPotholes
	case CategoryStreetLighting:
		return CategoryStreetLighting
	case CategoryWaste:
		return CategoryWaste
	case CategoryWaterLeak:
		return CategoryWaterLeak
	case CategorySignage:
		return CategorySignage
	case CategorySafety:
		return CategorySafety
	default:
		return CategoryOther
	}
}

// Categories returns every valid category, in display order.
func Categories() []Category {
	return []Category{
		CategoryPotholes, CategoryStreetLighting, CategoryWaste,
		CategoryWaterLeak, CategorySignage, CategorySafety, CategoryOther,
	}
}

// NoLocation is the location text stored when a report carries no
// coordinates and no free-text place.
const NoLocation = "no location"

// Report is a citizen-submitted incident record.
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    Category           `bson:"category" json:"category"`

	// ImageInline holds a data-URI encoded photo (raw bytes capped at
	// 1 MiB before encoding). ImageURL points at externally hosted media;
	// either, both, or neither may be set.
	ImageInline string `bson:"image_inline,omitempty" json:"image_inline,omitempty"`
	ImageURL    string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	Location string   `bson:"location" json:"location"`
	Lat      *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng      *float64 `bson:"lng,omitempty" json:"lng,omitempty"`

	Status    Status     `bson:"status" json:"status"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	// Author identity is set once at creation and never reassigned.
	AuthorID    string `bson:"author_id" json:"author_id"`
	AuthorLabel string `bson:"author_label" json:"author_label"`
}
