// path: geo/geo.go

// Package geo obtains a single-shot device position from a pluggable
// provider under a fixed time budget.
package geo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrPermissionDenied    = errors.New("geolocation permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("geolocation timed out")
)

// Timeout is the fixed budget for a position fix.
const Timeout = 10 * time.Second

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Provider produces the device's current position. Implementations are
// expected to honor ctx cancellation.
type Provider interface {
	Position(ctx context.Context) (Point, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (Point, error)

func (f ProviderFunc) Position(ctx context.Context) (Point, error) { return f(ctx) }

type Locator struct {
	provider Provider
	timeout  time.Duration
}

func NewLocator(p Provider) *Locator {
	return &Locator{provider: p, timeout: Timeout}
}

// CurrentLocation asks the provider once, bounded by the timeout. It is
// never retried automatically; a timeout surfaces as ErrTimeout.
func (l *Locator) CurrentLocation(ctx context.Context) (Point, error) {
	tctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	p, err := l.provider.Position(tctx)
	if err == nil {
		return p, nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(tctx.Err(), context.DeadlineExceeded) {
		return Point{}, ErrTimeout
	}
	return Point{}, err
}

// Message maps a location failure to its user-facing text. Each known
// failure gets a distinct message; anything else surfaces verbatim.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPermissionDenied):
		return "Location permission was denied. Allow location access and try again."
	case errors.Is(err, ErrPositionUnavailable):
		return "Location information is unavailable."
	case errors.Is(err, ErrTimeout):
		return "Timed out waiting for a location fix."
	default:
		return err.Error()
	}
}

// AreaLabel renders a point as short human-readable place text.
func AreaLabel(p Point) string {
	return fmt.Sprintf("Near %.3f, %.3f", round3(p.Lat), round3(p.Lng))
}

func round3(f float64) float64 { return float64(int(f*1000)) / 1000.0 }
