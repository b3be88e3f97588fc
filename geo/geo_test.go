// path: geo/geo_test.go
package geo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCurrentLocationSuccess(t *testing.T) {
	t.Parallel()
	l := NewLocator(ProviderFunc(func(ctx context.Context) (Point, error) {
		return Point{Lat: -12.0464, Lng: -77.0428}, nil
	}))
	p, err := l.CurrentLocation(context.Background())
	if err != nil {
		t.Fatalf("CurrentLocation: %v", err)
	}
	if p.Lat != -12.0464 || p.Lng != -77.0428 {
		t.Fatalf("unexpected point %+v", p)
	}
}

func TestCurrentLocationTimeout(t *testing.T) {
	t.Parallel()
	l := NewLocator(ProviderFunc(func(ctx context.Context) (Point, error) {
		<-ctx.Done()
		return Point{}, ctx.Err()
	}))
	l.timeout = 20 * time.Millisecond

	start := time.Now()
	_, err := l.CurrentLocation(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("timeout should not block beyond the budget")
	}
}

func TestCurrentLocationPassesProviderErrors(t *testing.T) {
	t.Parallel()
	for _, want := range []error{ErrPermissionDenied, ErrPositionUnavailable} {
		l := NewLocator(ProviderFunc(func(ctx context.Context) (Point, error) {
			return Point{}, want
		}))
		if _, err := l.CurrentLocation(context.Background()); !errors.Is(err, want) {
			t.Fatalf("err = %v, want %v", err, want)
		}
	}
}

func TestMessageDistinctPerFailure(t *testing.T) {
	t.Parallel()
	msgs := map[string]bool{}
	for _, err := range []error{ErrPermissionDenied, ErrPositionUnavailable, ErrTimeout} {
		m := Message(err)
		if m == "" {
			t.Fatalf("no message for %v", err)
		}
		if msgs[m] {
			t.Fatalf("duplicate message %q", m)
		}
		msgs[m] = true
	}
	if got := Message(errors.New("boom")); got != "boom" {
		t.Fatalf("unknown error should surface verbatim, got %q", got)
	}
}

func TestAreaLabel(t *testing.T) {
	t.Parallel()
	got := AreaLabel(Point{Lat: -12.04649, Lng: -77.04281})
	if got != "Near -12.046, -77.042" {
		t.Fatalf("AreaLabel = %q", got)
	}
}
