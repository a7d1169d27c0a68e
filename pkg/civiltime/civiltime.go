// Package civiltime canonicalises timestamps into a single civil timezone.
//
// A value that carries an offset is converted to the zone (same instant). A
// value without one is read as wall-clock time already in the zone, so the
// clock reading is kept and the zone is attached.
package civiltime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Layouts that carry zone information.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
}

// Layouts without zone information.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

type Normalizer struct {
	loc *time.Location
}

func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Load builds a Normalizer for an IANA zone name.
func Load(name string) (*Normalizer, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return New(loc), nil
}

func (n *Normalizer) Location() *time.Location { return n.loc }

// Parse reads a timestamp string and returns it in the civil zone.
func (n *Normalizer) Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(n.loc), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, n.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, raw)
}

// ParsePtr is Parse for optional input. nil stays nil.
func (n *Normalizer) ParsePtr(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	t, err := n.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Normalize converts an already-parsed instant into the civil zone.
func (n *Normalizer) Normalize(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(n.loc)
	return &v
}

// RunAt is the fire time of a reminder: due minus lead, in absolute elapsed time.
func RunAt(due time.Time, lead time.Duration) time.Time {
	return due.Add(-lead)
}
