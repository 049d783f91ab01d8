package interval

import (
	"errors"
	"fmt"
	"time"
)

var ErrInverted = errors.New("interval start must be before end")

// Interval is a half-open time range [Start, End) in absolute UTC.
// Touching intervals share an instant but no duration, so they never
// overlap.
type Interval struct {
	Start time.Time
	End   time.Time
}

// New builds an Interval, rejecting degenerate or inverted bounds.
// Callers must go through New (or validate start < end themselves) before
// calling Overlaps: the predicate assumes well-formed inputs.
func New(start, end time.Time) (Interval, error) {
	if !start.Before(end) {
		return Interval{}, fmt.Errorf("%w: [%s, %s)", ErrInverted, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Interval{Start: start.UTC(), End: end.UTC()}, nil
}

// Overlaps reports whether a and b share any instant. Both intervals must
// satisfy Start < End.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Intersection returns the overlap sub-interval [max starts, min ends).
// It is only meaningful when a.Overlaps(b) holds; the result is then
// non-empty and contained in both inputs.
func (a Interval) Intersection(b Interval) Interval {
	out := a
	if b.Start.After(out.Start) {
		out.Start = b.Start
	}
	if b.End.Before(out.End) {
		out.End = b.End
	}
	return out
}

// Contains reports whether b lies entirely within a.
func (a Interval) Contains(b Interval) bool {
	return !b.Start.Before(a.Start) && !b.End.After(a.End)
}

func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

func (a Interval) String() string {
	return fmt.Sprintf("[%s, %s)", a.Start.Format(time.RFC3339), a.End.Format(time.RFC3339))
}
