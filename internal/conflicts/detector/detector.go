// Package detector implements pure interval conflict detection over
// half-open time intervals. It holds no state and touches no storage;
// callers feed it the candidate interval and the set of existing
// bookings to check against.
package detector

import "notcluely/pkg/interval"

// Candidate is an existing booking reduced to what detection needs.
type Candidate struct {
	BookingID string
	OwnerID   string
	OwnerName string
	Span      interval.Interval
}

// Overlap describes one detected clash between the candidate interval
// and an existing booking, including the exact overlapping sub-interval.
type Overlap struct {
	BookingID string
	OwnerID   string
	OwnerName string
	Span      interval.Interval
}

// Detect returns one Overlap per existing booking whose interval overlaps
// the candidate. Results preserve the order of the input slice. Intervals
// that merely touch (one ends exactly where the other starts) do not
// overlap.
func Detect(candidate interval.Interval, existing []Candidate) []Overlap {
	var overlaps []Overlap
	for _, c := range existing {
		if !candidate.Overlaps(c.Span) {
			continue
		}
		overlaps = append(overlaps, Overlap{
			BookingID: c.BookingID,
			OwnerID:   c.OwnerID,
			OwnerName: c.OwnerName,
			Span:      candidate.Intersection(c.Span),
		})
	}
	return overlaps
}
