package detector

import (
	"testing"
	"time"

	"notcluely/pkg/interval"
)

func span(t *testing.T, startHour, endHour int) interval.Interval {
	t.Helper()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	iv, err := interval.New(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	if err != nil {
		t.Fatalf("building interval: %v", err)
	}
	return iv
}

func TestDetectNoOverlap(t *testing.T) {
	existing := []Candidate{
		{BookingID: "b1", OwnerID: "alice", Span: span(t, 9, 10)},
		{BookingID: "b2", OwnerID: "bob", Span: span(t, 12, 13)},
	}

	got := Detect(span(t, 10, 11), existing)
	if len(got) != 0 {
		t.Fatalf("expected no overlaps, got %d", len(got))
	}
}

func TestDetectTouchingIsNotOverlap(t *testing.T) {
	// [10,11) against [9,10) and [11,12): shared endpoints only.
	existing := []Candidate{
		{BookingID: "before", Span: span(t, 9, 10)},
		{BookingID: "after", Span: span(t, 11, 12)},
	}

	got := Detect(span(t, 10, 11), existing)
	if len(got) != 0 {
		t.Fatalf("touching intervals reported as overlap: %+v", got)
	}
}

func TestDetectSingleOverlap(t *testing.T) {
	existing := []Candidate{
		{BookingID: "b1", OwnerID: "alice", OwnerName: "alice", Span: span(t, 9, 11)},
		{BookingID: "b2", OwnerID: "bob", OwnerName: "bob", Span: span(t, 14, 15)},
	}

	got := Detect(span(t, 10, 12), existing)
	if len(got) != 1 {
		t.Fatalf("expected 1 overlap, got %d", len(got))
	}
	if got[0].BookingID != "b1" {
		t.Errorf("overlap booking = %s, want b1", got[0].BookingID)
	}
	want := span(t, 10, 11)
	if !got[0].Span.Start.Equal(want.Start) || !got[0].Span.End.Equal(want.End) {
		t.Errorf("overlap span = %v, want %v", got[0].Span, want)
	}
}

func TestDetectMultipleOverlapsPreserveOrder(t *testing.T) {
	existing := []Candidate{
		{BookingID: "b1", OwnerID: "alice", Span: span(t, 9, 11)},
		{BookingID: "b2", OwnerID: "bob", Span: span(t, 10, 14)},
		{BookingID: "b3", OwnerID: "carol", Span: span(t, 16, 17)},
	}

	got := Detect(span(t, 10, 12), existing)
	if len(got) != 2 {
		t.Fatalf("expected 2 overlaps, got %d", len(got))
	}
	if got[0].BookingID != "b1" || got[1].BookingID != "b2" {
		t.Errorf("overlap order = [%s %s], want [b1 b2]", got[0].BookingID, got[1].BookingID)
	}

	// Each overlap carries its own intersection.
	if want := span(t, 10, 11); !got[0].Span.End.Equal(want.End) {
		t.Errorf("first overlap end = %v, want %v", got[0].Span.End, want.End)
	}
	if want := span(t, 10, 12); !got[1].Span.End.Equal(want.End) {
		t.Errorf("second overlap end = %v, want %v", got[1].Span.End, want.End)
	}
}

func TestDetectContainment(t *testing.T) {
	// Candidate fully inside an existing booking: overlap equals the candidate.
	existing := []Candidate{{BookingID: "big", Span: span(t, 8, 18)}}

	candidate := span(t, 10, 11)
	got := Detect(candidate, existing)
	if len(got) != 1 {
		t.Fatalf("expected 1 overlap, got %d", len(got))
	}
	if !got[0].Span.Start.Equal(candidate.Start) || !got[0].Span.End.Equal(candidate.End) {
		t.Errorf("overlap span = %v, want %v", got[0].Span, candidate)
	}
}
