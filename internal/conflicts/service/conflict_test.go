package service

import (
	"context"
	"testing"
	"time"

	"notcluely/internal/conflicts/detector"
	conflictserrors "notcluely/internal/conflicts/errors"
	"notcluely/pkg/config"
	apperrors "notcluely/pkg/errors"
	"notcluely/pkg/events"
	"notcluely/pkg/interval"
	"notcluely/pkg/logger"
	"notcluely/pkg/model"
)

type mockConflictRepository struct {
	insertManyFn            func(ctx context.Context, conflicts []*model.Conflict) error
	findUnresolvedFn        func(ctx context.Context) ([]*model.Conflict, error)
	findUnresolvedForUserFn func(ctx context.Context, userID string) ([]*model.Conflict, error)
	resolveFn               func(ctx context.Context, id string) error
	deleteReferencingFn     func(ctx context.Context, bookingID string) (int64, error)
}

func (m *mockConflictRepository) InsertMany(ctx context.Context, conflicts []*model.Conflict) error {
	if m.insertManyFn != nil {
		return m.insertManyFn(ctx, conflicts)
	}
	return nil
}

func (m *mockConflictRepository) FindUnresolved(ctx context.Context) ([]*model.Conflict, error) {
	if m.findUnresolvedFn != nil {
		return m.findUnresolvedFn(ctx)
	}
	return nil, nil
}

func (m *mockConflictRepository) FindUnresolvedForUser(ctx context.Context, userID string) ([]*model.Conflict, error) {
	if m.findUnresolvedForUserFn != nil {
		return m.findUnresolvedForUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockConflictRepository) Resolve(ctx context.Context, id string) error {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, id)
	}
	return nil
}

func (m *mockConflictRepository) DeleteReferencing(ctx context.Context, bookingID string) (int64, error) {
	if m.deleteReferencingFn != nil {
		return m.deleteReferencingFn(ctx, bookingID)
	}
	return 0, nil
}

type recordingBroadcaster struct {
	events []events.Event
}

func (r *recordingBroadcaster) Broadcast(e events.Event) {
	r.events = append(r.events, e)
}

func testConfig() *config.Config {
	return &config.Config{Log: logger.New(logger.Config{Level: "error"})}
}

func TestRecordForBookingOrientation(t *testing.T) {
	var inserted []*model.Conflict
	repo := &mockConflictRepository{
		insertManyFn: func(_ context.Context, conflicts []*model.Conflict) error {
			inserted = conflicts
			return nil
		},
	}
	svc := NewConflictService(repo, events.NopBroadcaster{}, testConfig())

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	span, _ := interval.New(day.Add(10*time.Hour), day.Add(11*time.Hour))

	newBooking := &model.Booking{ID: "new", UserID: "bob", UserName: "bob"}
	overlaps := []detector.Overlap{
		{BookingID: "old", OwnerID: "alice", OwnerName: "alice", Span: span},
	}

	conflicts, err := svc.RecordForBooking(context.Background(), newBooking, overlaps)
	if err != nil {
		t.Fatalf("RecordForBooking() error = %v", err)
	}
	if len(conflicts) != 1 || len(inserted) != 1 {
		t.Fatalf("expected 1 conflict recorded, got %d returned / %d inserted", len(conflicts), len(inserted))
	}

	c := inserted[0]
	if c.Booking1ID != "old" || c.Booking2ID != "new" {
		t.Errorf("pair orientation wrong: booking1=%s booking2=%s", c.Booking1ID, c.Booking2ID)
	}
	if c.User1ID != "alice" || c.User2ID != "bob" {
		t.Errorf("owner orientation wrong: user1=%s user2=%s", c.User1ID, c.User2ID)
	}
	if !c.ConflictStart.Equal(span.Start) || !c.ConflictEnd.Equal(span.End) {
		t.Errorf("overlap span wrong: [%v, %v)", c.ConflictStart, c.ConflictEnd)
	}
	if c.Resolved {
		t.Error("new conflicts must start unresolved")
	}
	if c.ID == "" {
		t.Error("expected generated conflict id")
	}
}

func TestRecordForBookingNoOverlaps(t *testing.T) {
	repo := &mockConflictRepository{
		insertManyFn: func(context.Context, []*model.Conflict) error {
			t.Error("InsertMany must not be called with no overlaps")
			return nil
		},
	}
	svc := NewConflictService(repo, events.NopBroadcaster{}, testConfig())

	conflicts, err := svc.RecordForBooking(context.Background(), &model.Booking{ID: "new"}, nil)
	if err != nil {
		t.Fatalf("RecordForBooking() error = %v", err)
	}
	if conflicts != nil {
		t.Errorf("expected nil conflicts, got %v", conflicts)
	}
}

func TestListUnresolvedScoping(t *testing.T) {
	all := []*model.Conflict{
		{ID: "c1", User1ID: "alice", User2ID: "bob"},
		{ID: "c2", User1ID: "carol", User2ID: "dave"},
	}
	repo := &mockConflictRepository{
		findUnresolvedFn: func(context.Context) ([]*model.Conflict, error) {
			return all, nil
		},
		findUnresolvedForUserFn: func(_ context.Context, userID string) ([]*model.Conflict, error) {
			var out []*model.Conflict
			for _, c := range all {
				if c.Involves(userID) {
					out = append(out, c)
				}
			}
			return out, nil
		},
	}
	svc := NewConflictService(repo, events.NopBroadcaster{}, testConfig())

	adminView, err := svc.ListUnresolved(context.Background(), model.Identity{ID: "root", IsAdmin: true})
	if err != nil {
		t.Fatalf("ListUnresolved(admin) error = %v", err)
	}
	if len(adminView) != 2 {
		t.Errorf("admin should see 2 conflicts, got %d", len(adminView))
	}

	aliceView, err := svc.ListUnresolved(context.Background(), model.Identity{ID: "alice"})
	if err != nil {
		t.Fatalf("ListUnresolved(alice) error = %v", err)
	}
	if len(aliceView) != 1 || aliceView[0].ID != "c1" {
		t.Errorf("alice should see only c1, got %v", aliceView)
	}
}

func TestResolveIdempotent(t *testing.T) {
	resolved := map[string]bool{"c1": false}
	repo := &mockConflictRepository{
		resolveFn: func(_ context.Context, id string) error {
			if _, ok := resolved[id]; !ok {
				return conflictserrors.ErrNotFound
			}
			resolved[id] = true
			return nil
		},
	}
	broadcast := &recordingBroadcaster{}
	svc := NewConflictService(repo, broadcast, testConfig())

	if err := svc.Resolve(context.Background(), "c1"); err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}
	if err := svc.Resolve(context.Background(), "c1"); err != nil {
		t.Fatalf("second Resolve() must succeed, got %v", err)
	}

	if len(broadcast.events) != 2 {
		t.Errorf("expected 2 broadcasts, got %d", len(broadcast.events))
	}
	if broadcast.events[0].Type != events.TypeConflictResolved {
		t.Errorf("event type = %s, want %s", broadcast.events[0].Type, events.TypeConflictResolved)
	}
}

func TestResolveMissing(t *testing.T) {
	repo := &mockConflictRepository{
		resolveFn: func(context.Context, string) error {
			return conflictserrors.ErrNotFound
		},
	}
	svc := NewConflictService(repo, events.NopBroadcaster{}, testConfig())

	err := svc.Resolve(context.Background(), "ghost")
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", appErr.Code)
	}
}
