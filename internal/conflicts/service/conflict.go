package service

import (
	"context"
	"errors"

	"notcluely/internal/access"
	"notcluely/internal/conflicts/detector"
	conflictserrors "notcluely/internal/conflicts/errors"
	"notcluely/internal/conflicts/repository"
	"notcluely/pkg/config"
	apperrors "notcluely/pkg/errors"
	"notcluely/pkg/events"
	"notcluely/pkg/model"

	"github.com/google/uuid"
)

type ConflictService interface {
	// RecordForBooking persists one conflict record per detected overlap.
	// Called inside the booking-creation transaction so the booking and its
	// conflicts commit together.
	RecordForBooking(ctx context.Context, booking *model.Booking, overlaps []detector.Overlap) ([]*model.Conflict, error)
	ListUnresolved(ctx context.Context, requester model.Identity) ([]*model.Conflict, error)
	Resolve(ctx context.Context, id string) error
	DeleteReferencing(ctx context.Context, bookingID string) (int64, error)
}

type conflictService struct {
	repo      repository.ConflictRepository
	broadcast events.Broadcaster
	cfg       *config.Config
}

func NewConflictService(repo repository.ConflictRepository, broadcast events.Broadcaster, cfg *config.Config) ConflictService {
	return &conflictService{
		repo:      repo,
		broadcast: broadcast,
		cfg:       cfg,
	}
}

func (s *conflictService) RecordForBooking(ctx context.Context, booking *model.Booking, overlaps []detector.Overlap) ([]*model.Conflict, error) {
	if len(overlaps) == 0 {
		return nil, nil
	}

	// Side 1 is always the pre-existing booking, side 2 the one whose
	// creation detected the overlap.
	conflicts := make([]*model.Conflict, len(overlaps))
	for i, o := range overlaps {
		conflicts[i] = &model.Conflict{
			ID:            uuid.NewString(),
			Booking1ID:    o.BookingID,
			Booking2ID:    booking.ID,
			User1ID:       o.OwnerID,
			User2ID:       booking.UserID,
			User1Name:     o.OwnerName,
			User2Name:     booking.UserName,
			ConflictStart: o.Span.Start,
			ConflictEnd:   o.Span.End,
		}
	}

	if err := s.repo.InsertMany(ctx, conflicts); err != nil {
		return nil, apperrors.Internal("Failed to record conflicts", err)
	}

	s.cfg.Log.Info("Conflicts recorded", "booking_id", booking.ID, "count", len(conflicts))
	return conflicts, nil
}

func (s *conflictService) ListUnresolved(ctx context.Context, requester model.Identity) ([]*model.Conflict, error) {
	var (
		conflicts []*model.Conflict
		err       error
	)
	if requester.IsAdmin {
		conflicts, err = s.repo.FindUnresolved(ctx)
	} else {
		conflicts, err = s.repo.FindUnresolvedForUser(ctx, requester.ID)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to list conflicts", "user_id", requester.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve conflicts", err)
	}

	// The repository already scopes the query; the filter here keeps the
	// guarantee even if a wider query slips in later.
	return access.VisibleConflicts(conflicts, requester), nil
}

func (s *conflictService) Resolve(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Conflict ID cannot be empty")
	}

	if err := s.repo.Resolve(ctx, id); err != nil {
		if errors.Is(err, conflictserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Conflict", id)
		}
		s.cfg.Log.Error("Failed to resolve conflict", "id", id, "error", err)
		return apperrors.Internal("Failed to resolve conflict", err)
	}

	s.broadcast.Broadcast(events.New(events.TypeConflictResolved, id, map[string]any{
		"conflict_id": id,
	}))

	s.cfg.Log.Info("Conflict resolved", "id", id)
	return nil
}

func (s *conflictService) DeleteReferencing(ctx context.Context, bookingID string) (int64, error) {
	deleted, err := s.repo.DeleteReferencing(ctx, bookingID)
	if err != nil {
		return 0, apperrors.Internal("Failed to delete conflicts for booking", err)
	}
	return deleted, nil
}
