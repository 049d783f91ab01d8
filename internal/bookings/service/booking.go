package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"notcluely/internal/access"
	bookingserrors "notcluely/internal/bookings/errors"
	"notcluely/internal/bookings/repository"
	"notcluely/internal/bookings/validator"
	"notcluely/internal/conflicts/detector"
	conflictservice "notcluely/internal/conflicts/service"
	"notcluely/pkg/config"
	apperrors "notcluely/pkg/errors"
	"notcluely/pkg/events"
	"notcluely/pkg/interval"
	"notcluely/pkg/model"
	"notcluely/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateInput struct {
	Title        string
	StartTime    time.Time
	EndTime      time.Time
	Notes        string
	UserTimezone string
}

type BookingService interface {
	// Create persists the booking and one conflict record per overlapping
	// existing booking, atomically. The returned conflicts are the ones
	// created by this call.
	Create(ctx context.Context, owner model.Identity, input *CreateInput) (*model.Booking, []*model.Conflict, error)
	List(ctx context.Context, requester model.Identity) ([]*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Delete(ctx context.Context, requester model.Identity, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	conflicts conflictservice.ConflictService
	broadcast events.Broadcaster
	cfg       *config.Config

	// createMu serializes the scan-then-insert of Create. Two bookings
	// checked concurrently could each miss the other and commit without a
	// conflict record; the single-writer queue closes that window.
	createMu sync.Mutex
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	conflicts conflictservice.ConflictService,
	broadcast events.Broadcaster,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		conflicts: conflicts,
		broadcast: broadcast,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, owner model.Identity, input *CreateInput) (*model.Booking, []*model.Conflict, error) {
	booking := &model.Booking{
		ID:           uuid.NewString(),
		UserID:       owner.ID,
		UserName:     owner.Username,
		Title:        sanitizer.NormalizeTitle(input.Title),
		StartTime:    input.StartTime.UTC(),
		EndTime:      input.EndTime.UTC(),
		Notes:        sanitizer.NormalizeNotes(input.Notes),
		UserTimezone: input.UserTimezone,
	}

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "user_id", owner.ID, "error", err)
		return nil, nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	span, err := interval.New(booking.StartTime, booking.EndTime)
	if err != nil {
		return nil, nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	existing, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to scan bookings for conflicts", "error", err)
		return nil, nil, apperrors.Internal("Failed to check existing bookings", err)
	}

	overlaps := detector.Detect(span, toCandidates(existing))

	var conflicts []*model.Conflict
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		conflicts, err = s.conflicts.RecordForBooking(sessCtx, booking, overlaps)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "user_id", owner.ID, "error", err)
		return nil, nil, err
	}

	s.broadcast.Broadcast(events.New(events.TypeBookingCreated, booking.ID, map[string]any{
		"booking":       booking,
		"has_conflicts": len(conflicts) > 0,
	}))

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"user_id", owner.ID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
		"conflicts", len(conflicts),
	)
	return booking, conflicts, nil
}

func (s *bookingService) List(ctx context.Context, requester model.Identity) ([]*model.Booking, error) {
	var (
		bookings []*model.Booking
		err      error
	)
	if requester.IsAdmin {
		bookings, err = s.repo.FindAll(ctx)
	} else {
		bookings, err = s.repo.FindByUser(ctx, requester.ID)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", requester.ID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return access.VisibleBookings(bookings, requester), nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// Delete removes the booking and every conflict record referencing it.
// Existence is checked before authorization, so an unknown id is a 404 for
// everyone while a foreign id is a 403 for non-admins.
func (s *bookingService) Delete(ctx context.Context, requester model.Identity, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !access.CanDelete(booking, requester) {
		return apperrors.Forbidden("Not authorized to delete this booking")
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		_, err := s.conflicts.DeleteReferencing(sessCtx, id)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return err
	}

	s.broadcast.Broadcast(events.New(events.TypeBookingDeleted, id, map[string]any{
		"booking_id": id,
	}))

	s.cfg.Log.Info("Booking deleted", "id", id, "requested_by", requester.ID, "admin_override", booking.UserID != requester.ID)
	return nil
}

func toCandidates(bookings []*model.Booking) []detector.Candidate {
	candidates := make([]detector.Candidate, 0, len(bookings))
	for _, b := range bookings {
		span, err := interval.New(b.StartTime, b.EndTime)
		if err != nil {
			// Malformed stored interval; it cannot overlap anything.
			continue
		}
		candidates = append(candidates, detector.Candidate{
			BookingID: b.ID,
			OwnerID:   b.UserID,
			OwnerName: b.UserName,
			Span:      span,
		})
	}
	return candidates
}
