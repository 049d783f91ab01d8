package validator

import (
	"strings"
	"testing"
	"time"

	"notcluely/pkg/logger"
	"notcluely/pkg/model"
)

func newTestValidator(now time.Time) *BookingValidator {
	v := NewBookingValidator(logger.New(logger.Config{Level: "error"}))
	v.now = func() time.Time { return now }
	return v
}

func validBooking(now time.Time) *model.Booking {
	return &model.Booking{
		ID:           "b1",
		UserID:       "alice",
		UserName:     "alice",
		Title:        "Standup",
		StartTime:    now.Add(time.Hour),
		EndTime:      now.Add(2 * time.Hour),
		UserTimezone: "UTC",
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
	}{
		{
			name:    "valid booking",
			mutate:  func(*model.Booking) {},
			wantErr: false,
		},
		{
			name:    "empty title",
			mutate:  func(b *model.Booking) { b.Title = "" },
			wantErr: true,
		},
		{
			name:    "blank title",
			mutate:  func(b *model.Booking) { b.Title = "   " },
			wantErr: true,
		},
		{
			name:    "title too long",
			mutate:  func(b *model.Booking) { b.Title = strings.Repeat("x", 256) },
			wantErr: true,
		},
		{
			name:    "title at max length",
			mutate:  func(b *model.Booking) { b.Title = strings.Repeat("x", 255) },
			wantErr: false,
		},
		{
			name: "start equals end",
			mutate: func(b *model.Booking) {
				b.EndTime = b.StartTime
			},
			wantErr: true,
		},
		{
			name: "start after end",
			mutate: func(b *model.Booking) {
				b.StartTime, b.EndTime = b.EndTime, b.StartTime
			},
			wantErr: true,
		},
		{
			name: "start in past",
			mutate: func(b *model.Booking) {
				b.StartTime = now.Add(-time.Hour)
				b.EndTime = now.Add(time.Hour)
			},
			wantErr: true,
		},
		{
			name:    "invalid timezone",
			mutate:  func(b *model.Booking) { b.UserTimezone = "Not/AZone" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newTestValidator(now)
			b := validBooking(now)
			tt.mutate(b)

			err := v.Validate(b)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
