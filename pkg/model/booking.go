package model

import "time"

// Booking is a half-open [StartTime, EndTime) reservation in UTC.
// UserName is a snapshot of the owner's handle at creation time; renaming a
// user does not rewrite historical bookings. UserTimezone is display-only
// and never affects overlap math.
type Booking struct {
	ID           string    `json:"id" bson:"_id"`
	UserID       string    `json:"user_id" bson:"user_id"`
	UserName     string    `json:"user_name" bson:"user_name"`
	Title        string    `json:"title" bson:"title" validate:"required,max=255"`
	StartTime    time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime      time.Time `json:"end_time" bson:"end_time" validate:"required"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty"`
	UserTimezone string    `json:"user_timezone" bson:"user_timezone" validate:"required,timezone"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}
