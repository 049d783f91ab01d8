package model

import "time"

// Conflict records that two bookings' time ranges overlap. Booking1 is
// always the pre-existing booking, Booking2 the one whose creation detected
// the overlap. Owner ids and names are denormalized copies taken at
// detection time. [ConflictStart, ConflictEnd) is the overlap sub-interval
// and is non-empty by construction.
type Conflict struct {
	ID            string    `json:"id" bson:"_id"`
	Booking1ID    string    `json:"booking1_id" bson:"booking1_id"`
	Booking2ID    string    `json:"booking2_id" bson:"booking2_id"`
	User1ID       string    `json:"user1_id" bson:"user1_id"`
	User2ID       string    `json:"user2_id" bson:"user2_id"`
	User1Name     string    `json:"user1_name" bson:"user1_name"`
	User2Name     string    `json:"user2_name" bson:"user2_name"`
	ConflictStart time.Time `json:"conflict_start" bson:"conflict_start"`
	ConflictEnd   time.Time `json:"conflict_end" bson:"conflict_end"`
	Resolved      bool      `json:"resolved" bson:"resolved"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// References reports whether the conflict points at the given booking on
// either side.
func (c *Conflict) References(bookingID string) bool {
	return c.Booking1ID == bookingID || c.Booking2ID == bookingID
}

// Involves reports whether the user owns either conflicting booking.
func (c *Conflict) Involves(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}
