// Package access holds the owner-or-admin authorization predicates. They
// operate on the authenticated identity only; admin status never comes from
// request input.
package access

import "notcluely/pkg/model"

// CanDelete reports whether the requester may delete the booking: the
// owner always can, an admin can override.
func CanDelete(booking *model.Booking, requester model.Identity) bool {
	return booking.UserID == requester.ID || requester.IsAdmin
}

// VisibleBookings scopes a booking listing to the requester: admins see
// everything, everyone else sees only their own.
func VisibleBookings(all []*model.Booking, requester model.Identity) []*model.Booking {
	if requester.IsAdmin {
		return all
	}

	visible := make([]*model.Booking, 0, len(all))
	for _, b := range all {
		if b.UserID == requester.ID {
			visible = append(visible, b)
		}
	}
	return visible
}

// VisibleConflicts scopes a conflict listing: admins see everything,
// everyone else sees conflicts where they own either side.
func VisibleConflicts(all []*model.Conflict, requester model.Identity) []*model.Conflict {
	if requester.IsAdmin {
		return all
	}

	visible := make([]*model.Conflict, 0, len(all))
	for _, c := range all {
		if c.Involves(requester.ID) {
			visible = append(visible, c)
		}
	}
	return visible
}
