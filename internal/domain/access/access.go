// Package access decides which roles may open which views.
package access

import (
	"errors"

	"room-booking/internal/domain/user"
)

var ErrForbidden = errors.New("role is not allowed to access this view")

type View string

const (
	ViewRooms        View = "rooms"
	ViewReservations View = "reservations"
)

var allowedRoles = map[View][]user.Role{
	ViewRooms:        {user.RoleAdmin},
	ViewReservations: {user.RoleUser, user.RoleAdmin},
}

func (v View) String() string {
	return string(v)
}

// Authorize is a pure predicate: unknown views, unknown roles and an empty role are all forbidden.
func Authorize(role user.Role, view View) error {
	for _, allowed := range allowedRoles[view] {
		if allowed == role {
			return nil
		}
	}
	return ErrForbidden
}
