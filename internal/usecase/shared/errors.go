package shared

import (
	"room-booking/internal/domain/access"
	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/user"
	"room-booking/internal/pkg/errs"
)

// Errors shared by commands, queries and the availability checker.
var (
	ErrInvalidTimeSlot     = errs.NewKind("invalid time slot", errs.ErrValidation)
	ErrInvalidRoomID       = errs.NewKind("invalid room id", errs.ErrValidation)
	ErrInvalidInput        = errs.NewKind("invalid input", errs.ErrValidation)
	ErrForbidden           = errs.NewKind("forbidden", errs.ErrAuthz)
	ErrReservationNotFound = errs.NewKind("reservation not found", errs.ErrNotFound)
	ErrRoomNotFound        = errs.NewKind("room not found", errs.ErrNotFound)
	ErrUserNotFound        = errs.NewKind("user not found", errs.ErrNotFound)
	ErrReservationConflict = errs.NewKind("reservation conflicts with an existing reservation", errs.ErrConflict)
	ErrInvalidTransition   = errs.NewKind("reservation cannot change from its current status", errs.ErrUnprocessable)
)

var domainErrors = map[error]error{
	reservation.ErrInvalidTimeSlot:   ErrInvalidTimeSlot,
	reservation.ErrInvalidRoomID:     ErrInvalidRoomID,
	reservation.ErrInvalidTransition: ErrInvalidTransition,
	reservation.ErrNotOwner:          ErrForbidden,
	access.ErrForbidden:              ErrForbidden,
	user.ErrInvalidUsername:          ErrInvalidInput,
	user.ErrInvalidRole:              ErrInvalidInput,
	user.ErrPasswordTooWeak:          ErrInvalidInput,
}

// MapDomainErr marks a domain error with its usecase sentinel so the HTTP layer can classify it.
// Unknown errors are returned unchanged.
func MapDomainErr(err error) error {
	if err == nil {
		return nil
	}
	for domainErr, sentinel := range domainErrors {
		if errs.Is(err, domainErr) {
			return errs.Mark(err, sentinel)
		}
	}
	return err
}
