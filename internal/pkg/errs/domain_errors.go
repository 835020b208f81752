package errs

import (
	"sync"

	cr "github.com/cockroachdb/errors"
)

// Category markers. Usecase sentinels are registered with one of them
// so the HTTP layer can map any error to a status without knowing every sentinel.
var (
	ErrValidation    = cr.New("validation error")
	ErrAuth          = cr.New("authentication error")
	ErrAuthz         = cr.New("authorization error")
	ErrNotFound      = cr.New("not found")
	ErrConflict      = cr.New("conflict")
	ErrUnprocessable = cr.New("unprocessable entity")
	ErrInternal      = cr.New("internal error")
)

var categories = []error{ErrValidation, ErrAuth, ErrAuthz, ErrNotFound, ErrConflict, ErrUnprocessable}

type kindEntry struct {
	sentinel error
	kind     error
}

var (
	registryMu sync.RWMutex
	registry   []kindEntry
)

// NewKind creates a sentinel error belonging to a category. Sentinels keep
// their own identity: two sentinels of the same category never match each other.
// Messages must be unique since marks compare by message.
func NewKind(msg string, kind error) error {
	sentinel := cr.New(msg)

	registryMu.Lock()
	registry = append(registry, kindEntry{sentinel: sentinel, kind: kind})
	registryMu.Unlock()

	return sentinel
}

// KindOf returns the category of err, or ErrInternal when none applies.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range categories {
		if cr.Is(err, kind) {
			return kind
		}
	}

	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, e := range registry {
		if cr.Is(err, e.sentinel) {
			return e.kind
		}
	}
	return ErrInternal
}

// MessageOf returns the message of the first registered sentinel err matches,
// falling back to the message of its category.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}

	registryMu.RLock()
	for _, e := range registry {
		if cr.Is(err, e.sentinel) {
			registryMu.RUnlock()
			return e.sentinel.Error()
		}
	}
	registryMu.RUnlock()

	return KindOf(err).Error()
}
