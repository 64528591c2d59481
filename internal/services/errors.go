// Package services implements the order state machine and its
// surrounding business logic. This file centralizes common
// service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages should be performed by the
// presentation layer, which is outside this core. The errors carry no
// automatic retry semantics: domain errors are final for the given
// call, infrastructure errors propagate unmodified.
package services

import "errors"

var (
	// ErrDuplicateActiveOrder is returned when a user tries to order a
	// record they already hold an active (application, queued, or
	// ordered) order on.
	ErrDuplicateActiveOrder = errors.New("user already has an active order on this record")

	// ErrLocationLocked is returned when a record's location cannot be
	// changed because an ordered holder has the record in the reading
	// room; the holder must finish first.
	ErrLocationLocked = errors.New("record location is locked by an active reading-room order")

	// ErrRenewalNotEligible is returned when an order fails the renewal
	// eligibility check (no deadline yet, outside the renewal window,
	// or another patron is queued on the record).
	ErrRenewalNotEligible = errors.New("order is not eligible for renewal")

	// ErrConflictingUpdate is returned when an update command carries
	// zero or more than one field; updates apply exactly one field per
	// call.
	ErrConflictingUpdate = errors.New("order update must set exactly one field")

	// ErrInvalidStatus is returned when a status update targets a
	// non-terminal status; only completed and deleted can be set
	// directly, every other transition goes through Create or Promote.
	ErrInvalidStatus = errors.New("status update must target completed or deleted")

	// ErrOrderNotFound indicates that the requested order does not
	// exist.
	ErrOrderNotFound = errors.New("order not found")
)

// errSkipped aborts a per-candidate sweep transaction for a candidate
// that should be dropped without counting as a failure.
var errSkipped = errors.New("candidate skipped")
