// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict signals that an operation cannot proceed due to
// conflicting state (e.g. a status change the lifecycle does not permit,
// or a table already bound to another reservation in the same slot).
package repository

import "errors"

// ErrConflict is returned when an update cannot be performed because of
// conflicting state. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// ErrReservationNotFound is returned when a reservation ID resolves to
// no row. Handlers translate this into HTTP 404.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrCustomerNotFound is returned when a customer ID resolves to no row.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrTableNotFound is returned when a table ID resolves to no row.
var ErrTableNotFound = errors.New("table not found")

// ErrTokenNotFound is returned when a self-service management token does
// not exist, has been rotated away, or has expired. The public handlers
// deliberately collapse all three cases into one answer.
var ErrTokenNotFound = errors.New("token not found")
