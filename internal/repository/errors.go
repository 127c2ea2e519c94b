// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting SQL driver errors: a missing reservation maps to a 404,
// while domain errors from the reservation core carry their own types.
package repository

import "errors"

// ErrReservationNotFound is returned when no reservation row exists for
// the requested id. Handlers should translate this into an HTTP 404.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTableNotFound is returned when a lookup or lock request references
// a table id with no backing row. Inside an action this aborts the
// transaction; a table disappearing mid-flight is an integrity problem,
// not a business outcome.
var ErrTableNotFound = errors.New("table not found")

// ErrOrderNotFound is returned when no order row exists for the
// requested id.
var ErrOrderNotFound = errors.New("order not found")
