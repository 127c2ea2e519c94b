// Package reservation implements the reservation state machine and the six
// transactional actions that drive it: Confirm, Seat, Unseat, Complete,
// Cancel and MarkNoShow.  Every action runs inside one unit of work; a
// guard or mid-transaction failure rolls the whole transaction back so no
// partial status, table or deposit change ever becomes visible.
//
// This file defines the typed domain errors the actions raise.  Each kind
// is distinct so that handlers can map it to a response without string
// matching: an invalid transition is not a conflict, a conflict is not an
// occupied table, and a deposit violation is not a validation failure.
// Actions propagate these errors untouched; anything else is an
// infrastructure failure and also propagates as-is.
package reservation

import (
    "fmt"
    "strings"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// InvalidStateTransitionError reports that an action was invoked on a
// reservation whose current status is not in the action's legal source
// set.  It carries enough context for a caller to render
// "cannot confirm: status is seated, must be pending".
type InvalidStateTransitionError struct {
    ReservationID uint64
    Current       model.Status
    Target        model.Status
    AllowedFrom   []model.Status
}

func (e *InvalidStateTransitionError) Error() string {
    allowed := make([]string, len(e.AllowedFrom))
    for i, s := range e.AllowedFrom {
        allowed[i] = string(s)
    }
    return fmt.Sprintf("reservation %d: cannot move from %q to %q (allowed from: %s)",
        e.ReservationID, e.Current, e.Target, strings.Join(allowed, ", "))
}

// Conflict describes one colliding reservation found during Confirm.  The
// fields are what a host needs to disambiguate the clash on screen.
type Conflict struct {
    ReservationID uint64   `json:"reservation_id"`
    TableIDs      []uint64 `json:"table_ids"`
    GuestName     string   `json:"guest_name"`
    TimeFrom      string   `json:"time_from"`
    TimeTo        string   `json:"time_to"`
}

// ConflictError reports that confirming a reservation would double-book at
// least one of its tables.  Conflicts holds every colliding reservation,
// not just the first one found.
type ConflictError struct {
    ReservationID uint64
    Conflicts     []Conflict
}

func (e *ConflictError) Error() string {
    return fmt.Sprintf("reservation %d: %d conflicting reservation(s) on the requested tables and time",
        e.ReservationID, len(e.Conflicts))
}

// OccupiedTable identifies one table that blocked seating together with
// the live orders found on it.
type OccupiedTable struct {
    TableID   uint64   `json:"table_id"`
    TableName string   `json:"table_name"`
    OrderIDs  []uint64 `json:"order_ids"`
}

// TableOccupiedError reports that seating failed because at least one
// target table carries a genuinely live order.  Seating is all-or-nothing,
// so a single occupied table fails the whole action.
type TableOccupiedError struct {
    ReservationID uint64
    Tables        []OccupiedTable
}

func (e *TableOccupiedError) Error() string {
    names := make([]string, len(e.Tables))
    for i, t := range e.Tables {
        if t.TableName != "" {
            names[i] = t.TableName
        } else {
            names[i] = fmt.Sprintf("#%d", t.TableID)
        }
    }
    return fmt.Sprintf("reservation %d: table(s) %s occupied by live orders",
        e.ReservationID, strings.Join(names, ", "))
}

// DepositError reports an illegal deposit sub-transition, e.g. refunding a
// deposit that was already transferred to an order.
type DepositError struct {
    ReservationID uint64
    AmountCents   uint32
    Status        model.DepositStatus
    Reason        string
}

func (e *DepositError) Error() string {
    return fmt.Sprintf("reservation %d: deposit (%d cents, status %q): %s",
        e.ReservationID, e.AmountCents, e.Status, e.Reason)
}

// ValidationError reports a business-rule violation that is not covered by
// the more specific kinds above, such as unpaid orders blocking
// completion.  Field and Rule are stable identifiers for structured
// client handling; Detail is the human-readable part.
type ValidationError struct {
    ReservationID uint64
    Field         string
    Rule          string
    Detail        string
}

func (e *ValidationError) Error() string {
    return fmt.Sprintf("reservation %d: %s: %s", e.ReservationID, e.Rule, e.Detail)
}
