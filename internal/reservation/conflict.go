package reservation

import (
    "context"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// blockingStatuses are the reservation states that hold a claim on their
// tables for conflict and reconciliation purposes.
var blockingStatuses = []model.Status{model.StatusConfirmed, model.StatusSeated}

// ConflictDetector finds reservations that would collide with a
// reservation about to be confirmed.  A candidate collides when its table
// set intersects the target's (checked in both directions, so a linked
// table on either side counts) AND its time slot overlaps the target's on
// the half-open interval rule: touching endpoints do not clash.
type ConflictDetector struct{}

// NewConflictDetector returns a detector.  It is stateless.
func NewConflictDetector() *ConflictDetector { return &ConflictDetector{} }

// Check loads the candidate pool (same restaurant, same date, status
// confirmed or seated, excluding the target itself) and fails with a
// *ConflictError carrying the full conflict set when any candidate
// collides on both tables and time.
func (d *ConflictDetector) Check(ctx context.Context, s Store, target *model.Reservation) error {
    tables := TableSet(target)
    slot := target.Slot()

    candidates, err := s.Reservations().ListActive(ctx, target.RestaurantID, target.Date, blockingStatuses, target.ID)
    if err != nil {
        return err
    }

    var conflicts []Conflict
    for i := range candidates {
        c := &candidates[i]
        if !tableSetsIntersect(tables, TableSet(c)) {
            continue
        }
        if !slot.Overlaps(c.Slot()) {
            continue
        }
        conflicts = append(conflicts, Conflict{
            ReservationID: c.ID,
            TableIDs:      TableSet(c),
            GuestName:     c.GuestName,
            TimeFrom:      c.TimeFrom,
            TimeTo:        c.TimeTo,
        })
    }
    if len(conflicts) > 0 {
        return &ConflictError{ReservationID: target.ID, Conflicts: conflicts}
    }
    return nil
}
