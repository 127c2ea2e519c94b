package reservation

import (
    "context"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ConfirmParams carries the inputs for Confirm.
type ConfirmParams struct {
    ReservationID uint64
    ActorID       uint64
    // SkipConflictCheck bypasses conflict detection entirely.  This is a
    // privileged escape hatch for overbooking decisions made by a
    // manager, not a default.
    SkipConflictCheck bool
}

// Confirm moves a pending reservation to confirmed.  Unless skipped, it
// first checks the restaurant's other confirmed/seated reservations on
// the same date for a table+time collision and fails with a
// *ConflictError carrying the full conflict set.
//
// The conflict check is read-then-decide without table locks; two
// near-simultaneous Confirms on overlapping slots can race.  Seat closes
// the equivalent race with row locks, Confirm historically does not.
func (a *Actions) Confirm(ctx context.Context, p ConfirmParams) (*Result, error) {
    var (
        res    *model.Reservation
        events []Event
    )
    err := a.uow.Run(ctx, func(ctx context.Context, s Store) error {
        r, err := s.Reservations().GetByID(ctx, p.ReservationID)
        if err != nil {
            return err
        }
        if err := a.sm.AssertCanConfirm(r); err != nil {
            return err
        }
        if !p.SkipConflictCheck {
            if err := a.detector.Check(ctx, s, r); err != nil {
                return err
            }
        }
        now := a.clock.Now()
        r.Status = model.StatusConfirmed
        r.ConfirmedAt = &now
        r.ConfirmedBy = &p.ActorID
        if err := s.Reservations().UpdateFields(ctx, r.ID, Fields{
            "status":       string(model.StatusConfirmed),
            "confirmed_at": now,
            "confirmed_by": p.ActorID,
        }); err != nil {
            return err
        }
        res = r
        events = append(events, ReservationConfirmed{
            Reservation: Snapshot(r),
            ConfirmedBy: p.ActorID,
            ConfirmedAt: now,
        })
        return nil
    })
    if err != nil {
        return nil, err
    }
    a.publish(ctx, events)
    return &Result{
        Reservation: res,
        Message:     "reservation confirmed",
        Meta: map[string]any{
            "table_ids": TableSet(res),
        },
    }, nil
}
