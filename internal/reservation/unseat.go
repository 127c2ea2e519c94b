package reservation

import (
    "context"
    "fmt"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// UnseatParams carries the inputs for Unseat.
type UnseatParams struct {
    ReservationID uint64
    ActorID       uint64
    // Force reverts the seating even when open orders still carry an
    // outstanding balance.
    Force bool
}

// Unseat reverts a seated reservation to confirmed, never all the way
// back to pending.  Unless forced, the same unpaid-order predicate as
// Complete blocks the revert.  Tables are released unless another seated
// party or active order holds them.
//
// Unseat emits no domain event; every sibling action does.  The
// asymmetry is deliberate in the current design.
func (a *Actions) Unseat(ctx context.Context, p UnseatParams) (*Result, error) {
    var (
        res   *model.Reservation
        freed []uint64
    )
    err := a.uow.Run(ctx, func(ctx context.Context, s Store) error {
        r, err := s.Reservations().GetByID(ctx, p.ReservationID)
        if err != nil {
            return err
        }
        if err := a.sm.AssertCanUnseat(r); err != nil {
            return err
        }
        if !p.Force {
            active, err := s.Orders().ListActiveByReservation(ctx, r.ID, model.ActiveOrderStatuses)
            if err != nil {
                return err
            }
            if unpaid := unpaidActiveOrders(active); len(unpaid) > 0 {
                return &ValidationError{
                    ReservationID: r.ID,
                    Field:         "orders",
                    Rule:          "orders_unpaid",
                    Detail:        fmt.Sprintf("%d order(s) unpaid, %d cents outstanding", len(unpaid), outstandingTotal(unpaid)),
                }
            }
        }

        r.Status = model.StatusConfirmed
        if err := s.Reservations().UpdateFields(ctx, r.ID, Fields{
            "status": string(model.StatusConfirmed),
        }); err != nil {
            return err
        }

        freed, err = a.reconciler.Release(ctx, s, r.ID, TableSet(r), ReleaseAfterService())
        if err != nil {
            return err
        }

        res = r
        return nil
    })
    if err != nil {
        return nil, err
    }
    return &Result{
        Reservation: res,
        Message:     "guests unseated",
        Meta: map[string]any{
            "table_ids":       TableSet(res),
            "freed_table_ids": freed,
        },
    }, nil
}
