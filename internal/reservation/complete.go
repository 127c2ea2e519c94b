package reservation

import (
    "context"
    "fmt"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// CompleteParams carries the inputs for Complete.
type CompleteParams struct {
    ReservationID uint64
    ActorID       uint64
    // Force completes the visit even when open orders still carry an
    // outstanding balance.
    Force bool
}

// Complete moves a seated reservation to completed.  Unless forced, an
// open/pending order with money outstanding blocks the transition with a
// *ValidationError reporting the remaining amount.  On success any
// still-open orders are force-closed and the tables are released unless
// another seated party or active order holds them.
func (a *Actions) Complete(ctx context.Context, p CompleteParams) (*Result, error) {
    var (
        res     *model.Reservation
        events  []Event
        freed   []uint64
        closed  []uint64
    )
    err := a.uow.Run(ctx, func(ctx context.Context, s Store) error {
        r, err := s.Reservations().GetByID(ctx, p.ReservationID)
        if err != nil {
            return err
        }
        if err := a.sm.AssertCanComplete(r); err != nil {
            return err
        }
        active, err := s.Orders().ListActiveByReservation(ctx, r.ID, model.ActiveOrderStatuses)
        if err != nil {
            return err
        }
        if !p.Force {
            if unpaid := unpaidActiveOrders(active); len(unpaid) > 0 {
                return &ValidationError{
                    ReservationID: r.ID,
                    Field:         "orders",
                    Rule:          "orders_unpaid",
                    Detail:        fmt.Sprintf("%d order(s) unpaid, %d cents outstanding", len(unpaid), outstandingTotal(unpaid)),
                }
            }
        }

        now := a.clock.Now()
        r.Status = model.StatusCompleted
        r.CompletedAt = &now
        r.CompletedBy = &p.ActorID
        if err := s.Reservations().UpdateFields(ctx, r.ID, Fields{
            "status":       string(model.StatusCompleted),
            "completed_at": now,
            "completed_by": p.ActorID,
        }); err != nil {
            return err
        }

        // Forced close of whatever is still open or pending.
        for i := range active {
            if err := s.Orders().UpdateFields(ctx, active[i].ID, Fields{
                "status":    string(model.OrderCompleted),
                "closed_at": now,
            }); err != nil {
                return err
            }
            closed = append(closed, active[i].ID)
        }

        freed, err = a.reconciler.Release(ctx, s, r.ID, TableSet(r), ReleaseAfterService())
        if err != nil {
            return err
        }

        res = r
        events = append(events, ReservationCompleted{
            Reservation:    Snapshot(r),
            ClosedOrderIDs: closed,
            FreedTableIDs:  freed,
            CompletedBy:    p.ActorID,
            CompletedAt:    now,
        })
        return nil
    })
    if err != nil {
        return nil, err
    }
    a.publish(ctx, events)
    return &Result{
        Reservation: res,
        Message:     "reservation completed",
        Meta: map[string]any{
            "table_ids":        TableSet(res),
            "freed_table_ids":  freed,
            "closed_order_ids": closed,
        },
    }, nil
}
