package reservation

import (
    "context"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// CancelParams carries the inputs for Cancel.
type CancelParams struct {
    ReservationID uint64
    ActorID       uint64
    Reason        string
    // RefundDeposit returns a paid deposit to the guest.  Requesting a
    // refund for a deposit that was already transferred to an order is a
    // hard error, never silently ignored.
    RefundDeposit bool
}

// Cancel moves a pending or confirmed reservation to cancelled, stamps
// the reason and actor, optionally refunds the deposit and releases the
// tables unless another confirmed/seated reservation still claims them.
func (a *Actions) Cancel(ctx context.Context, p CancelParams) (*Result, error) {
    var (
        res      *model.Reservation
        events   []Event
        freed    []uint64
        refunded bool
    )
    err := a.uow.Run(ctx, func(ctx context.Context, s Store) error {
        r, err := s.Reservations().GetByID(ctx, p.ReservationID)
        if err != nil {
            return err
        }
        if err := a.sm.AssertCanCancel(r); err != nil {
            return err
        }
        now := a.clock.Now()

        if p.RefundDeposit {
            switch r.DepositStatus {
            case model.DepositPaid:
                fields, err := a.ledger.Refund(r, now, p.ActorID)
                if err != nil {
                    return err
                }
                if err := s.Reservations().UpdateFields(ctx, r.ID, fields); err != nil {
                    return err
                }
                refunded = true
            case model.DepositTransferred:
                // The money already left the reservation's custody.
                _, err := a.ledger.Refund(r, now, p.ActorID)
                return err
            }
            // pending / refunded / forfeited: nothing to refund.
        }

        r.Status = model.StatusCancelled
        r.CancelledAt = &now
        r.CancelledBy = &p.ActorID
        r.CancelReason = p.Reason
        if err := s.Reservations().UpdateFields(ctx, r.ID, Fields{
            "status":        string(model.StatusCancelled),
            "cancelled_at":  now,
            "cancelled_by":  p.ActorID,
            "cancel_reason": p.Reason,
        }); err != nil {
            return err
        }

        freed, err = a.reconciler.Release(ctx, s, r.ID, TableSet(r), ReleaseAfterCancel())
        if err != nil {
            return err
        }

        res = r
        events = append(events, ReservationCancelled{
            Reservation:   Snapshot(r),
            Reason:        p.Reason,
            FreedTableIDs: freed,
            CancelledBy:   p.ActorID,
            CancelledAt:   now,
        })
        if refunded {
            events = append(events, DepositRefunded{
                Reservation: Snapshot(r),
                AmountCents: r.DepositCents,
                RefundedBy:  p.ActorID,
                RefundedAt:  now,
            })
        }
        return nil
    })
    if err != nil {
        return nil, err
    }
    a.publish(ctx, events)
    return &Result{
        Reservation: res,
        Message:     "reservation cancelled",
        Meta: map[string]any{
            "table_ids":        TableSet(res),
            "freed_table_ids":  freed,
            "deposit_refunded": refunded,
        },
    }, nil
}
