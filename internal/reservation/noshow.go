package reservation

import (
    "context"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// NoShowParams carries the inputs for MarkNoShow.
type NoShowParams struct {
    ReservationID uint64
    ActorID       uint64
    // ForfeitDeposit keeps a paid deposit for the restaurant.  Distinct
    // from a refund: forfeiture means the house keeps the money, refund
    // means the guest gets it back.
    ForfeitDeposit bool
    // Notes, when set, is appended to the reservation's notes with a
    // [No-show] marker; prior notes are never overwritten.
    Notes string
}

// MarkNoShow moves a confirmed reservation to no_show, optionally
// forfeits the deposit, appends annotated notes and releases the tables
// unless another confirmed/seated reservation still claims them.
func (a *Actions) MarkNoShow(ctx context.Context, p NoShowParams) (*Result, error) {
    var (
        res       *model.Reservation
        events    []Event
        freed     []uint64
        forfeited bool
    )
    err := a.uow.Run(ctx, func(ctx context.Context, s Store) error {
        r, err := s.Reservations().GetByID(ctx, p.ReservationID)
        if err != nil {
            return err
        }
        if err := a.sm.AssertCanMarkNoShow(r); err != nil {
            return err
        }
        now := a.clock.Now()

        if p.ForfeitDeposit {
            switch r.DepositStatus {
            case model.DepositPaid:
                fields, err := a.ledger.Forfeit(r, now, p.ActorID)
                if err != nil {
                    return err
                }
                if err := s.Reservations().UpdateFields(ctx, r.ID, fields); err != nil {
                    return err
                }
                forfeited = true
            case model.DepositTransferred:
                _, err := a.ledger.Forfeit(r, now, p.ActorID)
                return err
            }
        }

        fields := Fields{
            "status":     string(model.StatusNoShow),
            "no_show_at": now,
            "no_show_by": p.ActorID,
        }
        r.Status = model.StatusNoShow
        r.NoShowAt = &now
        r.NoShowBy = &p.ActorID
        if p.Notes != "" {
            note := "[No-show] " + p.Notes
            if r.Notes != "" {
                note = r.Notes + "\n" + note
            }
            r.Notes = note
            fields["notes"] = note
        }
        if err := s.Reservations().UpdateFields(ctx, r.ID, fields); err != nil {
            return err
        }

        freed, err = a.reconciler.Release(ctx, s, r.ID, TableSet(r), ReleaseAfterCancel())
        if err != nil {
            return err
        }

        res = r
        events = append(events, ReservationNoShow{
            Reservation:   Snapshot(r),
            FreedTableIDs: freed,
            MarkedBy:      p.ActorID,
            MarkedAt:      now,
        })
        if forfeited {
            events = append(events, DepositForfeited{
                Reservation: Snapshot(r),
                AmountCents: r.DepositCents,
                ForfeitedBy: p.ActorID,
                ForfeitedAt: now,
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
        Message:     "reservation marked as no-show",
        Meta: map[string]any{
            "table_ids":         TableSet(res),
            "freed_table_ids":   freed,
            "deposit_forfeited": forfeited,
        },
    }, nil
}
