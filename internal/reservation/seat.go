package reservation

import (
    "context"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// SeatParams carries the inputs for Seat.
type SeatParams struct {
    ReservationID uint64
    ActorID       uint64
    // CreateOrder opens one dining order spanning the whole table set.
    CreateOrder bool
    // TransferDeposit moves a paid deposit onto the created order as
    // prepaid credit.  Only takes effect when an order is created.
    TransferDeposit bool
    // GuestCount overrides the reservation's guest count on the order
    // when non-zero.
    GuestCount uint32
}

// Seat moves a confirmed reservation to seated.  It is the most
// concurrency-sensitive action: every table in the resolved set is locked
// with "select for update" semantics before any read used for a decision,
// so two waiters seating overlapping table sets serialize and exactly one
// wins.
//
// Under the lock, ground truth is re-derived per table: a table is truly
// occupied only when a live order (new/open/cooking/ready/served, payment
// pending) exists on it.  A cached occupied flag with no such order is
// drift from upstream and is healed back to free before seating proceeds.
func (a *Actions) Seat(ctx context.Context, p SeatParams) (*Result, error) {
    var (
        res         *model.Reservation
        events      []Event
        orderID     *uint64
        transferred bool
    )
    err := a.uow.Run(ctx, func(ctx context.Context, s Store) error {
        r, err := s.Reservations().GetByID(ctx, p.ReservationID)
        if err != nil {
            return err
        }
        if err := a.sm.AssertCanSeat(r); err != nil {
            return err
        }
        tables := TableSet(r)

        locked, err := s.Tables().LockForUpdate(ctx, tables)
        if err != nil {
            return err
        }

        var (
            occupied []OccupiedTable
            stale    []uint64
        )
        for i := range locked {
            t := &locked[i]
            live, err := s.Orders().ListLiveByTable(ctx, t.ID)
            if err != nil {
                return err
            }
            if len(live) > 0 {
                ids := make([]uint64, len(live))
                for j := range live {
                    ids[j] = live[j].ID
                }
                occupied = append(occupied, OccupiedTable{TableID: t.ID, TableName: t.Name, OrderIDs: ids})
                continue
            }
            if t.Status == model.TableOccupied {
                stale = append(stale, t.ID)
            }
        }
        if len(occupied) > 0 {
            // No partial seating: one occupied table fails the action.
            return &TableOccupiedError{ReservationID: r.ID, Tables: occupied}
        }
        if len(stale) > 0 {
            // Self-healing of drift: occupied flag with no live order.
            if err := s.Tables().UpdateStatus(ctx, stale, model.TableFree); err != nil {
                return err
            }
        }

        now := a.clock.Now()
        r.Status = model.StatusSeated
        r.SeatedAt = &now
        r.SeatedBy = &p.ActorID
        if err := s.Reservations().UpdateFields(ctx, r.ID, Fields{
            "status":    string(model.StatusSeated),
            "seated_at": now,
            "seated_by": p.ActorID,
        }); err != nil {
            return err
        }
        if err := s.Tables().UpdateStatus(ctx, tables, model.TableOccupied); err != nil {
            return err
        }

        if p.CreateOrder {
            number, err := a.numbers.Next(ctx)
            if err != nil {
                return err
            }
            guests := r.GuestCount
            if p.GuestCount > 0 {
                guests = p.GuestCount
            }
            order := &model.Order{
                Number:        number,
                RestaurantID:  r.RestaurantID,
                TableID:       tables[0],
                ReservationID: &r.ID,
                CustomerID:    r.CustomerID,
                GuestCount:    guests,
                Status:        model.OrderOpen,
                PaymentStatus: model.PaymentPending,
            }
            if len(tables) > 1 {
                order.LinkedTableIDs = tables[1:]
            }
            if err := s.Orders().Create(ctx, order); err != nil {
                return err
            }
            orderID = &order.ID

            if p.TransferDeposit && a.ledger.Transferable(r) {
                fields, err := a.ledger.Transfer(r, order.ID, now, p.ActorID)
                if err != nil {
                    return err
                }
                if err := s.Reservations().UpdateFields(ctx, r.ID, fields); err != nil {
                    return err
                }
                if err := s.Orders().UpdateFields(ctx, order.ID, Fields{
                    "prepaid_cents":  r.DepositCents,
                    "prepaid_source": "reservation_deposit",
                }); err != nil {
                    return err
                }
                transferred = true
                events = append(events, DepositTransferred{
                    Reservation:   Snapshot(r),
                    AmountCents:   r.DepositCents,
                    OrderID:       order.ID,
                    TransferredBy: p.ActorID,
                    TransferredAt: now,
                })
            }
        }

        res = r
        events = append([]Event{ReservationSeated{
            Reservation:        Snapshot(r),
            TableIDs:           tables,
            OrderID:            orderID,
            DepositTransferred: transferred,
            SeatedBy:           p.ActorID,
            SeatedAt:           now,
        }}, events...)
        return nil
    })
    if err != nil {
        return nil, err
    }
    a.publish(ctx, events)
    meta := map[string]any{
        "table_ids":           TableSet(res),
        "deposit_transferred": transferred,
    }
    if orderID != nil {
        meta["order_id"] = *orderID
    }
    return &Result{
        Reservation: res,
        Message:     "guests seated",
        Meta:        meta,
    }, nil
}
