package reservation

import (
    "context"
    "fmt"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func baseReservation(id uint64, status model.Status) model.Reservation {
    return model.Reservation{
        ID:           id,
        RestaurantID: 1,
        TableID:      5,
        GuestName:    "Dana Reyes",
        GuestCount:   4,
        Date:         "2025-06-14",
        TimeFrom:     "18:00",
        TimeTo:       "20:00",
        Status:       status,
        DepositStatus: model.DepositPending,
    }
}

func baseTable(id uint64) model.Table {
    return model.Table{ID: id, RestaurantID: 1, Name: fmt.Sprintf("T%d", id), Capacity: 4, Status: model.TableFree, IsActive: true}
}

// ----- Confirm -----

func TestConfirmSuccess(t *testing.T) {
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusPending))
    store.addTable(baseTable(5))
    a, sink, now := newTestActions(store)

    res, err := a.Confirm(context.Background(), ConfirmParams{ReservationID: 101, ActorID: 9})
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, res.Reservation.Status)
    require.NotNil(t, res.Reservation.ConfirmedAt)
    assert.Equal(t, now, *res.Reservation.ConfirmedAt)
    require.NotNil(t, res.Reservation.ConfirmedBy)
    assert.Equal(t, uint64(9), *res.Reservation.ConfirmedBy)
    assert.Equal(t, []string{"reservation.confirmed"}, sink.names())

    stored := store.reservations[101]
    assert.Equal(t, model.StatusConfirmed, stored.Status)
}

func TestConfirmRejectsOverlappingSlotOnSharedTable(t *testing.T) {
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusPending))
    other := baseReservation(102, model.StatusConfirmed)
    other.TimeFrom, other.TimeTo = "19:00", "21:00"
    store.addReservation(other)
    a, sink, _ := newTestActions(store)

    _, err := a.Confirm(context.Background(), ConfirmParams{ReservationID: 101, ActorID: 9})
    var conflict *ConflictError
    require.ErrorAs(t, err, &conflict)
    require.Len(t, conflict.Conflicts, 1)
    assert.Equal(t, uint64(102), conflict.Conflicts[0].ReservationID)
    assert.Empty(t, sink.names())
    assert.Equal(t, model.StatusPending, store.reservations[101].Status)
}

func TestConfirmAllowsTouchingSlots(t *testing.T) {
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusPending))
    other := baseReservation(102, model.StatusConfirmed)
    other.TimeFrom, other.TimeTo = "20:00", "22:00" // back-to-back on the same table
    store.addReservation(other)
    a, _, _ := newTestActions(store)

    res, err := a.Confirm(context.Background(), ConfirmParams{ReservationID: 101, ActorID: 9})
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, res.Reservation.Status)
}

func TestConfirmDetectsLinkedTableCollisionBothDirections(t *testing.T) {
    // Target holds table 5 only; the candidate links table 5 as a
    // secondary. The intersection must still be found.
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusPending))
    other := baseReservation(102, model.StatusSeated)
    other.TableID = 7
    other.LinkedTableIDs = []uint64{5}
    other.TimeFrom, other.TimeTo = "19:00", "21:00"
    store.addReservation(other)
    a, _, _ := newTestActions(store)

    _, err := a.Confirm(context.Background(), ConfirmParams{ReservationID: 101, ActorID: 9})
    var conflict *ConflictError
    require.ErrorAs(t, err, &conflict)
}

func TestConfirmSkipConflictCheck(t *testing.T) {
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusPending))
    other := baseReservation(102, model.StatusConfirmed)
    other.TimeFrom, other.TimeTo = "19:00", "21:00"
    store.addReservation(other)
    a, _, _ := newTestActions(store)

    res, err := a.Confirm(context.Background(), ConfirmParams{ReservationID: 101, ActorID: 9, SkipConflictCheck: true})
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, res.Reservation.Status)
}

// ----- Seat -----

func TestSeatEndToEndWithOrderAndDepositTransfer(t *testing.T) {
    store := newMemStore()
    r := baseReservation(101, model.StatusConfirmed)
    r.LinkedTableIDs = []uint64{6}
    r.DepositCents = 1000
    r.DepositStatus = model.DepositPaid
    store.addReservation(r)
    store.addTable(baseTable(5))
    store.addTable(baseTable(6))
    a, sink, now := newTestActions(store)

    res, err := a.Seat(context.Background(), SeatParams{
        ReservationID:   101,
        ActorID:         9,
        CreateOrder:     true,
        TransferDeposit: true,
    })
    require.NoError(t, err)
    assert.Equal(t, model.StatusSeated, res.Reservation.Status)
    require.NotNil(t, res.Reservation.SeatedAt)
    assert.Equal(t, now, *res.Reservation.SeatedAt)
    assert.Equal(t, model.DepositTransferred, res.Reservation.DepositStatus)

    // Both tables flipped to occupied.
    assert.Equal(t, model.TableOccupied, store.tables[5].Status)
    assert.Equal(t, model.TableOccupied, store.tables[6].Status)

    // Order spans the set: primary first, the rest linked; deposit landed
    // as prepaid credit.
    orderID, ok := res.Meta["order_id"].(uint64)
    require.True(t, ok, "meta should carry order_id")
    order := store.orders[orderID]
    require.NotNil(t, order)
    assert.Equal(t, uint64(5), order.TableID)
    assert.Equal(t, []uint64{6}, order.LinkedTableIDs)
    assert.Equal(t, uint32(1000), order.PrepaidCents)
    assert.Equal(t, "reservation_deposit", order.PrepaidSource)
    require.NotNil(t, store.reservations[101].DepositOrderID)
    assert.Equal(t, orderID, *store.reservations[101].DepositOrderID)

    assert.Equal(t, true, res.Meta["deposit_transferred"])
    assert.Equal(t, []string{"reservation.seated", "deposit.transferred"}, sink.names())
}

func TestSeatFailsWhenTableCarriesLiveOrder(t *testing.T) {
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusConfirmed))
    tbl := baseTable(5)
    tbl.Status = model.TableOccupied
    store.addTable(tbl)
    store.addOrder(model.Order{
        RestaurantID:  1,
        TableID:       5,
        Status:        model.OrderCooking,
        PaymentStatus: model.PaymentPending,
    })
    a, sink, _ := newTestActions(store)

    _, err := a.Seat(context.Background(), SeatParams{ReservationID: 101, ActorID: 9})
    var occupied *TableOccupiedError
    require.ErrorAs(t, err, &occupied)
    require.Len(t, occupied.Tables, 1)
    assert.Equal(t, uint64(5), occupied.Tables[0].TableID)
    assert.Empty(t, sink.names())
    assert.Equal(t, model.StatusConfirmed, store.reservations[101].Status)
}

func TestSeatHealsStaleOccupiedFlag(t *testing.T) {
    // Occupied flag with no live order behind it is drift; seating heals
    // it and proceeds.
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusConfirmed))
    tbl := baseTable(5)
    tbl.Status = model.TableOccupied
    store.addTable(tbl)
    // A paid order does not count as live.
    store.addOrder(model.Order{
        RestaurantID:  1,
        TableID:       5,
        Status:        model.OrderServed,
        PaymentStatus: model.PaymentPaid,
    })
    a, _, _ := newTestActions(store)

    res, err := a.Seat(context.Background(), SeatParams{ReservationID: 101, ActorID: 9})
    require.NoError(t, err)
    assert.Equal(t, model.StatusSeated, res.Reservation.Status)
    assert.Equal(t, model.TableOccupied, store.tables[5].Status)
}

func TestSeatDoesNotTransferUnpaidDeposit(t *testing.T) {
    store := newMemStore()
    r := baseReservation(101, model.StatusConfirmed)
    r.DepositCents = 1000
    r.DepositStatus = model.DepositPending // requested but never paid
    store.addReservation(r)
    store.addTable(baseTable(5))
    a, sink, _ := newTestActions(store)

    res, err := a.Seat(context.Background(), SeatParams{
        ReservationID:   101,
        ActorID:         9,
        CreateOrder:     true,
        TransferDeposit: true,
    })
    require.NoError(t, err)
    assert.Equal(t, false, res.Meta["deposit_transferred"])
    assert.Equal(t, model.DepositPending, store.reservations[101].DepositStatus)
    assert.Equal(t, []string{"reservation.seated"}, sink.names())
}

func TestSeatMutualExclusionOnSharedTable(t *testing.T) {
    // Two confirmed reservations share table 5. Two concurrent seatings
    // serialize on the lock; exactly one wins and the loser sees the
    // winner's live order.
    store := newMemStore()
    a1 := baseReservation(101, model.StatusConfirmed)
    a2 := baseReservation(102, model.StatusConfirmed)
    a2.TimeFrom, a2.TimeTo = "18:30", "20:30"
    store.addReservation(a1)
    store.addReservation(a2)
    store.addTable(baseTable(5))
    a, _, _ := newTestActions(store)

    var wg sync.WaitGroup
    errs := make([]error, 2)
    for i, id := range []uint64{101, 102} {
        wg.Add(1)
        go func(i int, id uint64) {
            defer wg.Done()
            _, errs[i] = a.Seat(context.Background(), SeatParams{ReservationID: id, ActorID: 9, CreateOrder: true})
        }(i, id)
    }
    wg.Wait()

    var wins, occupiedErrs int
    for _, err := range errs {
        if err == nil {
            wins++
            continue
        }
        var occupied *TableOccupiedError
        require.ErrorAs(t, err, &occupied)
        occupiedErrs++
    }
    assert.Equal(t, 1, wins, "exactly one seat must win")
    assert.Equal(t, 1, occupiedErrs, "the loser must see the table occupied")
}

// ----- Complete -----

func seatedFixture(store *memStore) {
    r := baseReservation(101, model.StatusSeated)
    r.LinkedTableIDs = []uint64{6}
    store.addReservation(r)
    t5, t6 := baseTable(5), baseTable(6)
    t5.Status, t6.Status = model.TableOccupied, model.TableOccupied
    store.addTable(t5)
    store.addTable(t6)
}

func TestCompleteBlockedByUnpaidOrder(t *testing.T) {
    store := newMemStore()
    seatedFixture(store)
    rid := uint64(101)
    store.addOrder(model.Order{
        RestaurantID:  1,
        TableID:       5,
        ReservationID: &rid,
        Status:        model.OrderOpen,
        PaymentStatus: model.PaymentPending,
        TotalCents:    5000,
        PaidCents:     3000,
    })
    a, sink, _ := newTestActions(store)

    _, err := a.Complete(context.Background(), CompleteParams{ReservationID: 101, ActorID: 9})
    var invalid *ValidationError
    require.ErrorAs(t, err, &invalid)
    assert.Equal(t, "orders_unpaid", invalid.Rule)
    assert.Contains(t, invalid.Detail, "2000 cents outstanding")
    assert.Empty(t, sink.names())
    assert.Equal(t, model.StatusSeated, store.reservations[101].Status)
}

func TestCompleteForceClosesOrdersAndFreesTables(t *testing.T) {
    store := newMemStore()
    seatedFixture(store)
    rid := uint64(101)
    store.addOrder(model.Order{
        ID:            7001,
        RestaurantID:  1,
        TableID:       5,
        ReservationID: &rid,
        Status:        model.OrderOpen,
        PaymentStatus: model.PaymentPending,
        TotalCents:    5000,
    })
    a, sink, now := newTestActions(store)

    res, err := a.Complete(context.Background(), CompleteParams{ReservationID: 101, ActorID: 9, Force: true})
    require.NoError(t, err)
    assert.Equal(t, model.StatusCompleted, res.Reservation.Status)

    closed := store.orders[7001]
    assert.Equal(t, model.OrderCompleted, closed.Status)
    require.NotNil(t, closed.ClosedAt)
    assert.Equal(t, now, *closed.ClosedAt)

    assert.Equal(t, model.TableFree, store.tables[5].Status)
    assert.Equal(t, model.TableFree, store.tables[6].Status)
    assert.ElementsMatch(t, []uint64{5, 6}, res.Meta["freed_table_ids"])
    assert.Equal(t, []string{"reservation.completed"}, sink.names())
}

func TestCompleteWithPaidOrdersSucceedsWithoutForce(t *testing.T) {
    store := newMemStore()
    seatedFixture(store)
    a, _, _ := newTestActions(store)

    res, err := a.Complete(context.Background(), CompleteParams{ReservationID: 101, ActorID: 9})
    require.NoError(t, err)
    assert.Equal(t, model.StatusCompleted, res.Reservation.Status)
}

// ----- Unseat -----

func TestUnseatRevertsToConfirmedWithoutEvents(t *testing.T) {
    store := newMemStore()
    seatedFixture(store)
    a, sink, _ := newTestActions(store)

    res, err := a.Unseat(context.Background(), UnseatParams{ReservationID: 101, ActorID: 9})
    require.NoError(t, err)
    // Back to confirmed, never all the way to pending.
    assert.Equal(t, model.StatusConfirmed, res.Reservation.Status)
    assert.Equal(t, model.TableFree, store.tables[5].Status)
    assert.Empty(t, sink.names(), "unseat publishes no events")
}

func TestUnseatBlockedByUnpaidOrderUnlessForced(t *testing.T) {
    store := newMemStore()
    seatedFixture(store)
    rid := uint64(101)
    store.addOrder(model.Order{
        RestaurantID:  1,
        TableID:       5,
        ReservationID: &rid,
        Status:        model.OrderPending,
        PaymentStatus: model.PaymentPending,
        TotalCents:    2500,
    })
    a, _, _ := newTestActions(store)

    _, err := a.Unseat(context.Background(), UnseatParams{ReservationID: 101, ActorID: 9})
    var invalid *ValidationError
    require.ErrorAs(t, err, &invalid)

    res, err := a.Unseat(context.Background(), UnseatParams{ReservationID: 101, ActorID: 9, Force: true})
    require.NoError(t, err)
    assert.Equal(t, model.StatusConfirmed, res.Reservation.Status)
    // The active order keeps its table; only the free one releases.
    assert.Equal(t, model.TableOccupied, store.tables[5].Status)
    assert.Equal(t, model.TableFree, store.tables[6].Status)
}

// ----- Cancel -----

func TestCancelRefundsPaidDeposit(t *testing.T) {
    store := newMemStore()
    r := baseReservation(101, model.StatusConfirmed)
    r.DepositCents = 1000
    r.DepositStatus = model.DepositPaid
    store.addReservation(r)
    store.addTable(baseTable(5))
    a, sink, now := newTestActions(store)

    res, err := a.Cancel(context.Background(), CancelParams{
        ReservationID: 101,
        ActorID:       9,
        Reason:        "guest called to cancel",
        RefundDeposit: true,
    })
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, res.Reservation.Status)
    assert.Equal(t, "guest called to cancel", res.Reservation.CancelReason)
    assert.Equal(t, model.DepositRefunded, res.Reservation.DepositStatus)
    require.NotNil(t, res.Reservation.DepositRefundedAt)
    assert.Equal(t, now, *res.Reservation.DepositRefundedAt)
    assert.Equal(t, true, res.Meta["deposit_refunded"])
    assert.Equal(t, []string{"reservation.cancelled", "deposit.refunded"}, sink.names())
    assert.Equal(t, model.TableFree, store.tables[5].Status)
}

func TestCancelRefundOfTransferredDepositIsHardError(t *testing.T) {
    store := newMemStore()
    r := baseReservation(101, model.StatusConfirmed)
    r.DepositCents = 1000
    r.DepositStatus = model.DepositTransferred
    store.addReservation(r)
    store.addTable(baseTable(5))
    a, sink, _ := newTestActions(store)

    _, err := a.Cancel(context.Background(), CancelParams{ReservationID: 101, ActorID: 9, RefundDeposit: true})
    var dep *DepositError
    require.ErrorAs(t, err, &dep)
    assert.Equal(t, model.DepositTransferred, dep.Status)
    // Nothing happened: status intact, no events.
    assert.Equal(t, model.StatusConfirmed, store.reservations[101].Status)
    assert.Empty(t, sink.names())
}

func TestCancelSilentlySkipsUnpaidDeposit(t *testing.T) {
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusPending)) // deposit pending
    store.addTable(baseTable(5))
    a, sink, _ := newTestActions(store)

    res, err := a.Cancel(context.Background(), CancelParams{ReservationID: 101, ActorID: 9, RefundDeposit: true})
    require.NoError(t, err)
    assert.Equal(t, model.StatusCancelled, res.Reservation.Status)
    assert.Equal(t, false, res.Meta["deposit_refunded"])
    assert.Equal(t, model.DepositPending, store.reservations[101].DepositStatus)
    assert.Equal(t, []string{"reservation.cancelled"}, sink.names())
}

// ----- MarkNoShow -----

func TestMarkNoShowForfeitsDepositAndAppendsNotes(t *testing.T) {
    store := newMemStore()
    r := baseReservation(101, model.StatusConfirmed)
    r.DepositCents = 1000
    r.DepositStatus = model.DepositPaid
    r.Notes = "window seat requested"
    store.addReservation(r)
    store.addTable(baseTable(5))
    a, sink, _ := newTestActions(store)

    res, err := a.MarkNoShow(context.Background(), NoShowParams{
        ReservationID:  101,
        ActorID:        9,
        ForfeitDeposit: true,
        Notes:          "waited 30 minutes",
    })
    require.NoError(t, err)
    assert.Equal(t, model.StatusNoShow, res.Reservation.Status)
    assert.Equal(t, model.DepositForfeited, res.Reservation.DepositStatus)
    // Prior notes survive; the new line is annotated.
    assert.Equal(t, "window seat requested\n[No-show] waited 30 minutes", res.Reservation.Notes)
    assert.Equal(t, true, res.Meta["deposit_forfeited"])
    assert.Equal(t, []string{"reservation.no_show", "deposit.forfeited"}, sink.names())
}

func TestMarkNoShowForfeitOfTransferredDepositIsHardError(t *testing.T) {
    store := newMemStore()
    r := baseReservation(101, model.StatusConfirmed)
    r.DepositStatus = model.DepositTransferred
    store.addReservation(r)
    store.addTable(baseTable(5))
    a, _, _ := newTestActions(store)

    _, err := a.MarkNoShow(context.Background(), NoShowParams{ReservationID: 101, ActorID: 9, ForfeitDeposit: true})
    var dep *DepositError
    require.ErrorAs(t, err, &dep)
    assert.Equal(t, model.StatusConfirmed, store.reservations[101].Status)
}

// ----- Reconciliation -----

func TestReleaseDecidesPerTable(t *testing.T) {
    // A holds {5,6}; B is confirmed on 6 only. Cancelling A frees 5 but
    // leaves 6 claimed by B.
    store := newMemStore()
    a1 := baseReservation(101, model.StatusConfirmed)
    a1.LinkedTableIDs = []uint64{6}
    store.addReservation(a1)
    b := baseReservation(102, model.StatusConfirmed)
    b.TableID = 6
    b.TimeFrom, b.TimeTo = "20:00", "22:00"
    store.addReservation(b)
    t5, t6 := baseTable(5), baseTable(6)
    t5.Status, t6.Status = model.TableReserved, model.TableReserved
    store.addTable(t5)
    store.addTable(t6)
    a, _, _ := newTestActions(store)

    res, err := a.Cancel(context.Background(), CancelParams{ReservationID: 101, ActorID: 9})
    require.NoError(t, err)
    assert.Equal(t, []uint64{5}, res.Meta["freed_table_ids"])
    assert.Equal(t, model.TableFree, store.tables[5].Status)
    assert.Equal(t, model.TableReserved, store.tables[6].Status)
}

func TestReleaseNeverClobbersUnrelatedLiveOrder(t *testing.T) {
    // No reservation claims table 5, but a walk-in's live order does.
    store := newMemStore()
    store.addReservation(baseReservation(101, model.StatusConfirmed))
    tbl := baseTable(5)
    tbl.Status = model.TableOccupied
    store.addTable(tbl)
    store.addOrder(model.Order{
        RestaurantID:  1,
        TableID:       5,
        Status:        model.OrderServed,
        PaymentStatus: model.PaymentPending,
    })
    a, _, _ := newTestActions(store)

    res, err := a.Cancel(context.Background(), CancelParams{ReservationID: 101, ActorID: 9})
    require.NoError(t, err)
    assert.Empty(t, res.Meta["freed_table_ids"])
    assert.Equal(t, model.TableOccupied, store.tables[5].Status)
}

// ----- Terminal idempotence -----

func TestActionsOnTerminalReservationHaveNoSideEffects(t *testing.T) {
    store := newMemStore()
    r := baseReservation(101, model.StatusCancelled)
    r.DepositCents = 1000
    r.DepositStatus = model.DepositPaid
    store.addReservation(r)
    tbl := baseTable(5)
    tbl.Status = model.TableReserved
    store.addTable(tbl)
    a, sink, _ := newTestActions(store)

    ctx := context.Background()
    calls := []func() error{
        func() error { _, err := a.Confirm(ctx, ConfirmParams{ReservationID: 101, ActorID: 9}); return err },
        func() error { _, err := a.Seat(ctx, SeatParams{ReservationID: 101, ActorID: 9}); return err },
        func() error { _, err := a.Unseat(ctx, UnseatParams{ReservationID: 101, ActorID: 9}); return err },
        func() error { _, err := a.Complete(ctx, CompleteParams{ReservationID: 101, ActorID: 9}); return err },
        func() error {
            _, err := a.Cancel(ctx, CancelParams{ReservationID: 101, ActorID: 9, RefundDeposit: true})
            return err
        },
        func() error {
            _, err := a.MarkNoShow(ctx, NoShowParams{ReservationID: 101, ActorID: 9, ForfeitDeposit: true})
            return err
        },
    }
    for _, call := range calls {
        err := call()
        var tr *InvalidStateTransitionError
        require.ErrorAs(t, err, &tr)
    }
    // Zero side effects across all six rejections.
    assert.Equal(t, model.StatusCancelled, store.reservations[101].Status)
    assert.Equal(t, model.DepositPaid, store.reservations[101].DepositStatus)
    assert.Equal(t, model.TableReserved, store.tables[5].Status)
    assert.Empty(t, sink.names())
    assert.Empty(t, store.orders)
}
