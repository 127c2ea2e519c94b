package reservation

import (
    "context"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Actions bundles the six reservation transition orchestrators with their
// collaborators.  Each action follows the same shape: assert transition,
// open a unit of work, run transition-specific checks, mutate the
// reservation, apply side effects (tables, deposit, orders), commit, then
// publish events.  Events produced mid-transaction are buffered and only
// dispatched after a successful commit.
type Actions struct {
    uow        UnitOfWork
    clock      Clock
    events     EventSink
    numbers    OrderNumberSource
    sm         *StateMachine
    detector   *ConflictDetector
    reconciler *Reconciler
    ledger     *DepositLedger
}

// NewActions wires the orchestrators.  uow, clock, events and numbers are
// the injected collaborator contracts; the guard, detector, reconciler
// and ledger are the package's own stateless components.
func NewActions(uow UnitOfWork, clock Clock, events EventSink, numbers OrderNumberSource) *Actions {
    return &Actions{
        uow:        uow,
        clock:      clock,
        events:     events,
        numbers:    numbers,
        sm:         NewStateMachine(),
        detector:   NewConflictDetector(),
        reconciler: NewReconciler(),
        ledger:     NewDepositLedger(),
    }
}

// StateMachine exposes the guard layer for read-model probes (CanSeat and
// friends) without going through an action.
func (a *Actions) StateMachine() *StateMachine { return a.sm }

// Result is the structured success payload every action returns.  Meta
// carries the affected table ids and action-specific flags
// (deposit_refunded, deposit_forfeited, deposit_transferred, order_id);
// the HTTP layer translates it 1:1 into the response envelope.
type Result struct {
    Reservation *model.Reservation `json:"reservation"`
    Message     string             `json:"message"`
    Meta        map[string]any     `json:"meta"`
}

// publish dispatches buffered events after commit.  Dispatch is
// fire-and-forget by contract, so nothing here can fail the action.
func (a *Actions) publish(ctx context.Context, events []Event) {
    for _, e := range events {
        a.events.Publish(ctx, e)
    }
}

// unpaidActiveOrders returns the reservation's open/pending orders that
// still have money outstanding.  Shared by Complete and Unseat.
func unpaidActiveOrders(orders []model.Order) []model.Order {
    var unpaid []model.Order
    for i := range orders {
        if orders[i].Unpaid() {
            unpaid = append(unpaid, orders[i])
        }
    }
    return unpaid
}

// outstandingTotal sums the unpaid remainder across orders for the
// validation message when completion is blocked.
func outstandingTotal(orders []model.Order) uint32 {
    var total uint32
    for i := range orders {
        total += orders[i].OutstandingCents()
    }
    return total
}
