package reservation

import (
    "context"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// This file declares the collaborator contracts the actions depend on.
// Production wiring lives in internal/repository (MySQL) and
// internal/service (AMQP); tests inject in-memory doubles.  The core
// never reaches for a global transaction or a static dispatcher.

// Fields is a partial update: column name to new value.  Stores apply it
// atomically inside the surrounding transaction.
type Fields map[string]any

// ReservationStore provides the reservation reads and writes the actions
// need.  All methods operate inside the unit of work that produced the
// store.
type ReservationStore interface {
    // GetByID loads one reservation with linked tables already normalized.
    GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
    // UpdateFields applies a partial update to one reservation row.
    UpdateFields(ctx context.Context, id uint64, f Fields) error
    // ListActive returns reservations for the restaurant and date whose
    // status is in the given set, excluding excludeID.  Used as the
    // candidate pool for conflict detection and reconciliation.
    ListActive(ctx context.Context, restaurantID uint64, date string, statuses []model.Status, excludeID uint64) ([]model.Reservation, error)
    // ExistsOnTable reports whether any reservation other than excludeID
    // references the table (primary or linked) with a status in the set.
    ExistsOnTable(ctx context.Context, tableID uint64, statuses []model.Status, excludeID uint64) (bool, error)
}

// TableStore provides table reads, status writes and the row-level lock
// Seat relies on for mutual exclusion.
type TableStore interface {
    // GetByIDs loads the given tables without locking.
    GetByIDs(ctx context.Context, ids []uint64) ([]model.Table, error)
    // LockForUpdate loads the given tables with exclusive row locks
    // ("select for update" semantics).  Concurrent callers on overlapping
    // ids serialize; the second caller observes the first's committed
    // state.  Must be called inside a transaction.
    LockForUpdate(ctx context.Context, ids []uint64) ([]model.Table, error)
    // UpdateStatus sets the cached status flag on every listed table.
    UpdateStatus(ctx context.Context, ids []uint64, status model.TableStatus) error
}

// OrderStore provides the order reads and writes the actions need.  The
// core consults orders to gate transitions on payment state and creates
// one when seating; the order service owns everything else.
type OrderStore interface {
    // ListActiveByReservation returns the reservation's orders whose
    // status is in the given set.
    ListActiveByReservation(ctx context.Context, reservationID uint64, statuses []model.OrderStatus) ([]model.Order, error)
    // ListLiveByTable returns orders on the table with a live kitchen
    // status and payment still pending, the ground truth behind a
    // table's occupied flag.
    ListLiveByTable(ctx context.Context, tableID uint64) ([]model.Order, error)
    // ExistsActiveOnTable reports whether the table carries any order
    // with a status in the given set.
    ExistsActiveOnTable(ctx context.Context, tableID uint64, statuses []model.OrderStatus) (bool, error)
    // UpdateFields applies a partial update to one order row.
    UpdateFields(ctx context.Context, id uint64, f Fields) error
    // Create inserts a new order and populates its generated ID.
    Create(ctx context.Context, o *model.Order) error
}

// Store bundles the per-aggregate stores bound to one transaction.
type Store interface {
    Reservations() ReservationStore
    Tables() TableStore
    Orders() OrderStore
}

// UnitOfWork runs fn inside a single atomic transaction.  If fn returns
// an error the transaction rolls back and the error propagates untouched;
// otherwise the transaction commits.
type UnitOfWork interface {
    Run(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}

// Clock provides the single "now" used for every timestamp an action
// stamps.  Injectable for deterministic tests.
type Clock interface {
    Now() time.Time
}

// SystemClock is the production Clock; it reports UTC wall time.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// EventSink receives domain events after a successful commit.  Dispatch
// is fire-and-forget: a failing sink never fails the action.
type EventSink interface {
    Publish(ctx context.Context, e Event)
}

// OrderNumberSource yields order numbers for orders opened while seating.
// The numbering scheme itself is external.
type OrderNumberSource interface {
    Next(ctx context.Context) (string, error)
}
