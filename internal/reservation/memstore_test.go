package reservation

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// In-memory doubles for the collaborator contracts.  memUnitOfWork holds
// one big lock for the duration of fn, which models the serialization a
// row lock provides: concurrent actions on the same store run one after
// the other and the second observes the first's committed state.

type memStore struct {
    mu           sync.Mutex
    reservations map[uint64]*model.Reservation
    tables       map[uint64]*model.Table
    orders       map[uint64]*model.Order
    nextOrderID  uint64
}

func newMemStore() *memStore {
    return &memStore{
        reservations: map[uint64]*model.Reservation{},
        tables:       map[uint64]*model.Table{},
        orders:       map[uint64]*model.Order{},
        nextOrderID:  5000,
    }
}

func (m *memStore) addReservation(r model.Reservation) *memStore {
    cp := r
    m.reservations[r.ID] = &cp
    return m
}

func (m *memStore) addTable(t model.Table) *memStore {
    cp := t
    m.tables[t.ID] = &cp
    return m
}

func (m *memStore) addOrder(o model.Order) *memStore {
    cp := o
    if cp.ID == 0 {
        m.nextOrderID++
        cp.ID = m.nextOrderID
    }
    m.orders[cp.ID] = &cp
    return m
}

type memUnitOfWork struct {
    store *memStore
}

func (u *memUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
    u.store.mu.Lock()
    defer u.store.mu.Unlock()
    // No rollback: the doubles apply writes immediately.  Tests that
    // assert on failed actions only check that no writes happened before
    // the failing step, which holds for every action's ordering.
    return fn(ctx, &memTx{store: u.store})
}

type memTx struct {
    store *memStore
}

func (t *memTx) Reservations() ReservationStore { return &memReservations{t.store} }
func (t *memTx) Tables() TableStore             { return &memTables{t.store} }
func (t *memTx) Orders() OrderStore             { return &memOrders{t.store} }

// ----- reservations -----

type memReservations struct{ s *memStore }

func (m *memReservations) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    r, ok := m.s.reservations[id]
    if !ok {
        return nil, fmt.Errorf("reservation %d not found", id)
    }
    cp := *r
    return &cp, nil
}

func (m *memReservations) UpdateFields(ctx context.Context, id uint64, f Fields) error {
    r, ok := m.s.reservations[id]
    if !ok {
        return fmt.Errorf("reservation %d not found", id)
    }
    for k, v := range f {
        switch k {
        case "status":
            r.Status = model.Status(v.(string))
        case "confirmed_at":
            tv := v.(time.Time)
            r.ConfirmedAt = &tv
        case "confirmed_by":
            id := v.(uint64)
            r.ConfirmedBy = &id
        case "seated_at":
            tv := v.(time.Time)
            r.SeatedAt = &tv
        case "seated_by":
            id := v.(uint64)
            r.SeatedBy = &id
        case "completed_at":
            tv := v.(time.Time)
            r.CompletedAt = &tv
        case "completed_by":
            id := v.(uint64)
            r.CompletedBy = &id
        case "cancelled_at":
            tv := v.(time.Time)
            r.CancelledAt = &tv
        case "cancelled_by":
            id := v.(uint64)
            r.CancelledBy = &id
        case "cancel_reason":
            r.CancelReason = v.(string)
        case "no_show_at":
            tv := v.(time.Time)
            r.NoShowAt = &tv
        case "no_show_by":
            id := v.(uint64)
            r.NoShowBy = &id
        case "notes":
            r.Notes = v.(string)
        case "deposit_status":
            r.DepositStatus = model.DepositStatus(v.(string))
        case "deposit_refunded_at":
            tv := v.(time.Time)
            r.DepositRefundedAt = &tv
        case "deposit_refunded_by":
            id := v.(uint64)
            r.DepositRefundedBy = &id
        case "deposit_forfeited_at":
            tv := v.(time.Time)
            r.DepositForfeitedAt = &tv
        case "deposit_forfeited_by":
            id := v.(uint64)
            r.DepositForfeitedBy = &id
        case "deposit_transferred_at":
            tv := v.(time.Time)
            r.DepositTransferredAt = &tv
        case "deposit_transferred_by":
            id := v.(uint64)
            r.DepositTransferredBy = &id
        case "deposit_order_id":
            id := v.(uint64)
            r.DepositOrderID = &id
        default:
            return fmt.Errorf("memReservations: unknown field %q", k)
        }
    }
    return nil
}

func (m *memReservations) ListActive(ctx context.Context, restaurantID uint64, date string, statuses []model.Status, excludeID uint64) ([]model.Reservation, error) {
    var out []model.Reservation
    for _, r := range m.s.reservations {
        if r.ID == excludeID || r.RestaurantID != restaurantID || r.Date != date {
            continue
        }
        if statusIn(r.Status, statuses) {
            out = append(out, *r)
        }
    }
    return out, nil
}

func (m *memReservations) ExistsOnTable(ctx context.Context, tableID uint64, statuses []model.Status, excludeID uint64) (bool, error) {
    for _, r := range m.s.reservations {
        if r.ID == excludeID || !statusIn(r.Status, statuses) {
            continue
        }
        for _, id := range TableSet(r) {
            if id == tableID {
                return true, nil
            }
        }
    }
    return false, nil
}

func statusIn(s model.Status, set []model.Status) bool {
    for _, v := range set {
        if v == s {
            return true
        }
    }
    return false
}

// ----- tables -----

type memTables struct{ s *memStore }

func (m *memTables) fetch(ids []uint64) ([]model.Table, error) {
    out := make([]model.Table, 0, len(ids))
    for _, id := range ids {
        t, ok := m.s.tables[id]
        if !ok {
            return nil, fmt.Errorf("table %d not found", id)
        }
        out = append(out, *t)
    }
    return out, nil
}

func (m *memTables) GetByIDs(ctx context.Context, ids []uint64) ([]model.Table, error) {
    return m.fetch(ids)
}

func (m *memTables) LockForUpdate(ctx context.Context, ids []uint64) ([]model.Table, error) {
    // The unit-of-work lock already serializes; a plain read suffices.
    return m.fetch(ids)
}

func (m *memTables) UpdateStatus(ctx context.Context, ids []uint64, status model.TableStatus) error {
    for _, id := range ids {
        t, ok := m.s.tables[id]
        if !ok {
            return fmt.Errorf("table %d not found", id)
        }
        t.Status = status
    }
    return nil
}

// ----- orders -----

type memOrders struct{ s *memStore }

func orderStatusIn(s model.OrderStatus, set []model.OrderStatus) bool {
    for _, v := range set {
        if v == s {
            return true
        }
    }
    return false
}

func orderOnTable(o *model.Order, tableID uint64) bool {
    if o.TableID == tableID {
        return true
    }
    for _, id := range o.LinkedTableIDs {
        if id == tableID {
            return true
        }
    }
    return false
}

func (m *memOrders) ListActiveByReservation(ctx context.Context, reservationID uint64, statuses []model.OrderStatus) ([]model.Order, error) {
    var out []model.Order
    for _, o := range m.s.orders {
        if o.ReservationID == nil || *o.ReservationID != reservationID {
            continue
        }
        if orderStatusIn(o.Status, statuses) {
            out = append(out, *o)
        }
    }
    return out, nil
}

func (m *memOrders) ListLiveByTable(ctx context.Context, tableID uint64) ([]model.Order, error) {
    var out []model.Order
    for _, o := range m.s.orders {
        if !orderOnTable(o, tableID) || o.PaymentStatus != model.PaymentPending {
            continue
        }
        if orderStatusIn(o.Status, model.LiveOrderStatuses) {
            out = append(out, *o)
        }
    }
    return out, nil
}

func (m *memOrders) ExistsActiveOnTable(ctx context.Context, tableID uint64, statuses []model.OrderStatus) (bool, error) {
    for _, o := range m.s.orders {
        if orderOnTable(o, tableID) && orderStatusIn(o.Status, statuses) {
            return true, nil
        }
    }
    return false, nil
}

func (m *memOrders) UpdateFields(ctx context.Context, id uint64, f Fields) error {
    o, ok := m.s.orders[id]
    if !ok {
        return fmt.Errorf("order %d not found", id)
    }
    for k, v := range f {
        switch k {
        case "status":
            o.Status = model.OrderStatus(v.(string))
        case "closed_at":
            tv := v.(time.Time)
            o.ClosedAt = &tv
        case "prepaid_cents":
            o.PrepaidCents = v.(uint32)
        case "prepaid_source":
            o.PrepaidSource = v.(string)
        default:
            return fmt.Errorf("memOrders: unknown field %q", k)
        }
    }
    return nil
}

func (m *memOrders) Create(ctx context.Context, o *model.Order) error {
    m.s.nextOrderID++
    o.ID = m.s.nextOrderID
    cp := *o
    m.s.orders[cp.ID] = &cp
    return nil
}

// ----- clock, sink, numbers -----

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type captureSink struct {
    mu     sync.Mutex
    events []Event
}

func (s *captureSink) Publish(ctx context.Context, e Event) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.events = append(s.events, e)
}

func (s *captureSink) names() []string {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]string, len(s.events))
    for i, e := range s.events {
        out[i] = e.Name()
    }
    return out
}

type seqNumbers struct {
    mu sync.Mutex
    n  int
}

func (s *seqNumbers) Next(ctx context.Context) (string, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.n++
    return fmt.Sprintf("ORD-TEST-%04d", s.n), nil
}

// newTestActions wires Actions against the in-memory doubles with a
// fixed clock.
func newTestActions(store *memStore) (*Actions, *captureSink, time.Time) {
    now := time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)
    sink := &captureSink{}
    a := NewActions(&memUnitOfWork{store: store}, fixedClock{t: now}, sink, &seqNumbers{})
    return a, sink, now
}
