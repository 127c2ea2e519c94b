package repository

import (
    "context"
    "database/sql"
    "sort"
    "strconv"
    "strings"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/reservation"
)

// OrderRepo provides the order reads and writes the reservation core
// needs: payment-state gating on Complete/Unseat, live-order detection
// under Seat's table locks, and creation of the order opened while
// seating.  Everything else about orders belongs to the order service.
type OrderRepo struct {
    tx dbtx
}

// NewOrderRepo returns an OrderRepo for non-transactional reads.
// Transactional instances are produced by the unit of work.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{tx: db} }

const orderColumns = `id, number, restaurant_id, table_id, linked_table_ids, reservation_id, customer_id,
       guest_count, status, payment_status, total_cents, paid_cents, prepaid_cents, prepaid_source,
       paid_at, closed_at, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*model.Order, error) {
    var (
        o             model.Order
        linked        []byte
        reservationID sql.NullInt64
        customerID    sql.NullInt64
        prepaidSource sql.NullString
        paidAt        sql.NullTime
        closedAt      sql.NullTime
    )
    err := row.Scan(
        &o.ID, &o.Number, &o.RestaurantID, &o.TableID, &linked, &reservationID, &customerID,
        &o.GuestCount, &o.Status, &o.PaymentStatus, &o.TotalCents, &o.PaidCents, &o.PrepaidCents, &prepaidSource,
        &paidAt, &closedAt, &o.CreatedAt, &o.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    o.LinkedTableIDs = model.ParseLinkedTableIDs(linked)
    o.ReservationID = nullID(reservationID)
    o.CustomerID = nullID(customerID)
    o.PrepaidSource = prepaidSource.String
    o.PaidAt = nullTime(paidAt)
    o.ClosedAt = nullTime(closedAt)
    return &o, nil
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
    rows, err := r.tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Order
    for rows.Next() {
        o, err := scanOrder(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *o)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

func statusPlaceholders(statuses []model.OrderStatus) (string, []any) {
    args := make([]any, len(statuses))
    for i, s := range statuses {
        args[i] = string(s)
    }
    return strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ","), args
}

// ListActiveByReservation returns the reservation's orders whose status
// is in the given set.
func (r *OrderRepo) ListActiveByReservation(ctx context.Context, reservationID uint64, statuses []model.OrderStatus) ([]model.Order, error) {
    if len(statuses) == 0 {
        return nil, nil
    }
    ph, statusArgs := statusPlaceholders(statuses)
    query := `SELECT ` + orderColumns + ` FROM orders WHERE reservation_id = ? AND status IN (` + ph + `)`
    args := append([]any{reservationID}, statusArgs...)
    return r.list(ctx, query, args...)
}

// ListLiveByTable returns orders that make the table truly occupied: a
// live kitchen status with payment still pending, on the table directly
// or through the order's linked set.  Linked membership is verified in
// Go for the same double-encoding reason as reservations.
func (r *OrderRepo) ListLiveByTable(ctx context.Context, tableID uint64) ([]model.Order, error) {
    ph, statusArgs := statusPlaceholders(model.LiveOrderStatuses)
    query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status IN (` + ph + `) AND payment_status = ?
                AND (table_id = ? OR linked_table_ids LIKE ?)`
    args := append(statusArgs, string(model.PaymentPending), tableID, "%"+strconv.FormatUint(tableID, 10)+"%")
    orders, err := r.list(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    out := orders[:0]
    for i := range orders {
        if orderOnTable(&orders[i], tableID) {
            out = append(out, orders[i])
        }
    }
    if len(out) == 0 {
        return nil, nil
    }
    return out, nil
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

// ExistsActiveOnTable reports whether the table carries any order with a
// status in the given set.
func (r *OrderRepo) ExistsActiveOnTable(ctx context.Context, tableID uint64, statuses []model.OrderStatus) (bool, error) {
    if len(statuses) == 0 {
        return false, nil
    }
    ph, statusArgs := statusPlaceholders(statuses)
    query := `SELECT ` + orderColumns + ` FROM orders
              WHERE status IN (` + ph + `) AND (table_id = ? OR linked_table_ids LIKE ?)`
    args := append(statusArgs, tableID, "%"+strconv.FormatUint(tableID, 10)+"%")
    orders, err := r.list(ctx, query, args...)
    if err != nil {
        return false, err
    }
    for i := range orders {
        if orderOnTable(&orders[i], tableID) {
            return true, nil
        }
    }
    return false, nil
}

// UpdateFields applies a partial update to one order row.
func (r *OrderRepo) UpdateFields(ctx context.Context, id uint64, f reservation.Fields) error {
    if len(f) == 0 {
        return nil
    }
    keys := make([]string, 0, len(f))
    for k := range f {
        keys = append(keys, k)
    }
    sort.Strings(keys)
    sets := make([]string, 0, len(keys)+1)
    args := make([]any, 0, len(keys)+1)
    for _, k := range keys {
        sets = append(sets, k+" = ?")
        args = append(args, normalizeArg(f[k]))
    }
    sets = append(sets, "updated_at = UTC_TIMESTAMP()")
    args = append(args, id)
    query := "UPDATE orders SET " + strings.Join(sets, ", ") + " WHERE id = ?"
    _, err := r.tx.ExecContext(ctx, query, args...)
    return err
}

// Create inserts a new order and populates its generated ID and the
// database-defaulted timestamps.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
    const q = `INSERT INTO orders
               (number, restaurant_id, table_id, linked_table_ids, reservation_id, customer_id,
                guest_count, status, payment_status, total_cents, paid_cents, prepaid_cents, prepaid_source)
               VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
    res, err := r.tx.ExecContext(ctx, q,
        o.Number, o.RestaurantID, o.TableID, model.EncodeLinkedTableIDs(o.LinkedTableIDs),
        nullableID(o.ReservationID), nullableID(o.CustomerID),
        o.GuestCount, string(o.Status), string(o.PaymentStatus),
        o.TotalCents, o.PaidCents, o.PrepaidCents, emptyNull(o.PrepaidSource),
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    // Query back to populate timestamps and defaults.
    created, err := scanOrder(r.tx.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, o.ID))
    if err != nil {
        return err
    }
    *o = *created
    return nil
}

func nullableID(v *uint64) any {
    if v == nil {
        return nil
    }
    return *v
}

func emptyNull(s string) any {
    if s == "" {
        return nil
    }
    return s
}
