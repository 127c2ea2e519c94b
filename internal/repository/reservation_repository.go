package repository

import (
    "context"
    "database/sql"
    "sort"
    "strconv"
    "strings"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/reservation"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories need.  It
// lets the same repository type serve plain reads from handlers and
// transactional access from the unit of work.
type dbtx interface {
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReservationRepo provides reads and writes for the reservations table.
// Linked table ids are normalized exactly once here, at scan time, via
// model.ParseLinkedTableIDs; business logic never sees the raw column.
// All timestamp columns are stored in UTC.
type ReservationRepo struct {
    tx dbtx
}

// NewReservationRepo returns a ReservationRepo for non-transactional
// reads.  Transactional instances are produced by the unit of work.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{tx: db} }

const reservationColumns = `id, restaurant_id, table_id, linked_table_ids, customer_id,
       guest_name, guest_phone, guest_email, guest_count,
       date, time_from, time_to, status, notes,
       deposit_cents, deposit_status, deposit_paid_at,
       deposit_refunded_at, deposit_refunded_by,
       deposit_forfeited_at, deposit_forfeited_by,
       deposit_transferred_at, deposit_transferred_by, deposit_order_id,
       confirmed_at, confirmed_by, seated_at, seated_by,
       completed_at, completed_by, cancelled_at, cancelled_by, cancel_reason,
       no_show_at, no_show_by, created_at, updated_at`

// scanReservation reads one row in reservationColumns order.
func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
    var (
        r          model.Reservation
        linked     []byte
        customerID sql.NullInt64
        notes      sql.NullString
        reason     sql.NullString

        depositPaidAt sql.NullTime

        refundedAt, forfeitedAt, transferredAt        sql.NullTime
        refundedBy, forfeitedBy, transferredBy, ordID sql.NullInt64

        confirmedAt, seatedAt, completedAt, cancelledAt, noShowAt sql.NullTime
        confirmedBy, seatedBy, completedBy, cancelledBy, noShowBy sql.NullInt64
    )
    err := row.Scan(
        &r.ID, &r.RestaurantID, &r.TableID, &linked, &customerID,
        &r.GuestName, &r.GuestPhone, &r.GuestEmail, &r.GuestCount,
        &r.Date, &r.TimeFrom, &r.TimeTo, &r.Status, &notes,
        &r.DepositCents, &r.DepositStatus, &depositPaidAt,
        &refundedAt, &refundedBy,
        &forfeitedAt, &forfeitedBy,
        &transferredAt, &transferredBy, &ordID,
        &confirmedAt, &confirmedBy, &seatedAt, &seatedBy,
        &completedAt, &completedBy, &cancelledAt, &cancelledBy, &reason,
        &noShowAt, &noShowBy, &r.CreatedAt, &r.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    r.LinkedTableIDs = model.ParseLinkedTableIDs(linked)
    r.CustomerID = nullID(customerID)
    r.Notes = notes.String
    r.CancelReason = reason.String
    r.DepositPaidAt = nullTime(depositPaidAt)
    r.DepositRefundedAt = nullTime(refundedAt)
    r.DepositRefundedBy = nullID(refundedBy)
    r.DepositForfeitedAt = nullTime(forfeitedAt)
    r.DepositForfeitedBy = nullID(forfeitedBy)
    r.DepositTransferredAt = nullTime(transferredAt)
    r.DepositTransferredBy = nullID(transferredBy)
    r.DepositOrderID = nullID(ordID)
    r.ConfirmedAt = nullTime(confirmedAt)
    r.ConfirmedBy = nullID(confirmedBy)
    r.SeatedAt = nullTime(seatedAt)
    r.SeatedBy = nullID(seatedBy)
    r.CompletedAt = nullTime(completedAt)
    r.CompletedBy = nullID(completedBy)
    r.CancelledAt = nullTime(cancelledAt)
    r.CancelledBy = nullID(cancelledBy)
    r.NoShowAt = nullTime(noShowAt)
    r.NoShowBy = nullID(noShowBy)
    return &r, nil
}

func nullTime(v sql.NullTime) *time.Time {
    if !v.Valid {
        return nil
    }
    t := v.Time.UTC()
    return &t
}

func nullID(v sql.NullInt64) *uint64 {
    if !v.Valid {
        return nil
    }
    id := uint64(v.Int64)
    return &id
}

// GetByID loads one reservation.  ErrReservationNotFound is returned when
// no row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
    res, err := scanReservation(r.tx.QueryRowContext(ctx, q, id))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, ErrReservationNotFound
        }
        return nil, err
    }
    return res, nil
}

// UpdateFields applies a partial update.  Keys are column names; the
// updated_at stamp always rides along.  Columns are applied in sorted
// order so generated SQL is deterministic.
func (r *ReservationRepo) UpdateFields(ctx context.Context, id uint64, f reservation.Fields) error {
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
    query := "UPDATE reservations SET " + strings.Join(sets, ", ") + " WHERE id = ?"
    _, err := r.tx.ExecContext(ctx, query, args...)
    return err
}

// normalizeArg converts values the driver cannot bind directly.
func normalizeArg(v any) any {
    switch t := v.(type) {
    case time.Time:
        return t.UTC().Format("2006-01-02 15:04:05")
    case model.Status:
        return string(t)
    case model.DepositStatus:
        return string(t)
    default:
        return v
    }
}

// ListActive returns the restaurant's reservations for one date whose
// status is in the given set, excluding excludeID.  This is the candidate
// pool for conflict detection.
func (r *ReservationRepo) ListActive(ctx context.Context, restaurantID uint64, date string, statuses []model.Status, excludeID uint64) ([]model.Reservation, error) {
    if len(statuses) == 0 {
        return nil, nil
    }
    placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
    query := `SELECT ` + reservationColumns + ` FROM reservations
              WHERE restaurant_id = ? AND date = ? AND id <> ? AND status IN (` + placeholders + `)`
    args := []any{restaurantID, date, excludeID}
    for _, s := range statuses {
        args = append(args, string(s))
    }
    rows, err := r.tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Reservation
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ExistsOnTable reports whether any other reservation claims the table,
// as its primary table or inside its linked set, with a status in the
// given set.  The linked-set membership is verified in Go after a coarse
// SQL prefilter because legacy rows may carry double-encoded JSON that
// JSON_CONTAINS cannot see into.
func (r *ReservationRepo) ExistsOnTable(ctx context.Context, tableID uint64, statuses []model.Status, excludeID uint64) (bool, error) {
    if len(statuses) == 0 {
        return false, nil
    }
    placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
    query := `SELECT id, table_id, linked_table_ids FROM reservations
              WHERE id <> ? AND status IN (` + placeholders + `)
                AND (table_id = ? OR linked_table_ids LIKE ?)`
    args := []any{excludeID}
    for _, s := range statuses {
        args = append(args, string(s))
    }
    args = append(args, tableID, "%"+strconv.FormatUint(tableID, 10)+"%")
    rows, err := r.tx.QueryContext(ctx, query, args...)
    if err != nil {
        return false, err
    }
    defer rows.Close()
    for rows.Next() {
        var (
            id      uint64
            primary uint64
            linked  []byte
        )
        if err := rows.Scan(&id, &primary, &linked); err != nil {
            return false, err
        }
        if primary == tableID {
            return true, nil
        }
        for _, lid := range model.ParseLinkedTableIDs(linked) {
            if lid == tableID {
                return true, nil
            }
        }
    }
    if err := rows.Err(); err != nil {
        return false, err
    }
    return false, nil
}

// ListByRestaurantAndDate returns every reservation for a restaurant on
// one date, ordered by start time.  Used by the read endpoints.
func (r *ReservationRepo) ListByRestaurantAndDate(ctx context.Context, restaurantID uint64, date string) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationColumns + ` FROM reservations
               WHERE restaurant_id = ? AND date = ?
               ORDER BY time_from, id`
    rows, err := r.tx.QueryContext(ctx, q, restaurantID, date)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Reservation
    for rows.Next() {
        res, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *res)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
