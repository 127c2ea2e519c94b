package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo provides reads, status writes and row-level locking for the
// tables table.  The cached status flag is a hint, not the truth; the
// reservation core reconciles it against active reservations and orders.
type TableRepo struct {
    tx dbtx
}

// NewTableRepo returns a TableRepo for non-transactional reads.
// Transactional instances are produced by the unit of work.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{tx: db} }

const tableColumns = `id, restaurant_id, name, capacity, status, is_active, created_at, updated_at`

func (r *TableRepo) selectByIDs(ctx context.Context, ids []uint64, forUpdate bool) ([]model.Table, error) {
    if len(ids) == 0 {
        return nil, nil
    }
    placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
    // Deterministic lock order avoids deadlocks between two callers
    // locking overlapping sets in different input orders.
    query := `SELECT ` + tableColumns + ` FROM tables WHERE id IN (` + placeholders + `) ORDER BY id`
    if forUpdate {
        query += " FOR UPDATE"
    }
    args := make([]any, len(ids))
    for i, id := range ids {
        args[i] = id
    }
    rows, err := r.tx.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Table
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Capacity, &t.Status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(out) != len(ids) {
        return nil, ErrTableNotFound
    }
    return out, nil
}

// GetByIDs loads the given tables without locking.
func (r *TableRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Table, error) {
    return r.selectByIDs(ctx, ids, false)
}

// LockForUpdate loads the given tables under exclusive row locks.  Any
// concurrent caller on overlapping ids blocks until this transaction
// commits or rolls back, which is what gives Seat its mutual exclusion.
// Must run inside a transaction.
func (r *TableRepo) LockForUpdate(ctx context.Context, ids []uint64) ([]model.Table, error) {
    return r.selectByIDs(ctx, ids, true)
}

// UpdateStatus sets the cached status flag on every listed table.
func (r *TableRepo) UpdateStatus(ctx context.Context, ids []uint64, status model.TableStatus) error {
    if len(ids) == 0 {
        return nil
    }
    placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
    query := `UPDATE tables SET status = ?, updated_at = UTC_TIMESTAMP() WHERE id IN (` + placeholders + `)`
    args := make([]any, 0, len(ids)+1)
    args = append(args, string(status))
    for _, id := range ids {
        args = append(args, id)
    }
    _, err := r.tx.ExecContext(ctx, query, args...)
    return err
}

// ListByRestaurant returns every active table for a restaurant, used by
// the floor read endpoint.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
    const q = `SELECT ` + tableColumns + ` FROM tables WHERE restaurant_id = ? AND is_active = 1 ORDER BY name`
    rows, err := r.tx.QueryContext(ctx, q, restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Table
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Name, &t.Capacity, &t.Status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}
