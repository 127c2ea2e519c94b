package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/restaurant-table-reservation/internal/reservation"
)

// UnitOfWork implements reservation.UnitOfWork over database/sql.  Run
// opens one transaction, hands the callback a Store bound to it and
// commits on success; any error from the callback rolls everything back
// and propagates untouched.
type UnitOfWork struct {
    db *sql.DB
}

// NewUnitOfWork returns a UnitOfWork bound to the given database.
func NewUnitOfWork(db *sql.DB) *UnitOfWork { return &UnitOfWork{db: db} }

// Run executes fn inside a single transaction.
func (u *UnitOfWork) Run(ctx context.Context, fn func(ctx context.Context, s reservation.Store) error) error {
    tx, err := u.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(ctx, &txStore{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// txStore bundles the per-aggregate repositories bound to one open
// transaction.  It satisfies reservation.Store.
type txStore struct {
    tx *sql.Tx
}

func (s *txStore) Reservations() reservation.ReservationStore { return &ReservationRepo{tx: s.tx} }
func (s *txStore) Tables() reservation.TableStore             { return &TableRepo{tx: s.tx} }
func (s *txStore) Orders() reservation.OrderStore             { return &OrderRepo{tx: s.tx} }
