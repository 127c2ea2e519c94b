package reservation

import (
    "context"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReleasePolicy controls which signals keep a table from returning to
// free when a reservation leaves an occupancy-bearing status.
//
// Cancel and MarkNoShow release against other confirmed/seated
// reservations only; Complete and Unseat additionally keep a table that
// still carries an active order.
type ReleasePolicy struct {
    // BlockingStatuses: a table stays claimed while any other
    // reservation references it with one of these statuses.
    BlockingStatuses []model.Status
    // CheckActiveOrders: when true, a table with an open/pending order
    // also stays occupied.
    CheckActiveOrders bool
}

// ReleaseAfterCancel is the policy for Cancel and MarkNoShow: any other
// confirmed or seated reservation keeps the table claimed.
func ReleaseAfterCancel() ReleasePolicy {
    return ReleasePolicy{BlockingStatuses: blockingStatuses}
}

// ReleaseAfterService is the policy for Complete and Unseat: another
// seated party or an active order keeps the table.
func ReleaseAfterService() ReleasePolicy {
    return ReleasePolicy{
        BlockingStatuses:  []model.Status{model.StatusSeated},
        CheckActiveOrders: true,
    }
}

// Reconciler decides, per table, whether a table may return to free after
// a reservation releases it.  It is the only component that frees tables;
// Seat's direct occupy write is the only other table-status mutation in
// the system.
type Reconciler struct{}

// NewReconciler returns a reconciler.  It is stateless.
func NewReconciler() *Reconciler { return &Reconciler{} }

// Release evaluates every table in the set independently: tables in a
// linked set can diverge (one frees, one stays claimed) when a second
// reservation references only one of them.  It returns the ids that were
// actually set to free.
//
// A table genuinely occupied by an unrelated live order is never clobbered
// back to free, regardless of policy.
func (rc *Reconciler) Release(ctx context.Context, s Store, excludeReservationID uint64, tableIDs []uint64, policy ReleasePolicy) ([]uint64, error) {
    freed := make([]uint64, 0, len(tableIDs))
    for _, tableID := range tableIDs {
        claimed, err := s.Reservations().ExistsOnTable(ctx, tableID, policy.BlockingStatuses, excludeReservationID)
        if err != nil {
            return nil, err
        }
        if claimed {
            continue
        }
        if policy.CheckActiveOrders {
            busy, err := s.Orders().ExistsActiveOnTable(ctx, tableID, model.ActiveOrderStatuses)
            if err != nil {
                return nil, err
            }
            if busy {
                continue
            }
        }
        // An unrelated live order keeps the table occupied even when no
        // reservation claims it.
        live, err := s.Orders().ListLiveByTable(ctx, tableID)
        if err != nil {
            return nil, err
        }
        if len(live) > 0 {
            continue
        }
        freed = append(freed, tableID)
    }
    if len(freed) > 0 {
        if err := s.Tables().UpdateStatus(ctx, freed, model.TableFree); err != nil {
            return nil, err
        }
    }
    return freed, nil
}
