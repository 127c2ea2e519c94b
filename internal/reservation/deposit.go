package reservation

import (
    "fmt"
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// DepositLedger encapsulates the deposit sub-state-machine:
//
//	pending --> paid --> { refunded | forfeited | transferred }
//
// Each paid-exit is owned by exactly one reservation action: refunded by
// Cancel, forfeited by MarkNoShow, transferred by Seat.  The three exits
// are mutually exclusive and final; in particular a transferred deposit
// can never be refunded or forfeited because the money has already left
// the reservation's custody.
type DepositLedger struct{}

// NewDepositLedger returns the ledger.  It is stateless; transitions
// mutate the passed reservation and report the columns to persist.
func NewDepositLedger() *DepositLedger { return &DepositLedger{} }

// Refundable reports whether Refund would succeed without raising.
func (l *DepositLedger) Refundable(r *model.Reservation) bool {
    return r.DepositStatus == model.DepositPaid
}

// Forfeitable reports whether Forfeit would succeed without raising.
func (l *DepositLedger) Forfeitable(r *model.Reservation) bool {
    return r.DepositStatus == model.DepositPaid
}

// Transferable reports whether Transfer would succeed without raising.
func (l *DepositLedger) Transferable(r *model.Reservation) bool {
    return r.DepositStatus == model.DepositPaid
}

// Refund moves a paid deposit to refunded.  Refunding a transferred
// deposit is a hard error, never silently ignored; the same applies to
// deposits already refunded or forfeited.
func (l *DepositLedger) Refund(r *model.Reservation, now time.Time, actorID uint64) (Fields, error) {
    if err := l.guardExit(r, model.DepositRefunded); err != nil {
        return nil, err
    }
    r.DepositStatus = model.DepositRefunded
    r.DepositRefundedAt = &now
    r.DepositRefundedBy = &actorID
    return Fields{
        "deposit_status":      string(model.DepositRefunded),
        "deposit_refunded_at": now,
        "deposit_refunded_by": actorID,
    }, nil
}

// Forfeit moves a paid deposit to forfeited: the restaurant keeps the
// money.  Forfeiture and refund are distinct outcomes and must never be
// conflated.
func (l *DepositLedger) Forfeit(r *model.Reservation, now time.Time, actorID uint64) (Fields, error) {
    if err := l.guardExit(r, model.DepositForfeited); err != nil {
        return nil, err
    }
    r.DepositStatus = model.DepositForfeited
    r.DepositForfeitedAt = &now
    r.DepositForfeitedBy = &actorID
    return Fields{
        "deposit_status":       string(model.DepositForfeited),
        "deposit_forfeited_at": now,
        "deposit_forfeited_by": actorID,
    }, nil
}

// Transfer moves a paid deposit into the given order as prepaid credit.
// The transfer is not reversible by the seating flow; only an explicit
// correction path outside this core could undo it.
func (l *DepositLedger) Transfer(r *model.Reservation, orderID uint64, now time.Time, actorID uint64) (Fields, error) {
    if err := l.guardExit(r, model.DepositTransferred); err != nil {
        return nil, err
    }
    r.DepositStatus = model.DepositTransferred
    r.DepositTransferredAt = &now
    r.DepositTransferredBy = &actorID
    r.DepositOrderID = &orderID
    return Fields{
        "deposit_status":         string(model.DepositTransferred),
        "deposit_transferred_at": now,
        "deposit_transferred_by": actorID,
        "deposit_order_id":       orderID,
    }, nil
}

// guardExit enforces that only a paid deposit may leave via refund,
// forfeit or transfer.
func (l *DepositLedger) guardExit(r *model.Reservation, target model.DepositStatus) error {
    if r.DepositStatus == model.DepositPaid {
        return nil
    }
    return &DepositError{
        ReservationID: r.ID,
        AmountCents:   r.DepositCents,
        Status:        r.DepositStatus,
        Reason:        fmt.Sprintf("cannot move deposit to %q from %q; only a paid deposit may leave", target, r.DepositStatus),
    }
}
