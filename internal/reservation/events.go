package reservation

import (
    "time"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Event is a domain event produced by an action after its transaction
// commits.  Name doubles as the routing key on the broker
// ("reservation.confirmed", "deposit.transferred", ...).
type Event interface {
    Name() string
}

// ReservationSnapshot is the reservation payload every event carries.  It
// contains enough for downstream consumers (notifications, read-model
// projections, realtime push) to act without querying the database.
type ReservationSnapshot struct {
    ID             uint64              `json:"id"`
    RestaurantID   uint64              `json:"restaurant_id"`
    TableID        uint64              `json:"table_id"`
    TableIDs       []uint64            `json:"table_ids"`
    GuestName      string              `json:"guest_name"`
    GuestCount     uint32              `json:"guest_count"`
    Date           string              `json:"date"`
    TimeFrom       string              `json:"time_from"`
    TimeTo         string              `json:"time_to"`
    Status         model.Status        `json:"status"`
    DepositCents   uint32              `json:"deposit_cents"`
    DepositStatus  model.DepositStatus `json:"deposit_status"`
}

// Snapshot projects a reservation into its event payload form.
func Snapshot(r *model.Reservation) ReservationSnapshot {
    return ReservationSnapshot{
        ID:            r.ID,
        RestaurantID:  r.RestaurantID,
        TableID:       r.TableID,
        TableIDs:      TableSet(r),
        GuestName:     r.GuestName,
        GuestCount:    r.GuestCount,
        Date:          r.Date,
        TimeFrom:      r.TimeFrom,
        TimeTo:        r.TimeTo,
        Status:        r.Status,
        DepositCents:  r.DepositCents,
        DepositStatus: r.DepositStatus,
    }
}

// ReservationConfirmed is published when Confirm succeeds.
type ReservationConfirmed struct {
    Reservation ReservationSnapshot `json:"reservation"`
    ConfirmedBy uint64              `json:"confirmed_by"`
    ConfirmedAt time.Time           `json:"confirmed_at"`
}

func (ReservationConfirmed) Name() string { return "reservation.confirmed" }

// ReservationSeated is published when Seat succeeds.
type ReservationSeated struct {
    Reservation         ReservationSnapshot `json:"reservation"`
    TableIDs            []uint64            `json:"table_ids"`
    OrderID             *uint64             `json:"order_id,omitempty"`
    DepositTransferred  bool                `json:"deposit_transferred"`
    SeatedBy            uint64              `json:"seated_by"`
    SeatedAt            time.Time           `json:"seated_at"`
}

func (ReservationSeated) Name() string { return "reservation.seated" }

// ReservationCompleted is published when Complete succeeds.
type ReservationCompleted struct {
    Reservation    ReservationSnapshot `json:"reservation"`
    ClosedOrderIDs []uint64            `json:"closed_order_ids"`
    FreedTableIDs  []uint64            `json:"freed_table_ids"`
    CompletedBy    uint64              `json:"completed_by"`
    CompletedAt    time.Time           `json:"completed_at"`
}

func (ReservationCompleted) Name() string { return "reservation.completed" }

// ReservationCancelled is published when Cancel succeeds.
type ReservationCancelled struct {
    Reservation   ReservationSnapshot `json:"reservation"`
    Reason        string              `json:"reason"`
    FreedTableIDs []uint64            `json:"freed_table_ids"`
    CancelledBy   uint64              `json:"cancelled_by"`
    CancelledAt   time.Time           `json:"cancelled_at"`
}

func (ReservationCancelled) Name() string { return "reservation.cancelled" }

// ReservationNoShow is published when MarkNoShow succeeds.
type ReservationNoShow struct {
    Reservation   ReservationSnapshot `json:"reservation"`
    FreedTableIDs []uint64            `json:"freed_table_ids"`
    MarkedBy      uint64              `json:"marked_by"`
    MarkedAt      time.Time           `json:"marked_at"`
}

func (ReservationNoShow) Name() string { return "reservation.no_show" }

// DepositRefunded is published alongside ReservationCancelled when the
// deposit was returned to the guest.
type DepositRefunded struct {
    Reservation ReservationSnapshot `json:"reservation"`
    AmountCents uint32              `json:"amount_cents"`
    RefundedBy  uint64              `json:"refunded_by"`
    RefundedAt  time.Time           `json:"refunded_at"`
}

func (DepositRefunded) Name() string { return "deposit.refunded" }

// DepositForfeited is published alongside ReservationNoShow when the
// restaurant kept the deposit.
type DepositForfeited struct {
    Reservation ReservationSnapshot `json:"reservation"`
    AmountCents uint32              `json:"amount_cents"`
    ForfeitedBy uint64              `json:"forfeited_by"`
    ForfeitedAt time.Time           `json:"forfeited_at"`
}

func (DepositForfeited) Name() string { return "deposit.forfeited" }

// DepositTransferred is published alongside ReservationSeated when the
// deposit was applied to the new order as prepaid credit.
type DepositTransferred struct {
    Reservation   ReservationSnapshot `json:"reservation"`
    AmountCents   uint32              `json:"amount_cents"`
    OrderID       uint64              `json:"order_id"`
    TransferredBy uint64              `json:"transferred_by"`
    TransferredAt time.Time           `json:"transferred_at"`
}

func (DepositTransferred) Name() string { return "deposit.transferred" }
