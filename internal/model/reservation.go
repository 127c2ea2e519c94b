package model

import (
    "encoding/json"
    "time"
)

// Status enumerates the lifecycle states of a reservation.  A reservation
// starts in StatusPending and moves through the fixed transition graph
// enforced by the reservation state machine; the terminal states
// (completed, cancelled, no_show) are final.
type Status string

const (
    StatusPending   Status = "pending"
    StatusConfirmed Status = "confirmed"
    StatusSeated    Status = "seated"
    StatusCompleted Status = "completed"
    StatusCancelled Status = "cancelled"
    StatusNoShow    Status = "no_show"
)

// DepositStatus enumerates the deposit sub-states.  A paid deposit leaves
// the reservation's custody through exactly one of refunded, forfeited or
// transferred; those three are mutually exclusive and final.
type DepositStatus string

const (
    DepositPending     DepositStatus = "pending"
    DepositPaid        DepositStatus = "paid"
    DepositRefunded    DepositStatus = "refunded"
    DepositForfeited   DepositStatus = "forfeited"
    DepositTransferred DepositStatus = "transferred"
)

// Reservation is the aggregate root for a table booking.  It records the
// guest, the schedule, the primary table plus any linked tables, the
// current status and the deposit sub-state, along with audit stamps for
// every transition.
//
// LinkedTableIDs is always a normalized slice in memory; the persisted
// column may hold either a JSON array or a JSON-encoded string and is
// decoded once at scan time via ParseLinkedTableIDs.
type Reservation struct {
    ID             uint64   // reservations.id
    RestaurantID   uint64   // reservations.restaurant_id
    TableID        uint64   // reservations.table_id (primary table)
    LinkedTableIDs []uint64 // reservations.linked_table_ids (normalized)
    CustomerID     *uint64  // reservations.customer_id (nullable)
    GuestName      string   // reservations.guest_name
    GuestPhone     string   // reservations.guest_phone
    GuestEmail     string   // reservations.guest_email
    GuestCount     uint32   // reservations.guest_count
    Date           string   // reservations.date (YYYY-MM-DD)
    TimeFrom       string   // reservations.time_from (HH:MM)
    TimeTo         string   // reservations.time_to (HH:MM, may wrap past midnight)
    Status         Status   // reservations.status
    Notes          string   // reservations.notes

    DepositCents  uint32        // reservations.deposit_cents
    DepositStatus DepositStatus // reservations.deposit_status
    DepositPaidAt *time.Time    // reservations.deposit_paid_at

    DepositRefundedAt    *time.Time // reservations.deposit_refunded_at
    DepositRefundedBy    *uint64    // reservations.deposit_refunded_by
    DepositForfeitedAt   *time.Time // reservations.deposit_forfeited_at
    DepositForfeitedBy   *uint64    // reservations.deposit_forfeited_by
    DepositTransferredAt *time.Time // reservations.deposit_transferred_at
    DepositTransferredBy *uint64    // reservations.deposit_transferred_by
    DepositOrderID       *uint64    // reservations.deposit_order_id (set when transferred)

    ConfirmedAt  *time.Time // reservations.confirmed_at
    ConfirmedBy  *uint64    // reservations.confirmed_by
    SeatedAt     *time.Time // reservations.seated_at
    SeatedBy     *uint64    // reservations.seated_by
    CompletedAt  *time.Time // reservations.completed_at
    CompletedBy  *uint64    // reservations.completed_by
    CancelledAt  *time.Time // reservations.cancelled_at
    CancelledBy  *uint64    // reservations.cancelled_by
    CancelReason string     // reservations.cancel_reason
    NoShowAt     *time.Time // reservations.no_show_at
    NoShowBy     *uint64    // reservations.no_show_by

    CreatedAt time.Time // reservations.created_at
    UpdatedAt time.Time // reservations.updated_at
}

// Slot returns the reservation's scheduling window as a TimeSlot value.
func (r *Reservation) Slot() TimeSlot {
    return TimeSlot{Date: r.Date, From: r.TimeFrom, To: r.TimeTo}
}

// ParseLinkedTableIDs decodes the persisted linked_table_ids column into a
// slice of table ids.  The column historically holds either a JSON array
// of numbers or a JSON string wrapping such an array (double-encoded rows
// exist in the wild).  Invalid JSON, nulls and non-positive entries are
// treated as "no linked tables" rather than an error so that one bad row
// cannot block an action on the reservation.
func ParseLinkedTableIDs(raw []byte) []uint64 {
    if len(raw) == 0 {
        return nil
    }
    var nums []uint64
    if err := json.Unmarshal(raw, &nums); err == nil {
        return dropNonPositive(nums)
    }
    // Double-encoded variant: a JSON string containing the array.
    var inner string
    if err := json.Unmarshal(raw, &inner); err == nil && inner != "" {
        if err := json.Unmarshal([]byte(inner), &nums); err == nil {
            return dropNonPositive(nums)
        }
    }
    return nil
}

// EncodeLinkedTableIDs is the inverse of ParseLinkedTableIDs and always
// writes the canonical JSON array form.
func EncodeLinkedTableIDs(ids []uint64) []byte {
    if len(ids) == 0 {
        return []byte("[]")
    }
    b, err := json.Marshal(ids)
    if err != nil {
        return []byte("[]")
    }
    return b
}

func dropNonPositive(in []uint64) []uint64 {
    out := in[:0]
    for _, id := range in {
        if id > 0 {
            out = append(out, id)
        }
    }
    if len(out) == 0 {
        return nil
    }
    return out
}
