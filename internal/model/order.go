package model

import "time"

// OrderStatus enumerates the kitchen/service lifecycle of an order.  The
// reservation core never drives this lifecycle beyond force-closing
// still-open orders on completion; the order service owns the rest.
type OrderStatus string

const (
    OrderNew       OrderStatus = "new"
    OrderOpen      OrderStatus = "open"
    OrderPending   OrderStatus = "pending"
    OrderCooking   OrderStatus = "cooking"
    OrderReady     OrderStatus = "ready"
    OrderServed    OrderStatus = "served"
    OrderCompleted OrderStatus = "completed"
    OrderCancelled OrderStatus = "cancelled"
)

// PaymentStatus enumerates an order's payment state.
type PaymentStatus string

const (
    PaymentPending PaymentStatus = "pending"
    PaymentPaid    PaymentStatus = "paid"
)

// ActiveOrderStatuses are the order states that gate Complete/Unseat: an
// order in one of these states with an outstanding balance blocks the
// transition unless forced.
var ActiveOrderStatuses = []OrderStatus{OrderOpen, OrderPending}

// LiveOrderStatuses are the order states that make a table "truly
// occupied" for seating purposes when combined with a pending payment.
var LiveOrderStatuses = []OrderStatus{OrderNew, OrderOpen, OrderCooking, OrderReady, OrderServed}

// Order is the dining order opened against one or more tables.  The
// reservation core creates one as a side effect of seating and consults
// it when gating completion on payment state; everything else about
// orders belongs to the order service.
type Order struct {
    ID             uint64        // orders.id
    Number         string        // orders.number (generated, scheme external)
    RestaurantID   uint64        // orders.restaurant_id
    TableID        uint64        // orders.table_id (primary table)
    LinkedTableIDs []uint64      // orders.linked_table_ids (normalized)
    ReservationID  *uint64       // orders.reservation_id (nullable)
    CustomerID     *uint64       // orders.customer_id (nullable)
    GuestCount     uint32        // orders.guest_count
    Status         OrderStatus   // orders.status
    PaymentStatus  PaymentStatus // orders.payment_status
    TotalCents     uint32        // orders.total_cents
    PaidCents      uint32        // orders.paid_cents
    PrepaidCents   uint32        // orders.prepaid_cents
    PrepaidSource  string        // orders.prepaid_source ("reservation_deposit")
    PaidAt         *time.Time    // orders.paid_at
    ClosedAt       *time.Time    // orders.closed_at
    CreatedAt      time.Time     // orders.created_at
    UpdatedAt      time.Time     // orders.updated_at
}

// Unpaid reports whether the order still has money outstanding: either no
// payment was recorded at all or the recorded payments do not cover the
// total.
func (o *Order) Unpaid() bool {
    return o.PaidAt == nil || o.TotalCents > o.PaidCents
}

// OutstandingCents returns the unpaid remainder used in validation
// messages when an active order blocks completion.
func (o *Order) OutstandingCents() uint32 {
    if o.PaidCents >= o.TotalCents {
        return 0
    }
    return o.TotalCents - o.PaidCents
}
