// Package queue defines message payloads exchanged over the message broker.
package queue

import "encoding/json"

// EventsQueueName is the durable queue all reservation domain events are
// published to.  Consumers fan out by the envelope's Event field.
const EventsQueueName = "reservation.events"

// Envelope wraps one domain event for the broker.  Event is the routing
// name ("reservation.seated", "deposit.refunded", ...); Payload is the
// JSON-encoded event struct as produced by the reservation core.
type Envelope struct {
    Event      string          `json:"event"`
    OccurredAt string          `json:"occurred_at"`
    Payload    json.RawMessage `json:"payload"`
}

// payloadPeek extracts just enough from any event payload to log a
// human-readable line without knowing the concrete event type.
type payloadPeek struct {
    Reservation struct {
        ID           uint64 `json:"id"`
        RestaurantID uint64 `json:"restaurant_id"`
        GuestName    string `json:"guest_name"`
        Status       string `json:"status"`
    } `json:"reservation"`
    OrderID     uint64 `json:"order_id"`
    AmountCents uint32 `json:"amount_cents"`
}
