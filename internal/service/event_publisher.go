// Package service contains outbound adapters used by the reservation core.
// The AMQP publisher here implements reservation.EventSink; errors are logged
// and swallowed so a broker outage never fails a committed action.
package service

import (
    "context"
    "encoding/json"
    "log"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/restaurant-table-reservation/internal/queue"
    "github.com/iliyamo/restaurant-table-reservation/internal/reservation"
)

// AMQPEventSink publishes domain events to the reservation.events queue.
// A fresh connection is dialed per publish.  That is deliberately simple and
// matches the publish rate of a reservation desk; a pooled channel can be
// introduced later without changing the interface.
type AMQPEventSink struct {
    url string
}

// NewAMQPEventSink returns a sink that dials the given broker URL.
func NewAMQPEventSink(url string) *AMQPEventSink {
    return &AMQPEventSink{url: url}
}

// Publish wraps the event in a queue.Envelope and sends it to the durable
// reservation.events queue.  The message is marked persistent.  Any failure
// is logged and otherwise ignored; the action has already committed.
func (s *AMQPEventSink) Publish(ctx context.Context, e reservation.Event) {
    payload, err := json.Marshal(e)
    if err != nil {
        log.Printf("rabbitmq: marshal %s event failed: %v", e.Name(), err)
        return
    }
    env := queue.Envelope{
        Event:      e.Name(),
        OccurredAt: time.Now().UTC().Format(time.RFC3339),
        Payload:    payload,
    }
    body, err := json.Marshal(env)
    if err != nil {
        log.Printf("rabbitmq: marshal envelope failed: %v", err)
        return
    }

    conn, err := amqp.Dial(s.url)
    if err != nil {
        log.Printf("rabbitmq: dial failed: %v", err)
        return
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.Printf("rabbitmq: channel open failed: %v", err)
        return
    }
    defer func() { _ = ch.Close() }()

    // Idempotent declare so publisher and consumer can start in any order.
    if _, err := ch.QueueDeclare(
        queue.EventsQueueName, // name
        true,                  // durable
        false,                 // autoDelete
        false,                 // exclusive
        false,                 // noWait
        nil,                   // args
    ); err != nil {
        log.Printf("rabbitmq: queue declare failed: %v", err)
        return
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",                    // default exchange
        queue.EventsQueueName, // routing key = queue name
        false,                 // mandatory
        false,                 // immediate
        pub,
    ); err != nil {
        log.Printf("rabbitmq: publish %s failed: %v", e.Name(), err)
    }
}
