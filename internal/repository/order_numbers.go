package repository

import (
    "context"
    "crypto/rand"
    "encoding/hex"
    "fmt"
    "time"
)

// OrderNumbers implements reservation.OrderNumberSource.  Numbers are
// date-prefixed with a random suffix ("ORD-20250301-a1b2c3"); the order
// service owns the real numbering scheme, this only has to be unique
// enough for the order it opens while seating.
type OrderNumbers struct{}

// NewOrderNumbers returns an OrderNumbers source.
func NewOrderNumbers() *OrderNumbers { return &OrderNumbers{} }

// Next yields the next order number.
func (n *OrderNumbers) Next(ctx context.Context) (string, error) {
    b := make([]byte, 3)
    if _, err := rand.Read(b); err != nil {
        return "", err
    }
    return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), hex.EncodeToString(b)), nil
}
