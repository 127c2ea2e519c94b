package model

import (
    "reflect"
    "testing"
    "time"
)

func TestParseLinkedTableIDs(t *testing.T) {
    cases := []struct {
        name     string
        raw      string
        expected []uint64
    }{
        {name: "native array", raw: `[6,7]`, expected: []uint64{6, 7}},
        {name: "double-encoded string", raw: `"[6,7]"`, expected: []uint64{6, 7}},
        {name: "empty array", raw: `[]`, expected: nil},
        {name: "empty string", raw: ``, expected: nil},
        {name: "json null", raw: `null`, expected: nil},
        {name: "invalid json", raw: `{broken`, expected: nil},
        {name: "string wrapping garbage", raw: `"not an array"`, expected: nil},
        {name: "zero entries dropped", raw: `[0,6]`, expected: []uint64{6}},
        {name: "all zeros", raw: `[0,0]`, expected: nil},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            got := ParseLinkedTableIDs([]byte(tc.raw))
            if !reflect.DeepEqual(got, tc.expected) {
                t.Fatalf("ParseLinkedTableIDs(%q) = %v, want %v", tc.raw, got, tc.expected)
            }
        })
    }
}

func TestEncodeLinkedTableIDs(t *testing.T) {
    if got := string(EncodeLinkedTableIDs(nil)); got != "[]" {
        t.Fatalf("EncodeLinkedTableIDs(nil) = %q, want []", got)
    }
    if got := string(EncodeLinkedTableIDs([]uint64{6, 7})); got != "[6,7]" {
        t.Fatalf("EncodeLinkedTableIDs = %q, want [6,7]", got)
    }
    // Round trip lands back on the canonical form.
    ids := ParseLinkedTableIDs([]byte(`"[6,7]"`))
    if got := string(EncodeLinkedTableIDs(ids)); got != "[6,7]" {
        t.Fatalf("round trip = %q, want [6,7]", got)
    }
}

func TestOrderUnpaid(t *testing.T) {
    paidAt := time.Now()
    cases := []struct {
        name   string
        order  Order
        unpaid bool
    }{
        {name: "never paid", order: Order{TotalCents: 5000}, unpaid: true},
        {name: "paid in full", order: Order{TotalCents: 5000, PaidCents: 5000, PaidAt: &paidAt}, unpaid: false},
        {name: "partial payment", order: Order{TotalCents: 5000, PaidCents: 3000, PaidAt: &paidAt}, unpaid: true},
        {name: "paid_at set but zero amounts", order: Order{PaidAt: &paidAt}, unpaid: false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := tc.order.Unpaid(); got != tc.unpaid {
                t.Fatalf("Unpaid() = %v, want %v", got, tc.unpaid)
            }
        })
    }
}

func TestOrderOutstandingCents(t *testing.T) {
    o := Order{TotalCents: 5000, PaidCents: 3000}
    if got := o.OutstandingCents(); got != 2000 {
        t.Fatalf("OutstandingCents() = %d, want 2000", got)
    }
    over := Order{TotalCents: 5000, PaidCents: 6000}
    if got := over.OutstandingCents(); got != 0 {
        t.Fatalf("overpaid OutstandingCents() = %d, want 0", got)
    }
}
