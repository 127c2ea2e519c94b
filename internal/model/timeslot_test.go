package model

import "testing"

func TestTimeSlotMinutes(t *testing.T) {
    cases := []struct {
        name string
        slot TimeSlot
        from int
        to   int
    }{
        {name: "same day", slot: TimeSlot{From: "18:00", To: "20:00"}, from: 1080, to: 1200},
        {name: "overnight wrap", slot: TimeSlot{From: "22:00", To: "01:00"}, from: 1320, to: 1500},
        {name: "midnight end", slot: TimeSlot{From: "20:00", To: "00:00"}, from: 1200, to: 1440},
        {name: "malformed start degrades to zero", slot: TimeSlot{From: "zz", To: "01:00"}, from: 0, to: 60},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            from, to := tc.slot.Minutes()
            if from != tc.from || to != tc.to {
                t.Fatalf("Minutes() = (%d, %d), want (%d, %d)", from, to, tc.from, tc.to)
            }
        })
    }
}

func TestTimeSlotDurationMinutes(t *testing.T) {
    overnight := TimeSlot{From: "23:30", To: "02:00"}
    if got := overnight.DurationMinutes(); got != 150 {
        t.Fatalf("DurationMinutes() = %d, want 150", got)
    }
}

func TestTimeSlotOverlaps(t *testing.T) {
    cases := []struct {
        name     string
        a, b     TimeSlot
        overlaps bool
    }{
        {
            name:     "plain overlap",
            a:        TimeSlot{Date: "2025-06-14", From: "18:00", To: "20:00"},
            b:        TimeSlot{Date: "2025-06-14", From: "19:00", To: "21:00"},
            overlaps: true,
        },
        {
            name:     "touching endpoints are free",
            a:        TimeSlot{Date: "2025-06-14", From: "18:00", To: "20:00"},
            b:        TimeSlot{Date: "2025-06-14", From: "20:00", To: "22:00"},
            overlaps: false,
        },
        {
            name:     "containment",
            a:        TimeSlot{Date: "2025-06-14", From: "18:00", To: "22:00"},
            b:        TimeSlot{Date: "2025-06-14", From: "19:00", To: "20:00"},
            overlaps: true,
        },
        {
            name:     "different dates never overlap",
            a:        TimeSlot{Date: "2025-06-14", From: "18:00", To: "20:00"},
            b:        TimeSlot{Date: "2025-06-15", From: "18:00", To: "20:00"},
            overlaps: false,
        },
        {
            name:     "overnight slot reaches into late evening",
            a:        TimeSlot{Date: "2025-06-14", From: "22:00", To: "01:00"},
            b:        TimeSlot{Date: "2025-06-14", From: "23:00", To: "23:30"},
            overlaps: true,
        },
        {
            name:     "disjoint same day",
            a:        TimeSlot{Date: "2025-06-14", From: "12:00", To: "13:00"},
            b:        TimeSlot{Date: "2025-06-14", From: "18:00", To: "20:00"},
            overlaps: false,
        },
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := tc.a.Overlaps(tc.b); got != tc.overlaps {
                t.Fatalf("Overlaps = %v, want %v", got, tc.overlaps)
            }
            // Overlap is symmetric.
            if got := tc.b.Overlaps(tc.a); got != tc.overlaps {
                t.Fatalf("reverse Overlaps = %v, want %v", got, tc.overlaps)
            }
        })
    }
}
