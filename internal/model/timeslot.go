package model

import "strconv"

// TimeSlot is an immutable value describing a reservation's scheduling
// window: a calendar date plus a start and end time in HH:MM.  An end time
// earlier than the start time signals a slot that wraps past midnight; the
// wrap is normalized by adding a day before any duration or overlap math.
//
// Comparison is structural.  Two slots overlap when
// a.From < b.To && a.To > b.From on the normalized minute scale; slots
// that merely touch (a.To == b.From) do not overlap.
type TimeSlot struct {
    Date string // calendar date, YYYY-MM-DD
    From string // start time, HH:MM
    To   string // end time, HH:MM (may be earlier than From)
}

const minutesPerDay = 24 * 60

// Minutes returns the slot's start and end as minutes since the slot
// date's midnight.  Overnight slots report an end beyond 24h so that
// interval arithmetic stays monotonic.
func (s TimeSlot) Minutes() (from, to int) {
    from = parseMinutes(s.From)
    to = parseMinutes(s.To)
    if to < from {
        to += minutesPerDay // wraps past midnight
    }
    return from, to
}

// DurationMinutes returns the length of the slot in minutes.
func (s TimeSlot) DurationMinutes() int {
    from, to := s.Minutes()
    return to - from
}

// Overlaps reports whether two slots on the same date collide.  The
// comparison is half-open: a slot ending exactly when the other begins is
// not a collision.  Slots on different dates never overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
    if s.Date != other.Date {
        return false
    }
    aFrom, aTo := s.Minutes()
    bFrom, bTo := other.Minutes()
    return aFrom < bTo && aTo > bFrom
}

// parseMinutes converts "HH:MM" (or "HH:MM:SS") into minutes since
// midnight.  Malformed values degrade to zero rather than failing, the
// same defensive posture as linked-table decoding.
func parseMinutes(v string) int {
    if len(v) < 5 {
        return 0
    }
    h, err := strconv.Atoi(v[0:2])
    if err != nil {
        return 0
    }
    m, err := strconv.Atoi(v[3:5])
    if err != nil {
        return 0
    }
    return h*60 + m
}
