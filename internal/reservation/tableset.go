package reservation

import (
    "sort"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableSet resolves the full set of tables a reservation occupies: the
// primary table plus all linked tables, deduplicated, sorted and with
// empty entries dropped.  It is derived fresh on every action invocation
// and never cached, so every action sees the same set for the same row.
func TableSet(r *model.Reservation) []uint64 {
    seen := make(map[uint64]struct{}, len(r.LinkedTableIDs)+1)
    out := make([]uint64, 0, len(r.LinkedTableIDs)+1)
    add := func(id uint64) {
        if id == 0 {
            return
        }
        if _, ok := seen[id]; ok {
            return
        }
        seen[id] = struct{}{}
        out = append(out, id)
    }
    add(r.TableID)
    for _, id := range r.LinkedTableIDs {
        add(id)
    }
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out
}

// tableSetsIntersect reports whether two resolved table sets share at
// least one table.  Both inputs are deduplicated slices from TableSet.
func tableSetsIntersect(a, b []uint64) bool {
    if len(a) > len(b) {
        a, b = b, a
    }
    set := make(map[uint64]struct{}, len(a))
    for _, id := range a {
        set[id] = struct{}{}
    }
    for _, id := range b {
        if _, ok := set[id]; ok {
            return true
        }
    }
    return false
}
