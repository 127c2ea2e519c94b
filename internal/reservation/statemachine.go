package reservation

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// StateMachine is the authoritative guard layer over the reservation
// status graph:
//
//	pending   --confirm-->  confirmed
//	pending   --cancel-->   cancelled (terminal)
//	confirmed --cancel-->   cancelled (terminal)
//	confirmed --seat-->     seated
//	confirmed --no_show-->  no_show (terminal)
//	seated    --unseat-->   confirmed
//	seated    --complete--> completed (terminal)
//
// Assert* methods return nil or an *InvalidStateTransitionError; the Can*
// probes mirror them for UI/read-model use and never fail.
type StateMachine struct{}

// NewStateMachine returns the guard layer.  It is stateless and safe for
// concurrent use.
func NewStateMachine() *StateMachine { return &StateMachine{} }

// Legal source sets per action.  Confirm and Unseat share the confirmed
// target but not the source set, so each action carries its own slice.
var (
    confirmSources  = []model.Status{model.StatusPending}
    seatSources     = []model.Status{model.StatusConfirmed}
    unseatSources   = []model.Status{model.StatusSeated}
    completeSources = []model.Status{model.StatusSeated}
    cancelSources   = []model.Status{model.StatusPending, model.StatusConfirmed}
    noShowSources   = []model.Status{model.StatusConfirmed}
)

func contains(set []model.Status, s model.Status) bool {
    for _, v := range set {
        if v == s {
            return true
        }
    }
    return false
}

func (m *StateMachine) assert(r *model.Reservation, target model.Status, sources []model.Status) error {
    if contains(sources, r.Status) {
        return nil
    }
    return &InvalidStateTransitionError{
        ReservationID: r.ID,
        Current:       r.Status,
        Target:        target,
        AllowedFrom:   sources,
    }
}

// AssertCanConfirm fails unless the reservation is pending.
func (m *StateMachine) AssertCanConfirm(r *model.Reservation) error {
    return m.assert(r, model.StatusConfirmed, confirmSources)
}

// AssertCanSeat fails unless the reservation is confirmed.
func (m *StateMachine) AssertCanSeat(r *model.Reservation) error {
    return m.assert(r, model.StatusSeated, seatSources)
}

// AssertCanUnseat fails unless the reservation is seated.  Unseating
// reverts to confirmed, never all the way back to pending.
func (m *StateMachine) AssertCanUnseat(r *model.Reservation) error {
    return m.assert(r, model.StatusConfirmed, unseatSources)
}

// AssertCanComplete fails unless the reservation is seated.
func (m *StateMachine) AssertCanComplete(r *model.Reservation) error {
    return m.assert(r, model.StatusCompleted, completeSources)
}

// AssertCanCancel fails unless the reservation is pending or confirmed.
func (m *StateMachine) AssertCanCancel(r *model.Reservation) error {
    return m.assert(r, model.StatusCancelled, cancelSources)
}

// AssertCanMarkNoShow fails unless the reservation is confirmed.
func (m *StateMachine) AssertCanMarkNoShow(r *model.Reservation) error {
    return m.assert(r, model.StatusNoShow, noShowSources)
}

// CanConfirm reports whether Confirm would pass its guard.
func (m *StateMachine) CanConfirm(r *model.Reservation) bool { return contains(confirmSources, r.Status) }

// CanSeat reports whether Seat would pass its guard.
func (m *StateMachine) CanSeat(r *model.Reservation) bool { return contains(seatSources, r.Status) }

// CanUnseat reports whether Unseat would pass its guard.
func (m *StateMachine) CanUnseat(r *model.Reservation) bool { return contains(unseatSources, r.Status) }

// CanComplete reports whether Complete would pass its guard.
func (m *StateMachine) CanComplete(r *model.Reservation) bool {
    return contains(completeSources, r.Status)
}

// CanCancel reports whether Cancel would pass its guard.
func (m *StateMachine) CanCancel(r *model.Reservation) bool { return contains(cancelSources, r.Status) }

// CanMarkNoShow reports whether MarkNoShow would pass its guard.
func (m *StateMachine) CanMarkNoShow(r *model.Reservation) bool {
    return contains(noShowSources, r.Status)
}

// IsTerminal reports whether the status is final (completed, cancelled or
// no_show).  Terminal reservations reject every action.
func IsTerminal(s model.Status) bool {
    switch s {
    case model.StatusCompleted, model.StatusCancelled, model.StatusNoShow:
        return true
    }
    return false
}

// IsEditable reports whether the reservation's details may still be
// edited by the intake flow: true for any non-terminal status.
func IsEditable(s model.Status) bool { return !IsTerminal(s) }
