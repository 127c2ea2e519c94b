package reservation

import (
    "errors"
    "testing"

    "github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TestTransitionGrid exercises the guard for every (status, action) pair
// so the allowed graph is pinned down exhaustively.
func TestTransitionGrid(t *testing.T) {
    sm := NewStateMachine()
    statuses := []model.Status{
        model.StatusPending, model.StatusConfirmed, model.StatusSeated,
        model.StatusCompleted, model.StatusCancelled, model.StatusNoShow,
    }
    actions := []struct {
        name    string
        assert  func(*model.Reservation) error
        allowed map[model.Status]bool
    }{
        {
            name:    "confirm",
            assert:  sm.AssertCanConfirm,
            allowed: map[model.Status]bool{model.StatusPending: true},
        },
        {
            name:    "seat",
            assert:  sm.AssertCanSeat,
            allowed: map[model.Status]bool{model.StatusConfirmed: true},
        },
        {
            name:    "unseat",
            assert:  sm.AssertCanUnseat,
            allowed: map[model.Status]bool{model.StatusSeated: true},
        },
        {
            name:    "complete",
            assert:  sm.AssertCanComplete,
            allowed: map[model.Status]bool{model.StatusSeated: true},
        },
        {
            name:    "cancel",
            assert:  sm.AssertCanCancel,
            allowed: map[model.Status]bool{model.StatusPending: true, model.StatusConfirmed: true},
        },
        {
            name:    "no_show",
            assert:  sm.AssertCanMarkNoShow,
            allowed: map[model.Status]bool{model.StatusConfirmed: true},
        },
    }

    for _, action := range actions {
        for _, status := range statuses {
            t.Run(action.name+"/"+string(status), func(t *testing.T) {
                r := &model.Reservation{ID: 1, Status: status}
                err := action.assert(r)
                if action.allowed[status] {
                    if err != nil {
                        t.Fatalf("expected %s from %s to be allowed, got %v", action.name, status, err)
                    }
                    return
                }
                if err == nil {
                    t.Fatalf("expected %s from %s to be rejected", action.name, status)
                }
                var tr *InvalidStateTransitionError
                if !errors.As(err, &tr) {
                    t.Fatalf("expected *InvalidStateTransitionError, got %T", err)
                }
                if tr.Current != status {
                    t.Fatalf("error reports current %q, want %q", tr.Current, status)
                }
            })
        }
    }
}

func TestIsTerminal(t *testing.T) {
    cases := []struct {
        status   model.Status
        terminal bool
    }{
        {model.StatusPending, false},
        {model.StatusConfirmed, false},
        {model.StatusSeated, false},
        {model.StatusCompleted, true},
        {model.StatusCancelled, true},
        {model.StatusNoShow, true},
    }
    for _, tc := range cases {
        if got := IsTerminal(tc.status); got != tc.terminal {
            t.Fatalf("IsTerminal(%s) = %v, want %v", tc.status, got, tc.terminal)
        }
        if got := IsEditable(tc.status); got == tc.terminal {
            t.Fatalf("IsEditable(%s) = %v, want %v", tc.status, got, !tc.terminal)
        }
    }
}
