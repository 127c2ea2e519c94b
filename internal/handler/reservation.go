package handler

import (
    "context"              // request-scoped timeouts for action calls
    "errors"               // errors.As for mapping domain failures to HTTP
    "net/http"             // HTTP status codes
    "strconv"              // path/claim parsing
    "time"                 // action deadlines

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
    "github.com/iliyamo/restaurant-table-reservation/internal/reservation"
)

// ReservationHandler exposes the reservation lifecycle actions over HTTP.
// All state changes go through the transactional action layer; the repos
// held here are only used for the read endpoints.
type ReservationHandler struct {
    Actions      *reservation.Actions
    Reservations *repository.ReservationRepo
    Tables       *repository.TableRepo
}

func NewReservationHandler(a *reservation.Actions, r *repository.ReservationRepo, t *repository.TableRepo) *ReservationHandler {
    return &ReservationHandler{Actions: a, Reservations: r, Tables: t}
}

// ----- DTOs -----

type confirmReq struct {
    SkipConflictCheck bool `json:"skip_conflict_check"`
}
type seatReq struct {
    CreateOrder     bool   `json:"create_order"`
    TransferDeposit bool   `json:"transfer_deposit"`
    GuestCount      uint32 `json:"guest_count"`
}
type unseatReq struct {
    Force bool `json:"force"`
}
type completeReq struct {
    Force bool `json:"force"`
}
type cancelReq struct {
    Reason        string `json:"reason"`
    RefundDeposit bool   `json:"refund_deposit"`
}
type noShowReq struct {
    ForfeitDeposit bool   `json:"forfeit_deposit"`
    Notes          string `json:"notes"`
}

// pathID parses the :id path parameter.  Returns 0 when it is missing or
// not a positive integer; callers respond with 400 in that case.
func pathID(c echo.Context) uint64 {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return 0
    }
    return id
}

// actorID extracts the authenticated staff user's id from the JWT claims
// stored in context by the auth middleware.  The sub claim arrives as a
// float64 (JSON number) or a string depending on the issuer.
func actorID(c echo.Context) uint64 {
    switch v := c.Get("user_id").(type) {
    case float64:
        return uint64(v)
    case string:
        if n, err := strconv.ParseUint(v, 10, 64); err == nil {
            return n
        }
    }
    return 0
}

// writeActionError maps domain failures onto HTTP responses.  State and
// resource collisions are 409, business-rule rejections are 422, unknown
// reservations are 404 and everything else is a 500.
func writeActionError(c echo.Context, err error) error {
    var (
        transition *reservation.InvalidStateTransitionError
        conflict   *reservation.ConflictError
        occupied   *reservation.TableOccupiedError
        deposit    *reservation.DepositError
        invalid    *reservation.ValidationError
    )
    switch {
    case errors.As(err, &transition):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":        "invalid state transition",
            "current":      transition.Current,
            "target":       transition.Target,
            "allowed_from": transition.AllowedFrom,
        })
    case errors.As(err, &conflict):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":     "reservation conflict",
            "conflicts": conflict.Conflicts,
        })
    case errors.As(err, &occupied):
        return c.JSON(http.StatusConflict, echo.Map{
            "error":  "table occupied",
            "tables": occupied.Tables,
        })
    case errors.As(err, &deposit):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{
            "error":          "deposit error",
            "deposit_status": deposit.Status,
            "amount_cents":   deposit.AmountCents,
            "reason":         deposit.Reason,
        })
    case errors.As(err, &invalid):
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{
            "error":  "validation failed",
            "field":  invalid.Field,
            "rule":   invalid.Rule,
            "detail": invalid.Detail,
        })
    case errors.Is(err, repository.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    case errors.Is(err, repository.ErrTableNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "action failed"})
    }
}

func writeResult(c echo.Context, res *reservation.Result) error {
    return c.JSON(http.StatusOK, res)
}

// actionCtx bounds one action; seat in particular waits on row locks, so
// the timeout is generous compared to plain reads.
func actionCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 10*time.Second)
}

// ----- Lifecycle actions -----

// Confirm handles POST /v1/reservations/:id/confirm.
func (h *ReservationHandler) Confirm(c echo.Context) error {
    id := pathID(c)
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req confirmReq
    _ = c.Bind(&req) // empty body means defaults

    ctx, cancel := actionCtx(c)
    defer cancel()

    res, err := h.Actions.Confirm(ctx, reservation.ConfirmParams{
        ReservationID:     id,
        ActorID:           actorID(c),
        SkipConflictCheck: req.SkipConflictCheck,
    })
    if err != nil {
        return writeActionError(c, err)
    }
    return writeResult(c, res)
}

// Seat handles POST /v1/reservations/:id/seat.
func (h *ReservationHandler) Seat(c echo.Context) error {
    id := pathID(c)
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req seatReq
    _ = c.Bind(&req)

    ctx, cancel := actionCtx(c)
    defer cancel()

    res, err := h.Actions.Seat(ctx, reservation.SeatParams{
        ReservationID:   id,
        ActorID:         actorID(c),
        CreateOrder:     req.CreateOrder,
        TransferDeposit: req.TransferDeposit,
        GuestCount:      req.GuestCount,
    })
    if err != nil {
        return writeActionError(c, err)
    }
    return writeResult(c, res)
}

// Unseat handles POST /v1/reservations/:id/unseat.
func (h *ReservationHandler) Unseat(c echo.Context) error {
    id := pathID(c)
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req unseatReq
    _ = c.Bind(&req)

    ctx, cancel := actionCtx(c)
    defer cancel()

    res, err := h.Actions.Unseat(ctx, reservation.UnseatParams{
        ReservationID: id,
        ActorID:       actorID(c),
        Force:         req.Force,
    })
    if err != nil {
        return writeActionError(c, err)
    }
    return writeResult(c, res)
}

// Complete handles POST /v1/reservations/:id/complete.
func (h *ReservationHandler) Complete(c echo.Context) error {
    id := pathID(c)
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req completeReq
    _ = c.Bind(&req)

    ctx, cancel := actionCtx(c)
    defer cancel()

    res, err := h.Actions.Complete(ctx, reservation.CompleteParams{
        ReservationID: id,
        ActorID:       actorID(c),
        Force:         req.Force,
    })
    if err != nil {
        return writeActionError(c, err)
    }
    return writeResult(c, res)
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    id := pathID(c)
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req cancelReq
    _ = c.Bind(&req)

    ctx, cancel := actionCtx(c)
    defer cancel()

    res, err := h.Actions.Cancel(ctx, reservation.CancelParams{
        ReservationID: id,
        ActorID:       actorID(c),
        Reason:        req.Reason,
        RefundDeposit: req.RefundDeposit,
    })
    if err != nil {
        return writeActionError(c, err)
    }
    return writeResult(c, res)
}

// MarkNoShow handles POST /v1/reservations/:id/no-show.
func (h *ReservationHandler) MarkNoShow(c echo.Context) error {
    id := pathID(c)
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    var req noShowReq
    _ = c.Bind(&req)

    ctx, cancel := actionCtx(c)
    defer cancel()

    res, err := h.Actions.MarkNoShow(ctx, reservation.NoShowParams{
        ReservationID:  id,
        ActorID:        actorID(c),
        ForfeitDeposit: req.ForfeitDeposit,
        Notes:          req.Notes,
    })
    if err != nil {
        return writeActionError(c, err)
    }
    return writeResult(c, res)
}

// ----- Reads -----

// Get handles GET /v1/reservations/:id and returns the reservation plus
// its resolved table set and available lifecycle actions.
func (h *ReservationHandler) Get(c echo.Context) error {
    id := pathID(c)
    if id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx, cancel := actionCtx(c)
    defer cancel()

    r, err := h.Reservations.GetByID(ctx, id)
    if err != nil {
        return writeActionError(c, err)
    }
    sm := h.Actions.StateMachine()
    return c.JSON(http.StatusOK, echo.Map{
        "reservation": r,
        "table_ids":   reservation.TableSet(r),
        "actions": echo.Map{
            "confirm":  sm.CanConfirm(r),
            "seat":     sm.CanSeat(r),
            "unseat":   sm.CanUnseat(r),
            "complete": sm.CanComplete(r),
            "cancel":   sm.CanCancel(r),
            "no_show":  sm.CanMarkNoShow(r),
        },
    })
}

// ListByDate handles GET /v1/restaurants/:id/reservations?date=YYYY-MM-DD.
func (h *ReservationHandler) ListByDate(c echo.Context) error {
    restaurantID := pathID(c)
    if restaurantID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
    }
    date := c.QueryParam("date")
    if date == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "date query parameter required"})
    }
    ctx, cancel := actionCtx(c)
    defer cancel()

    list, err := h.Reservations.ListByRestaurantAndDate(ctx, restaurantID, date)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"date": date, "reservations": list})
}

// ListTables handles GET /v1/restaurants/:id/tables.
func (h *ReservationHandler) ListTables(c echo.Context) error {
    restaurantID := pathID(c)
    if restaurantID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
    }
    ctx, cancel := actionCtx(c)
    defer cancel()

    tables, err := h.Tables.ListByRestaurant(ctx, restaurantID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}
