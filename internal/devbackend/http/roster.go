package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/shiftboard/internal/devbackend/service"
	"github.com/aussiebroadwan/shiftboard/pkg/httpx"
	"github.com/aussiebroadwan/shiftboard/pkg/slogx"
	"github.com/aussiebroadwan/shiftboard/pkg/timex"
)

// RosterHandler serves the dashboard's business endpoints. All of them
// require an ADMIN or MANAGER token.
type RosterHandler struct {
	RosterService *service.RosterService
}

// HandleShifts godoc
//
//	@Summary		List shifts
//	@Description	Shifts starting within [from, to]. A date-only "to" includes the whole day. Both bounds are optional.
//	@Description	"start" is epoch seconds and "end" is RFC3339.
//	@Tags			Roster
//	@Security		BearerAuth
//	@Produce		json
//	@Param			from	query		string			false	"Lower bound (date, RFC3339 or epoch)"
//	@Param			to		query		string			false	"Upper bound (date, RFC3339 or epoch)"
//	@Success		200		{array}		ShiftResponse
//	@Failure		400		{object}	httpx.ErrorBody	"Bad period"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403		{object}	httpx.ErrorBody	"Role not permitted"
//	@Router			/api/shifts [get].
func (h *RosterHandler) HandleShifts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	shifts, err := h.RosterService.ListShifts(ctx, from, to)
	if err != nil {
		writeRosterError(w, r, "list shifts", err)
		return
	}

	out := make([]ShiftResponse, 0, len(shifts))
	for _, s := range shifts {
		out = append(out, toShift(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleItems godoc
//
//	@Summary		List consumption items
//	@Description	The full catalog. "updatedAt" is epoch milliseconds.
//	@Tags			Roster
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		ItemResponse
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403	{object}	httpx.ErrorBody	"Role not permitted"
//	@Router			/api/consumption-items [get].
func (h *RosterHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.RosterService.ListItems(r.Context())
	if err != nil {
		writeRosterError(w, r, "list items", err)
		return
	}

	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItem(i))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandlePayroll godoc
//
//	@Summary		Payroll summary
//	@Description	Hours and gross pay per staff member for shifts starting within [from, to]. Both bounds are required.
//	@Description	"periodStart" is a date and "periodEnd" is a [year, month, day] array.
//	@Tags			Roster
//	@Security		BearerAuth
//	@Produce		json
//	@Param			from	query		string			true	"First day (date, RFC3339 or epoch)"
//	@Param			to		query		string			true	"Last day (date, RFC3339 or epoch)"
//	@Success		200		{object}	PayrollResponse
//	@Failure		400		{object}	httpx.ErrorBody	"Bad period"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid or missing access token"
//	@Failure		403		{object}	httpx.ErrorBody	"Role not permitted"
//	@Router			/api/payroll/summary [get].
func (h *RosterHandler) HandlePayroll(w http.ResponseWriter, r *http.Request) {
	from, to, ok := parsePeriod(w, r)
	if !ok {
		return
	}

	sum, err := h.RosterService.Payroll(r.Context(), from, to)
	if err != nil {
		writeRosterError(w, r, "payroll", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toPayroll(sum))
}

// parsePeriod reads the from/to query parameters. A date-only "to" is moved
// to the start of the following day so the bound is exclusive.
func parsePeriod(w http.ResponseWriter, r *http.Request) (from, to time.Time, ok bool) {
	q := r.URL.Query()

	var err error
	if from, err = parseBound(q.Get("from")); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("from: %v", err))
		return time.Time{}, time.Time{}, false
	}

	raw := strings.TrimSpace(q.Get("to"))
	if to, err = parseBound(raw); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("to: %v", err))
		return time.Time{}, time.Time{}, false
	}
	if _, dateErr := time.Parse(time.DateOnly, raw); dateErr == nil {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, true
}

func parseBound(v string) (time.Time, error) {
	t, err := timex.Normalize(strings.TrimSpace(v))
	if errors.Is(err, timex.ErrEmpty) {
		return time.Time{}, nil
	}
	return t, err
}

func writeRosterError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, service.ErrInvalidPeriod) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "period end must be after period start")
		return
	}
	slogx.FromContext(r.Context()).Error(op+" failed", "err", err)
	httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
}
