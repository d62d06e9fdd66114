package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/expense_tracker/internal/logging"
	"github.com/Skotchmaster/expense_tracker/internal/middleware"
	"github.com/Skotchmaster/expense_tracker/internal/service"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

type ExpenseHTTP struct {
	Svc *service.ExpenseService
}

func (h *ExpenseHTTP) ListExpenses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_list")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	filters, err := parseListFilters(c)
	if err != nil {
		l.Warn("expense_list_error", "status", 400, "error", err)
		return err
	}

	items, err := h.Svc.List(ctx, identity, filters)
	if err != nil {
		l.Error("expense_list_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list expenses")
	}

	return c.JSON(http.StatusOK, transport.NewExpenseListResponse(items))
}

func (h *ExpenseHTTP) CreateExpense(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_create")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	var req transport.ExpenseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("expense_create_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	expense, err := h.Svc.Create(ctx, identity, req)
	if err != nil {
		return h.mapError(c, l, "expense_create_error", err)
	}

	l.Info("expense_create_success", "expense_id", expense.ID)
	return c.JSON(http.StatusCreated, transport.NewExpenseResponse(expense))
}

func (h *ExpenseHTTP) GetExpense(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_get")

	identity, id, err := h.identityAndID(c)
	if err != nil {
		return err
	}

	expense, err := h.Svc.Get(ctx, identity, id)
	if err != nil {
		return h.mapError(c, l, "expense_get_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewExpenseResponse(expense))
}

func (h *ExpenseHTTP) UpdateExpense(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_update")

	identity, id, err := h.identityAndID(c)
	if err != nil {
		return err
	}

	var req transport.ExpenseRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("expense_update_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	expense, err := h.Svc.Update(ctx, identity, id, req)
	if err != nil {
		return h.mapError(c, l, "expense_update_error", err)
	}

	l.Info("expense_update_success", "expense_id", expense.ID)
	return c.JSON(http.StatusOK, transport.NewExpenseResponse(expense))
}

func (h *ExpenseHTTP) DeleteExpense(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_delete")

	identity, id, err := h.identityAndID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, identity, id); err != nil {
		return h.mapError(c, l, "expense_delete_error", err)
	}

	l.Info("expense_delete_success", "expense_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *ExpenseHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense_summary")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	filters, err := parseListFilters(c)
	if err != nil {
		l.Warn("expense_summary_error", "status", 400, "error", err)
		return err
	}

	rows, err := h.Svc.Summarize(ctx, identity, filters)
	if err != nil {
		l.Error("expense_summary_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build summary")
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *ExpenseHTTP) identityAndID(c echo.Context) (service.Identity, uint, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return service.Identity{}, 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return service.Identity{}, 0, echo.NewHTTPError(http.StatusNotFound, "expense not found")
	}
	return identity, uint(id), nil
}

func (h *ExpenseHTTP) mapError(c echo.Context, l *slog.Logger, event string, err error) error {
	var fe *service.FieldErrors
	switch {
	case errors.As(err, &fe):
		l.Warn(event, "status", 400)
		return c.JSON(http.StatusBadRequest, fe.Fields)
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404)
		return echo.NewHTTPError(http.StatusNotFound, "expense not found")
	case errors.Is(err, service.ErrPermissionDenied):
		l.Warn(event, "status", 403)
		return echo.NewHTTPError(http.StatusForbidden, "you do not have permission to perform this action")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func parseListFilters(c echo.Context) (service.ListFilters, error) {
	var filters service.ListFilters

	if v := c.QueryParam("start_date"); v != "" {
		t, err := time.Parse(transport.DateLayout, v)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "start_date has wrong format. Use YYYY-MM-DD")
		}
		filters.StartDate = &t
	}
	if v := c.QueryParam("end_date"); v != "" {
		t, err := time.Parse(transport.DateLayout, v)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "end_date has wrong format. Use YYYY-MM-DD")
		}
		filters.EndDate = &t
	}
	if v := c.QueryParam("category"); v != "" {
		filters.Category = &v
	}
	if v := c.QueryParam("user"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return filters, echo.NewHTTPError(http.StatusBadRequest, "user must be an integer id")
		}
		ownerID := uint(id)
		filters.OwnerID = &ownerID
	}

	return filters, nil
}
