package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/expense_tracker/internal/logging"
	"github.com/Skotchmaster/expense_tracker/internal/middleware"
	"github.com/Skotchmaster/expense_tracker/internal/service"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_me")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	info, err := h.Svc.Me(ctx, identity)
	if err != nil {
		l.Error("me_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load user")
	}

	return c.JSON(http.StatusOK, info)
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user_list")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("list_users_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list users")
	}

	return c.JSON(http.StatusOK, users)
}
