package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/expense_tracker/internal/logging"
	"github.com/Skotchmaster/expense_tracker/internal/service"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService

	// SecureCookies mirrors the deployment environment: true everywhere
	// except local debug runs.
	SecureCookies bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Register(ctx, req); err != nil {
		var fe *service.FieldErrors
		if errors.As(err, &fe) {
			l.Warn("register_failed", "status", 400, "fields", len(fe.Fields))
			return c.JSON(http.StatusBadRequest, fe.Fields)
		}
		l.Error("register_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully.",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
	}

	// Tokens travel only in HTTP-only cookies, never in the body.
	c.SetCookie(accessCookie(res.AccessToken, h.SecureCookies))
	c.SetCookie(refreshCookie(res.RefreshToken, h.SecureCookies))

	l.Info("login_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	accessToken, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("refresh_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "refresh failed")
	}

	c.SetCookie(accessCookie(accessToken, h.SecureCookies))

	l.Info("refresh_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Token refreshed",
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth_logout")

	c.SetCookie(deleteCookie(accessCookieName, h.SecureCookies))
	c.SetCookie(deleteCookie(refreshCookieName, h.SecureCookies))

	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Logged out",
	})
}
