package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/expense_tracker/internal/repo"
	"github.com/Skotchmaster/expense_tracker/internal/service"
	"github.com/Skotchmaster/expense_tracker/internal/tokens"
)

const identityKey = "identity"

type Authenticator struct {
	JWTSecret []byte
	Repo      *repo.GormRepo
}

func NewAuthenticator(secret []byte, r *repo.GormRepo) *Authenticator {
	return &Authenticator{JWTSecret: secret, Repo: r}
}

func (a *Authenticator) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return a.requireAuthWithValidator(next, nil)
}

func (a *Authenticator) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return a.requireAuthWithValidator(next, func(identity service.Identity) error {
		if !identity.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

type validatorFunc func(identity service.Identity) error

func (a *Authenticator) requireAuthWithValidator(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, err := a.resolve(c)
		if err != nil {
			return err
		}
		if identity == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication credentials were not provided")
		}

		if validator != nil {
			if err := validator(*identity); err != nil {
				return err
			}
		}

		c.Set(identityKey, *identity)
		return next(c)
	}
}

// resolve tries each credential source in order, first match wins. A bearer
// header that fails validation is a hard failure: the cookie is never
// consulted behind a bad header. Only a completely absent credential yields
// the anonymous (nil, nil) result.
func (a *Authenticator) resolve(c echo.Context) (*service.Identity, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return a.identityFromToken(c, raw)
	}

	cookie, err := c.Cookie("access_token")
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	return a.identityFromToken(c, cookie.Value)
}

func (a *Authenticator) identityFromToken(c echo.Context, raw string) (*service.Identity, error) {
	claims, err := tokens.ParseAccess(raw, a.JWTSecret)
	if err != nil {
		if errors.Is(err, tokens.ErrTokenExpired) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "token expired")
		}
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}

	user, err := a.Repo.GetUserByID(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
		}
		return nil, err
	}

	return &service.Identity{
		UserID: user.ID,
		Role:   service.RoleOf(user.IsAdmin),
	}, nil
}

func IdentityFrom(c echo.Context) (service.Identity, bool) {
	identity, ok := c.Get(identityKey).(service.Identity)
	return identity, ok
}
