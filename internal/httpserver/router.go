package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/expense_tracker/internal/middleware"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	UserHandler    *UserHTTP
	ExpenseHandler *ExpenseHTTP
	Auth           *middleware.Authenticator
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.POST("/refresh", d.AuthHandler.Refresh)
	e.POST("/logout", d.AuthHandler.LogOut)

	private := e.Group("", d.Auth.RequireAuth)
	private.GET("/me", d.UserHandler.Me)
	private.GET("/expenses", d.ExpenseHandler.ListExpenses)
	private.POST("/expenses", d.ExpenseHandler.CreateExpense)
	private.GET("/expenses/:id", d.ExpenseHandler.GetExpense)
	private.PUT("/expenses/:id", d.ExpenseHandler.UpdateExpense)
	private.DELETE("/expenses/:id", d.ExpenseHandler.DeleteExpense)
	private.GET("/summary", d.ExpenseHandler.Summary)

	admin := e.Group("", d.Auth.RequireAdmin)
	admin.GET("/users", d.UserHandler.ListUsers)
}
