package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkg_hash "github.com/Skotchmaster/expense_tracker/internal/hash"
	"github.com/Skotchmaster/expense_tracker/internal/middleware"
	"github.com/Skotchmaster/expense_tracker/internal/models"
	"github.com/Skotchmaster/expense_tracker/internal/repo"
	"github.com/Skotchmaster/expense_tracker/internal/service"
)

var testJWTSecret = []byte("test-jwt-secret")

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	RP *repo.GormRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Expense{}))

	rp := &repo.GormRepo{DB: db}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler: &AuthHTTP{
			Svc: &service.AuthService{
				Repo:              rp,
				JWTSecret:         testJWTSecret,
				PasswordMinLength: 8,
			},
			SecureCookies: false,
		},
		UserHandler: &UserHTTP{
			Svc: &service.UserService{Repo: rp},
		},
		ExpenseHandler: &ExpenseHTTP{
			Svc: &service.ExpenseService{Repo: rp},
		},
		Auth: middleware.NewAuthenticator(testJWTSecret, rp),
	})

	return &testEnv{T: t, E: e, DB: db, RP: rp}
}

func (env *testEnv) doJSON(method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) createUser(username, email, password string, isAdmin bool) *models.User {
	env.T.Helper()

	pwHash, err := pkg_hash.HashPassword(password)
	require.NoError(env.T, err)

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		IsAdmin:      isAdmin,
	}
	require.NoError(env.T, env.RP.CreateUser(context.Background(), user))
	return user
}

func (env *testEnv) login(username, password string) []*http.Cookie {
	env.T.Helper()

	rec := env.doJSON(http.MethodPost, "/login", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(env.T, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(env.T, cookies)
	return cookies
}

func (env *testEnv) loginUser() []*http.Cookie {
	env.createUser("test_user", "test@example.com", "Secret123", false)
	return env.login("test_user", "Secret123")
}

func (env *testEnv) loginAdmin() []*http.Cookie {
	env.createUser("admin_user", "admin@example.com", "Secret123", true)
	return env.login("admin_user", "Secret123")
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, ck := range cookies {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
