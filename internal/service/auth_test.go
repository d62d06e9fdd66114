package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkg_hash "github.com/Skotchmaster/expense_tracker/internal/hash"
	"github.com/Skotchmaster/expense_tracker/internal/models"
	"github.com/Skotchmaster/expense_tracker/internal/repo"
	"github.com/Skotchmaster/expense_tracker/internal/tokens"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

var testJWTSecret = []byte("test-jwt-secret")

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Expense{}))

	return &repo.GormRepo{DB: db}
}

func newTestAuthService(t *testing.T) *AuthService {
	return &AuthService{
		Repo:              newTestRepo(t),
		JWTSecret:         testJWTSecret,
		PasswordMinLength: 8,
	}
}

func validRegisterRequest() transport.RegisterRequest {
	return transport.RegisterRequest{
		Username:        "test_user",
		Email:           "test@example.com",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "test_user", user.Username)
	assert.Equal(t, "test@example.com", user.Email)
	assert.False(t, user.IsAdmin)
	assert.NotEqual(t, "Secret123", user.PasswordHash)
	assert.True(t, pkg_hash.CheckPassword(user.PasswordHash, "Secret123"))
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*transport.RegisterRequest)
		field   string
	}{
		{
			name:   "username with invalid characters",
			mutate: func(r *transport.RegisterRequest) { r.Username = "bad name!" },
			field:  "username",
		},
		{
			name:   "username starting with underscore",
			mutate: func(r *transport.RegisterRequest) { r.Username = "_user" },
			field:  "username",
		},
		{
			name:   "single character username",
			mutate: func(r *transport.RegisterRequest) { r.Username = "a" },
			field:  "username",
		},
		{
			name:   "invalid email",
			mutate: func(r *transport.RegisterRequest) { r.Email = "not-an-email" },
			field:  "email",
		},
		{
			name:   "short password",
			mutate: func(r *transport.RegisterRequest) { r.Password, r.ConfirmPassword = "short", "short" },
			field:  "password",
		},
		{
			name:   "password mismatch",
			mutate: func(r *transport.RegisterRequest) { r.ConfirmPassword = "Different123" },
			field:  "confirm_password",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestAuthService(t)
			req := validRegisterRequest()
			tt.mutate(&req)

			user, err := svc.Register(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, ErrValidation)

			var fe *FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe.Fields, tt.field)
		})
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	sameUsername := validRegisterRequest()
	sameUsername.Email = "other@example.com"
	_, err = svc.Register(ctx, sameUsername)
	require.Error(t, err)

	var fe *FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "username")
	assert.NotContains(t, fe.Fields, "email")

	sameEmail := validRegisterRequest()
	sameEmail.Username = "other_user"
	_, err = svc.Register(ctx, sameEmail)
	require.Error(t, err)

	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Fields, "email")
	assert.NotContains(t, fe.Fields, "username")
}

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	res, err := svc.Login(ctx, "test_user", "Secret123")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.False(t, res.IsAdmin)

	accessClaims, err := tokens.ParseAccess(res.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user", accessClaims.Role)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), accessClaims.Subject)

	refreshClaims, err := tokens.ParseRefresh(res.RefreshToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, accessClaims.Subject, refreshClaims.Subject)
	assert.NotEmpty(t, refreshClaims.ID)
}

func TestAuthService_Login_AdminRole(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	pwHash, err := pkg_hash.HashPassword("Secret123")
	require.NoError(t, err)
	admin := models.User{
		Username:     "admin_user",
		Email:        "admin@example.com",
		PasswordHash: pwHash,
		IsAdmin:      true,
	}
	require.NoError(t, svc.Repo.CreateUser(ctx, &admin))

	res, err := svc.Login(ctx, "admin_user", "Secret123")
	require.NoError(t, err)
	assert.True(t, res.IsAdmin)

	claims, err := tokens.ParseAccess(res.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	res, err := svc.Login(ctx, "test_user", "WrongPassword")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err = svc.Login(ctx, "no_such_user", "Secret123")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Refresh_IssuesNewAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	res, err := svc.Login(ctx, "test_user", "Secret123")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)

	claims, err := tokens.ParseAccess(accessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	res, err := svc.Login(ctx, "test_user", "Secret123")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
