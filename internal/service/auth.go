package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	pkg_hash "github.com/Skotchmaster/expense_tracker/internal/hash"
	"github.com/Skotchmaster/expense_tracker/internal/logging"
	"github.com/Skotchmaster/expense_tracker/internal/models"
	"github.com/Skotchmaster/expense_tracker/internal/mykafka"
	"github.com/Skotchmaster/expense_tracker/internal/repo"
	"github.com/Skotchmaster/expense_tracker/internal/tokens"
	"github.com/Skotchmaster/expense_tracker/internal/transport"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type AuthService struct {
	Repo              *repo.GormRepo
	JWTSecret         []byte
	PasswordMinLength int
	Producer          *mykafka.Producer
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	IsAdmin      bool
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	fe := NewFieldErrors()

	if !usernamePattern.MatchString(req.Username) {
		fe.Add("username", "Username should only contain alphanumeric with underscore")
	} else if taken, err := s.Repo.UsernameTaken(ctx, req.Username); err != nil {
		l.Error("register_error", "reason", "username lookup failed", "error", err)
		return nil, err
	} else if taken {
		fe.Add("username", "This username already exists.")
	}

	if !emailPattern.MatchString(req.Email) {
		fe.Add("email", "Enter a valid email address.")
	} else if taken, err := s.Repo.EmailTaken(ctx, req.Email); err != nil {
		l.Error("register_error", "reason", "email lookup failed", "error", err)
		return nil, err
	} else if taken {
		fe.Add("email", "This email already exists.")
	}

	if len(req.Password) < s.PasswordMinLength {
		fe.Add("password", fmt.Sprintf("Password must be at least %d characters long.", s.PasswordMinLength))
	}
	if req.Password != req.ConfirmPassword {
		fe.Add("confirm_password", "Password do not match.")
	}

	if !fe.Empty() {
		return nil, fe
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		l.Error("register_error", "reason", "cannot store user", "error", err)
		return nil, err
	}

	event := map[string]interface{}{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	}
	if err := s.Producer.PublishEvent(ctx, mykafka.UserEventsTopic, strconv.FormatUint(uint64(user.ID), 10), event); err != nil {
		l.Warn("event_publish_failed", "topic", mykafka.UserEventsTopic, "error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	sub := strconv.FormatUint(uint64(user.ID), 10)
	role := RoleOf(user.IsAdmin)

	accessToken, err := tokens.SignAccess(sub, role, s.JWTSecret, now)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign access token", "error", err)
		return nil, err
	}

	refreshToken, err := tokens.SignRefresh(sub, role, s.JWTSecret, now)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign refresh token", "error", err)
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		IsAdmin:      user.IsAdmin,
	}, nil
}

// Refresh issues a new access token from a valid refresh token. The refresh
// token itself is left as-is: no rotation, no server-side state.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.ParseRefresh(rawRefresh, s.JWTSecret)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	// Role is re-read from the store so a promotion or demotion since login
	// shows up in the new access token.
	user, err := s.Repo.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		l.Error("refresh_failed", "error", err)
		return "", err
	}

	accessToken, err := tokens.SignAccess(claims.Subject, RoleOf(user.IsAdmin), s.JWTSecret, time.Now().UTC())
	if err != nil {
		l.Error("refresh_failed", "reason", "cannot sign access token", "error", err)
		return "", err
	}

	return accessToken, nil
}
