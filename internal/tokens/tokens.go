package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"

	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 24 * time.Hour
)

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrBadSignature   = errors.New("bad token signature")
)

// Claims is the payload of both access and refresh tokens. Kind keeps the
// two from being used interchangeably.
type Claims struct {
	Role string `json:"role"`
	Kind string `json:"typ"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool { return c.Role == "admin" }

func SignAccess(userID, role string, secret []byte, now time.Time) (string, error) {
	claims := Claims{
		Role: role,
		Kind: KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func SignRefresh(userID, role string, secret []byte, now time.Time) (string, error) {
	claims := Claims{
		Role: role,
		Kind: KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ParseAccess(raw string, secret []byte) (*Claims, error) {
	return parse(raw, KindAccess, secret)
}

func ParseRefresh(raw string, secret []byte) (*Claims, error) {
	return parse(raw, KindRefresh, secret)
}

func parse(raw, kind string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrBadSignature
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !tkn.Valid || claims.Kind != kind {
		return nil, ErrTokenMalformed
	}
	return &claims, nil
}
