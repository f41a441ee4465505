package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Identity is the authenticated caller, extracted once by the auth
// middleware and passed explicitly into handlers from there.
type Identity struct {
	UserID  int64
	IsStaff bool
}

type authClaims struct {
	jwt.RegisteredClaims
	IsStaff bool `json:"is_staff"`
}

type Auth struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewAuth(secret []byte, tokenTTL time.Duration) *Auth {
	return &Auth{secret: secret, tokenTTL: tokenTTL}
}

func (a *Auth) IssueToken(identity Identity) (string, error) {
	now := time.Now()
	claims := authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		IsStaff: identity.IsStaff,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

func (a *Auth) verify(tokenString string) (Identity, error) {
	var claims authClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("parsing token: %w", err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("parsing token subject: %w", err)
	}

	return Identity{UserID: userID, IsStaff: claims.IsStaff}, nil
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// caller's identity for the handler.
func (a *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if header == "" {
			return unauthorized("Authentication credentials were not provided.")
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return unauthorized("Invalid authorization header.")
		}

		identity, err := a.verify(tokenString)
		if err != nil {
			return unauthorized("Invalid or expired token.")
		}

		c.Set(identityKey, identity)
		return next(c)
	}
}

// RequireStaff gates write access to catalog resources. It runs after
// RequireAuth.
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !identityFrom(c).IsStaff {
			return &echo.HTTPError{
				Code:    http.StatusForbidden,
				Message: "You do not have permission to perform this action.",
			}
		}
		return next(c)
	}
}

func identityFrom(c echo.Context) Identity {
	identity, _ := c.Get(identityKey).(Identity)
	return identity
}

func unauthorized(message string) *echo.HTTPError {
	return &echo.HTTPError{
		Code:    http.StatusUnauthorized,
		Message: message,
	}
}
