package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/workout_tracker/pkg/logging"
	"github.com/Skotchmaster/workout_tracker/pkg/tokens"
)

const (
	CtxUserID   = "user_id"
	CtxEmail    = "email"
	CtxUsername = "username"
)

type TokenValidator interface {
	ValidateLive(token string) (*tokens.AccessClaims, error)
}

type Route struct {
	Method string
	Path   string
}

// Middleware authenticates every request except the routes on its allow-list.
type Middleware struct {
	validator TokenValidator
	public    map[Route]struct{}
}

func New(v TokenValidator, public ...Route) *Middleware {
	m := &Middleware{validator: v, public: make(map[Route]struct{}, len(public))}
	for _, r := range public {
		m.public[r] = struct{}{}
	}
	return m
}

func (m *Middleware) IsPublic(method, path string) bool {
	_, ok := m.public[Route{Method: method, Path: path}]
	return ok
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.IsPublic(c.Request().Method, c.Path()) {
			return next(c)
		}

		l := logging.FromContext(c.Request().Context()).With("mw", "require_auth")

		raw := bearerToken(c)
		if raw == "" {
			l.Warn("auth_failed", "status", 401, "reason", "missing access token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := m.validator.ValidateLive(raw)
		if err != nil || claims == nil || claims.Subject == "" {
			l.Warn("auth_failed", "status", 401, "reason", "invalid or expired token")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxEmail, claims.Email)
		c.Set(CtxUsername, claims.Username)

		return next(c)
	}
}

// bearerToken prefers the Authorization header and falls back to the access cookie.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if ck, err := c.Cookie(AccessCookie); err == nil {
		return ck.Value
	}
	return ""
}
