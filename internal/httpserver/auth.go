package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/workout_tracker/internal/service"
	"github.com/Skotchmaster/workout_tracker/internal/transport"
	"github.com/Skotchmaster/workout_tracker/pkg/logging"
	authmw "github.com/Skotchmaster/workout_tracker/pkg/middleware/auth"
	"github.com/Skotchmaster/workout_tracker/pkg/mykafka"
)

type AuthHTTP struct {
	Svc    *service.AuthService
	Events mykafka.Publisher
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignUpRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return toHTTPError(err)
	}

	acc, err := h.Svc.SignUp(ctx, service.SignUpInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return toHTTPError(err)
	}

	publish(ctx, h.Events, mykafka.TopicUserEvents, acc.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": acc.ID,
	})

	return c.JSON(http.StatusCreated, transport.SignUpResponse{
		ID:       acc.ID,
		Username: acc.Username,
		Email:    acc.Email,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return toHTTPError(err)
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	setTokenCookies(c, pair)
	publish(ctx, h.Events, mykafka.TopicUserEvents, pair.AccountID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": pair.AccountID,
	})

	return c.JSON(http.StatusOK, pair)
}

// TokenRefresh takes both tokens from the body and falls back to the cookies
// set at login for whichever is missing.
func (h *AuthHTTP) TokenRefresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.token_refresh")

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.AccessToken == "" {
		if ck, err := c.Cookie(authmw.AccessCookie); err == nil {
			req.AccessToken = ck.Value
		}
	}
	if req.RefreshToken == "" {
		if ck, err := c.Cookie(authmw.RefreshCookie); err == nil {
			req.RefreshToken = ck.Value
		}
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return toHTTPError(err)
	}

	pair, err := h.Svc.Refresh(ctx, req.AccessToken, req.RefreshToken)
	if err != nil {
		c.SetCookie(authmw.DeleteCookie(authmw.AccessCookie, "/"))
		c.SetCookie(authmw.DeleteCookie(authmw.RefreshCookie, "/"))
		return toHTTPError(err)
	}

	setTokenCookies(c, pair)
	publish(ctx, h.Events, mykafka.TopicUserEvents, pair.AccountID.String(), map[string]any{
		"type":   "tokens_refreshed",
		"userID": pair.AccountID,
	})

	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	userID, err := GetID(c)
	if err != nil {
		return err
	}
	acc, err := h.Svc.Profile(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, acc)
}

func setTokenCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(authmw.CreateCookie(authmw.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(authmw.CreateCookie(authmw.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))
}

// GetID reads the account id stored by the auth middleware.
func GetID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(authmw.CtxUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
