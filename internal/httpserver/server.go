package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/workout_tracker/pkg/middleware/auth"
	"github.com/Skotchmaster/workout_tracker/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/workout_tracker/pkg/middleware/logging"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	WorkoutHandler *WorkoutHTTP
	Tokens         authmw.TokenValidator
	Ready          func(ctx context.Context) error
}

// New builds the echo instance with the shared middleware chain. Routes are
// added by Register.
func New(base *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(base))
	e.Use(middleware.CORS())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.AuthCookies = []string{authmw.AccessCookie, authmw.RefreshCookie}
	e.Use(csrf.Middleware(csrfCfg))
	return e
}

var publicRoutes = []authmw.Route{
	{Method: http.MethodPost, Path: "/v1/authentication/signup"},
	{Method: http.MethodPost, Path: "/v1/authentication/login"},
	{Method: http.MethodPost, Path: "/v1/authentication/tokenRefresh"},
	{Method: http.MethodGet, Path: "/health/live"},
	{Method: http.MethodGet, Path: "/health/ready"},
}

func Register(e *echo.Echo, d *Deps) {
	e.Use(authmw.New(d.Tokens, publicRoutes...).RequireAuth)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready").SetInternal(err)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authn := e.Group("/v1/authentication")
	authn.POST("/signup", d.AuthHandler.SignUp)
	authn.POST("/login", d.AuthHandler.Login)
	authn.POST("/tokenRefresh", d.AuthHandler.TokenRefresh)
	authn.GET("/me", d.AuthHandler.Me)

	workouts := e.Group("/v1/workout")
	workouts.GET("/exercises", d.WorkoutHandler.ListExercises)
	workouts.GET("/exercises/search", d.WorkoutHandler.SearchExercises)
	workouts.POST("", d.WorkoutHandler.CreateWorkout)
	workouts.POST("/schedule", d.WorkoutHandler.ScheduleWorkout)
	workouts.GET("/schedules/upcoming", d.WorkoutHandler.UpcomingSchedules)
	workouts.PATCH("/schedules/:scheduleId/status", d.WorkoutHandler.UpdateScheduleStatus)
	workouts.GET("/reports", d.WorkoutHandler.Reports)
	workouts.GET("/:workoutId", d.WorkoutHandler.GetWorkout)
	workouts.PUT("/:workoutId", d.WorkoutHandler.UpdateWorkout)
	workouts.DELETE("/:workoutId", d.WorkoutHandler.DeleteWorkout)
}
