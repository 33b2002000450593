package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/workout_tracker/internal/service"
	"github.com/Skotchmaster/workout_tracker/internal/transport"
	"github.com/Skotchmaster/workout_tracker/internal/util"
	"github.com/Skotchmaster/workout_tracker/pkg/logging"
	"github.com/Skotchmaster/workout_tracker/pkg/mykafka"
)

type WorkoutHTTP struct {
	Svc    *service.WorkoutService
	Events mykafka.Publisher
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" is not a valid uuid")
	}
	return id, nil
}

func workoutInput(req transport.WorkoutRequest) service.WorkoutInput {
	in := service.WorkoutInput{
		Name:      req.Name,
		Comment:   req.Comment,
		Exercises: make([]service.ExerciseLineInput, 0, len(req.Exercises)),
	}
	for _, e := range req.Exercises {
		in.Exercises = append(in.Exercises, service.ExerciseLineInput{
			ExerciseID:  e.ExerciseID,
			Sets:        e.Sets,
			Repetitions: e.Repetitions,
			Weight:      e.Weight,
		})
	}
	return in
}

func (h *WorkoutHTTP) bindWorkout(c echo.Context, op string) (service.WorkoutInput, error) {
	l := logging.FromContext(c.Request().Context()).With("handler", "workout."+op)

	var req transport.WorkoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn(op+"_error", "status", 400, "reason", "invalid body")
		return service.WorkoutInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn(op+"_error", "status", 400, "error", err)
		return service.WorkoutInput{}, toHTTPError(err)
	}
	return workoutInput(req), nil
}

func (h *WorkoutHTTP) CreateWorkout(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := GetID(c)
	if err != nil {
		return err
	}
	in, err := h.bindWorkout(c, "create")
	if err != nil {
		return err
	}

	w, err := h.Svc.CreateWorkout(ctx, userID, in)
	if err != nil {
		return toHTTPError(err)
	}

	publish(ctx, h.Events, mykafka.TopicWorkoutEvents, w.ID.String(), map[string]any{
		"type":      "workout_created",
		"workoutID": w.ID,
		"userID":    userID,
		"name":      w.Name,
	})
	return c.JSON(http.StatusCreated, w)
}

func (h *WorkoutHTTP) GetWorkout(c echo.Context) error {
	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "workoutId")
	if err != nil {
		return err
	}

	w, err := h.Svc.GetWorkout(c.Request().Context(), userID, id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, w)
}

func (h *WorkoutHTTP) UpdateWorkout(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "workoutId")
	if err != nil {
		return err
	}
	in, err := h.bindWorkout(c, "update")
	if err != nil {
		return err
	}

	w, err := h.Svc.UpdateWorkout(ctx, userID, id, in)
	if err != nil {
		return toHTTPError(err)
	}

	publish(ctx, h.Events, mykafka.TopicWorkoutEvents, w.ID.String(), map[string]any{
		"type":      "workout_updated",
		"workoutID": w.ID,
		"userID":    userID,
		"name":      w.Name,
	})
	return c.JSON(http.StatusOK, w)
}

func (h *WorkoutHTTP) DeleteWorkout(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "workoutId")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteWorkout(ctx, userID, id); err != nil {
		return toHTTPError(err)
	}

	publish(ctx, h.Events, mykafka.TopicWorkoutEvents, id.String(), map[string]any{
		"type":      "workout_deleted",
		"workoutID": id,
		"userID":    userID,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *WorkoutHTTP) ScheduleWorkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workout.schedule")

	userID, err := GetID(c)
	if err != nil {
		return err
	}

	var req transport.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("schedule_error", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("schedule_error", "status", 400, "error", err)
		return toHTTPError(err)
	}

	out, err := h.Svc.ScheduleWorkout(ctx, userID, req.WorkoutID, req.ScheduledDate)
	if err != nil {
		return toHTTPError(err)
	}

	publish(ctx, h.Events, mykafka.TopicWorkoutEvents, req.WorkoutID.String(), map[string]any{
		"type":          "workout_scheduled",
		"workoutID":     req.WorkoutID,
		"scheduleID":    out.Schedule.ID,
		"scheduledDate": out.Schedule.ScheduledDate,
	})
	return c.JSON(http.StatusCreated, out)
}

func (h *WorkoutHTTP) UpcomingSchedules(c echo.Context) error {
	userID, err := GetID(c)
	if err != nil {
		return err
	}
	out, err := h.Svc.ListUpcomingSchedules(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WorkoutHTTP) UpdateScheduleStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "workout.schedule_status")

	userID, err := GetID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "scheduleId")
	if err != nil {
		return err
	}

	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return toHTTPError(err)
	}

	if err := h.Svc.UpdateScheduleStatus(ctx, userID, id, req.Status); err != nil {
		return toHTTPError(err)
	}

	publish(ctx, h.Events, mykafka.TopicWorkoutEvents, id.String(), map[string]any{
		"type":       "schedule_status_updated",
		"scheduleID": id,
		"status":     req.Status,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *WorkoutHTTP) Reports(c echo.Context) error {
	userID, err := GetID(c)
	if err != nil {
		return err
	}
	out, err := h.Svc.GenerateCompletedReport(c.Request().Context(), userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WorkoutHTTP) ListExercises(c echo.Context) error {
	out, err := h.Svc.ListExercises(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *WorkoutHTTP) SearchExercises(c echo.Context) error {
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	res, err := h.Svc.SearchExercises(c.Request().Context(), c.QueryParam("q"), page, size)
	if err != nil {
		return toHTTPError(err)
	}

	offset := (res.Page - 1) * res.Size
	return c.JSON(http.StatusOK, map[string]any{
		"data": res.Items,
		"meta": map[string]any{
			"page":        res.Page,
			"size":        res.Size,
			"total":       res.Total,
			"total_pages": (res.Total + int64(res.Size) - 1) / int64(res.Size),
			"has_prev":    res.Page > 1,
			"has_next":    int64(offset+res.Size) < res.Total,
		},
	})
}
