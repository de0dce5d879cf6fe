package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/schedule"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/service"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/timezone"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ClassScheduler interface {
	ScheduleClass(ctx context.Context, req *api.ScheduleClassRequest) (*api.ClassResponse, error)
}

type Request struct {
	api.ScheduleClassRequest
}

type Response struct {
	response.Response
	Class api.ClassResponse `json:"class,omitempty"`
}

func New(log *slog.Logger, scheduler ClassScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.classes.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.TeacherID == "" {
			log.Error("teacher_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "teacher_id is required"))
			return
		}

		if req.StudentID == "" {
			log.Error("student_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "student_id is required"))
			return
		}

		class, err := scheduler.ScheduleClass(r.Context(), &req.ScheduleClassRequest)

		var conflict *service.ConflictError
		if errors.As(err, &conflict) {
			log.Error("scheduling conflict", slog.Any("conflicting_ids", conflict.SessionIDs))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.ConflictError("time conflict with an existing class", conflict.SessionIDs))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("teacher calendar is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "teacher calendar is busy, retry shortly"))
			return
		}

		if errors.Is(err, timezone.ErrInvalidTimezone) {
			log.Error("invalid timezone", slog.String("timezone", req.Timezone))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_TIMEZONE), "unknown timezone identifier"))
			return
		}

		if errors.Is(err, timezone.ErrInvalidDateTime) {
			log.Error("invalid date/time", slog.String("date", req.Date), slog.String("time", req.Time))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_DATETIME), "malformed date or time"))
			return
		}

		if errors.Is(err, timezone.ErrNonexistentLocalTime) {
			log.Error("nonexistent local time")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.NONEXISTENT_TIME), "this local time is skipped by a DST transition"))
			return
		}

		if errors.Is(err, timezone.ErrAmbiguousLocalTime) {
			log.Error("ambiguous local time")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.AMBIGUOUS_TIME), "this local time occurs twice, pick another"))
			return
		}

		if errors.Is(err, schedule.ErrInvalidDuration) {
			log.Error("invalid duration", slog.Int("duration_minutes", req.DurationMinutes))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_DURATION), "duration must be a positive number of minutes"))
			return
		}

		if err != nil {
			log.Error("Failed to schedule class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to schedule class"))
			return
		}

		log.Info("Class scheduled", slog.Any("class", class))

		w.WriteHeader(http.StatusCreated)
		responseOK(w, r, class)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, class *api.ClassResponse) {
	render.JSON(w, r, Response{
		Class: *class,
	})
}
