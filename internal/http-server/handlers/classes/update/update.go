package update

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
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ClassUpdater interface {
	UpdateClass(ctx context.Context, id string, req *api.UpdateClassRequest) (*api.ClassResponse, error)
}

type Request struct {
	api.UpdateClassRequest
}

type Response struct {
	response.Response
	Class api.ClassResponse `json:"class,omitempty"`
}

func New(log *slog.Logger, updater ClassUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.classes.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.TeacherID == "" || req.StudentID == "" {
			log.Error("teacher_id or student_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "teacher_id and student_id are required"))
			return
		}

		class, err := updater.UpdateClass(r.Context(), id, &req.UpdateClassRequest)

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

		if errors.Is(err, response.ErrNotFound) {
			log.Error("class not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "class not found"))
			return
		}

		if errors.Is(err, response.ErrInvalidStatusTransition) {
			log.Error("class is no longer editable", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.INVALID_TRANSITION), "completed or cancelled classes cannot be edited"))
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
			log.Error("Failed to update class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update class"))
			return
		}

		log.Info("Class updated", slog.Any("class", class))

		render.JSON(w, r, Response{
			Class: *class,
		})
	}
}
