package reschedule

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/service"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/timezone"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ClassRescheduler interface {
	RescheduleClass(ctx context.Context, req *api.RescheduleClassRequest) (*api.ClassResponse, error)
}

type Request struct {
	api.RescheduleClassRequest
}

type Response struct {
	response.Response
	Class api.ClassResponse `json:"class,omitempty"`
}

func New(log *slog.Logger, rescheduler ClassRescheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.classes.reschedule.New"

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

		if req.SessionID == "" {
			log.Error("session_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "session_id is required"))
			return
		}

		class, err := rescheduler.RescheduleClass(r.Context(), &req.RescheduleClassRequest)

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
			log.Error("class not found", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "class not found"))
			return
		}

		if errors.Is(err, response.ErrInvalidStatusTransition) {
			log.Error("class is no longer editable", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.INVALID_TRANSITION), "completed or cancelled classes cannot be rescheduled"))
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

		if err != nil {
			log.Error("Failed to reschedule class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to reschedule class"))
			return
		}

		log.Info("Class rescheduled", slog.Any("class", class))

		render.JSON(w, r, Response{
			Class: *class,
		})
	}
}
