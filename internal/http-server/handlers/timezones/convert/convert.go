package convert

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/timezone"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Converter interface {
	ConvertPreview(req *api.ConvertRequest) (*api.ConvertResponse, error)
}

type Request struct {
	api.ConvertRequest
}

type Response struct {
	response.Response
	Result api.ConvertResponse `json:"result,omitempty"`
}

func New(log *slog.Logger, converter Converter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timezones.convert.New"

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

		result, err := converter.ConvertPreview(&req.ConvertRequest)

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

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("unknown direction", slog.String("direction", req.Direction))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "direction must be to_utc or from_utc"))
			return
		}

		if err != nil {
			log.Error("Failed to convert", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to convert"))
			return
		}

		render.JSON(w, r, Response{
			Result: *result,
		})
	}
}
