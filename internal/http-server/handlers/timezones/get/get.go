package get

import (
	"log/slog"
	"net/http"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type TimezoneLister interface {
	Timezones() (*api.TimezonesResponse, error)
}

type Response struct {
	response.Response
	api.TimezonesResponse
}

func New(log *slog.Logger, lister TimezoneLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timezones.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		zones, err := lister.Timezones()
		if err != nil {
			log.Error("Failed to list timezones", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list timezones"))
			return
		}

		render.JSON(w, r, Response{
			TimezonesResponse: *zones,
		})
	}
}
