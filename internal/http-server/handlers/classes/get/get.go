package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/timezone"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ClassGetter interface {
	GetClass(ctx context.Context, id, viewerTZ string) (*api.ClassResponse, error)
}

type Response struct {
	response.Response
	Class api.ClassResponse `json:"class,omitempty"`
}

func New(log *slog.Logger, getter ClassGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.classes.get.New"

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

		viewerTZ := r.URL.Query().Get("tz")
		if viewerTZ != "" && !timezone.IsValid(viewerTZ) {
			log.Error("invalid timezone", slog.String("tz", viewerTZ))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_TIMEZONE), "unknown timezone identifier"))
			return
		}

		class, err := getter.GetClass(r.Context(), id, viewerTZ)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("class not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "class not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get class"))
			return
		}

		render.JSON(w, r, Response{
			Class: *class,
		})
	}
}
