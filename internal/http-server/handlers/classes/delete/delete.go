package delete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ClassDeleter interface {
	DeleteClass(ctx context.Context, id string) error
}

func New(log *slog.Logger, deleter ClassDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.classes.delete.New"

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

		err := deleter.DeleteClass(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("class not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "class not found"))
			return
		}

		if err != nil {
			log.Error("Failed to delete class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to delete class"))
			return
		}

		log.Info("Class deleted", slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
