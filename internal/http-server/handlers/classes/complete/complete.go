package complete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ClassCompleter interface {
	CompleteClass(ctx context.Context, id string) (*api.ClassResponse, error)
}

type Response struct {
	response.Response
	Class api.ClassResponse `json:"class,omitempty"`
}

func New(log *slog.Logger, completer ClassCompleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.classes.complete.New"

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

		class, err := completer.CompleteClass(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("class not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "class not found"))
			return
		}

		if errors.Is(err, response.ErrInvalidStatusTransition) {
			log.Error("invalid status transition", slog.String("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.INVALID_TRANSITION), "only in-progress classes can be completed"))
			return
		}

		if err != nil {
			log.Error("Failed to complete class", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to complete class"))
			return
		}

		log.Info("Class completed", slog.String("id", id))

		render.JSON(w, r, Response{
			Class: *class,
		})
	}
}
