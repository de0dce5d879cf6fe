package list

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Mohamesaidsalem/Qutooff-Academy/api"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/service"
	"github.com/Mohamesaidsalem/Qutooff-Academy/internal/timezone"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/response"
	"github.com/Mohamesaidsalem/Qutooff-Academy/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ClassLister interface {
	ListClasses(ctx context.Context, filters *service.ListFilters, viewerTZ string) ([]*api.ClassResponse, error)
}

type Response struct {
	response.Response
	Classes []*api.ClassResponse `json:"classes"`
}

func New(log *slog.Logger, lister ClassLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.classes.list.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		q := r.URL.Query()

		var filters service.ListFilters

		if v := q.Get("teacher_id"); v != "" {
			filters.TeacherID = &v
		}
		if v := q.Get("student_id"); v != "" {
			filters.StudentID = &v
		}
		if v := q.Get("status"); v != "" {
			filters.Status = &v
		}
		if v := q.Get("from"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				log.Error("invalid from", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "from must be RFC3339"))
				return
			}
			filters.From = &t
		}
		if v := q.Get("to"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				log.Error("invalid to", sl.Err(err))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "to must be RFC3339"))
				return
			}
			filters.To = &t
		}

		viewerTZ := q.Get("tz")
		if viewerTZ != "" && !timezone.IsValid(viewerTZ) {
			log.Error("invalid timezone", slog.String("tz", viewerTZ))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_TIMEZONE), "unknown timezone identifier"))
			return
		}

		classes, err := lister.ListClasses(r.Context(), &filters, viewerTZ)
		if err != nil {
			log.Error("Failed to list classes", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list classes"))
			return
		}

		render.JSON(w, r, Response{
			Classes: classes,
		})
	}
}
