package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/zametki/internal/noteservice"
)

// NewRouter builds the API routes over svc. With authEnabled every route
// requires token; the event stream also accepts it as ?access_token=.
// sseHandler is mounted at GET /events when non-nil.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authEnabled, token))

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", h.ListNotes)
			r.With(middleware.AllowContentType("application/json")).Post("/", h.CreateNote)
			r.Get("/titles", h.ListTitles)
			r.Get("/{id}", h.GetNote)
		})
		r.Get("/search", h.Search)
	})

	if sseHandler != nil {
		r.Group(func(r chi.Router) {
			if authEnabled {
				r.Use(requireToken(token, true))
			}
			r.Use(middleware.NoCache)
			r.Method(http.MethodGet, "/events", sseHandler)
		})
	}

	return r
}
