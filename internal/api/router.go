package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/jobtracker/internal/api/middleware"
	"github.com/kiranshivaraju/jobtracker/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	ListContacts     http.HandlerFunc
	CreateContact    http.HandlerFunc
	GetContact       http.HandlerFunc
	UpdateContact    http.HandlerFunc
	DeleteContact    http.HandlerFunc
	ArchiveContact   http.HandlerFunc
	UnarchiveContact http.HandlerFunc

	AddInterview     http.HandlerFunc
	UpdateInterview  http.HandlerFunc
	DeleteInterview  http.HandlerFunc
	AddInteraction   http.HandlerFunc
	AddAttachment    http.HandlerFunc
	DeleteAttachment http.HandlerFunc

	AnalyticsHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
// Every route is served both at the root and under /api.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.ClientIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit.Limit)
	}

	routes := func(r chi.Router) {
		r.Get("/health", orNotImplemented(deps.HealthHandler))

		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", orNotImplemented(deps.ListContacts))
			r.Post("/", orNotImplemented(deps.CreateContact))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", orNotImplemented(deps.GetContact))
				r.Put("/", orNotImplemented(deps.UpdateContact))
				r.Delete("/", orNotImplemented(deps.DeleteContact))
				r.Post("/archive", orNotImplemented(deps.ArchiveContact))
				r.Post("/unarchive", orNotImplemented(deps.UnarchiveContact))

				r.Post("/interviews", orNotImplemented(deps.AddInterview))
				r.Put("/interviews/{interviewID}", orNotImplemented(deps.UpdateInterview))
				r.Delete("/interviews/{interviewID}", orNotImplemented(deps.DeleteInterview))
				r.Post("/interactions", orNotImplemented(deps.AddInteraction))
				r.Post("/attachments", orNotImplemented(deps.AddAttachment))
				r.Delete("/attachments/{attachmentID}", orNotImplemented(deps.DeleteAttachment))
			})
		})

		r.Get("/analytics", orNotImplemented(deps.AnalyticsHandler))
	}

	r.Route("/api", routes)
	r.Group(routes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
