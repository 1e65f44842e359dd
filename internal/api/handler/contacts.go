package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/jobtracker/internal/api/response"
	"github.com/kiranshivaraju/jobtracker/internal/query"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

const contactNotFound = "Contact not found"

// ContactService defines the record operations the contact handlers depend on.
type ContactService interface {
	Create(ctx context.Context, in models.NewContact) (*models.Contact, error)
	Get(ctx context.Context, id string) (*models.Contact, error)
	Update(ctx context.Context, id string, patch models.ContactPatch) (*models.Contact, error)
	Delete(ctx context.Context, id string) (bool, error)
	Archive(ctx context.Context, id string) (*models.Contact, error)
	Unarchive(ctx context.Context, id string) (*models.Contact, error)
	List(ctx context.Context, opts query.Options) (query.Result, error)
}

// NewListContactsHandler returns an http.HandlerFunc for GET /api/contacts.
// Calendar filters are evaluated in loc.
func NewListContactsHandler(svc ContactService, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := query.ParseOptions(r.URL.Query(), loc)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
			return
		}

		res, err := svc.List(r.Context(), opts)
		if err != nil {
			writeError(w, err, "fetch contacts", contactNotFound)
			return
		}

		response.Collection(w, "contacts", res.Contacts, len(res.Contacts), res.Total)
	}
}

// NewCreateContactHandler returns an http.HandlerFunc for POST /api/contacts.
func NewCreateContactHandler(svc ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NewContact
		if !decodeBody(w, r, &req) {
			return
		}

		for _, f := range []struct{ name, value string }{
			{"companyName", req.CompanyName},
			{"positionTitle", req.PositionTitle},
			{"status", string(req.Status)},
		} {
			if strings.TrimSpace(f.value) == "" {
				response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", f.name+" is required",
					map[string]string{"field": f.name})
				return
			}
		}

		c, err := svc.Create(r.Context(), req)
		if err != nil {
			writeError(w, err, "create contact", contactNotFound)
			return
		}

		response.Created(w, response.Fields{"contact": c})
	}
}

// NewGetContactHandler returns an http.HandlerFunc for GET /api/contacts/{id}.
func NewGetContactHandler(svc ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, "fetch contact", contactNotFound)
			return
		}
		response.JSON(w, response.Fields{"contact": c})
	}
}

// NewUpdateContactHandler returns an http.HandlerFunc for PUT /api/contacts/{id}.
// Only fields present in the body change.
func NewUpdateContactHandler(svc ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.ContactPatch
		if !decodeBody(w, r, &patch) {
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			writeError(w, err, "update contact", contactNotFound)
			return
		}
		response.JSON(w, response.Fields{"contact": c})
	}
}

// NewDeleteContactHandler returns an http.HandlerFunc for DELETE /api/contacts/{id}.
func NewDeleteContactHandler(svc ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := svc.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, "delete contact", contactNotFound)
			return
		}
		if !ok {
			response.Error(w, http.StatusNotFound, "NOT_FOUND", contactNotFound, nil)
			return
		}
		response.Message(w, "Contact deleted successfully")
	}
}

// NewArchiveContactHandler returns an http.HandlerFunc for
// POST /api/contacts/{id}/archive, or /unarchive when archived is false.
func NewArchiveContactHandler(svc ContactService, archived bool) http.HandlerFunc {
	op, fn := "archive contact", svc.Archive
	if !archived {
		op, fn = "unarchive contact", svc.Unarchive
	}
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := fn(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, op, contactNotFound)
			return
		}
		response.JSON(w, response.Fields{"contact": c})
	}
}
