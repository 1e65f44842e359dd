package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/jobtracker/internal/api/response"
	"github.com/kiranshivaraju/jobtracker/pkg/models"
)

// ChildService defines the interview, interaction and attachment operations.
type ChildService interface {
	AddInterview(ctx context.Context, contactID string, in models.NewInterview) (*models.Interview, error)
	UpdateInterview(ctx context.Context, contactID, interviewID string, patch models.InterviewPatch) (*models.Interview, error)
	DeleteInterview(ctx context.Context, contactID, interviewID string) error
	AddInteraction(ctx context.Context, contactID string, in models.NewInteraction) (*models.Interaction, error)
	AddAttachment(ctx context.Context, contactID string, in models.NewAttachment) (*models.Attachment, error)
	DeleteAttachment(ctx context.Context, contactID, attachmentID string) error
}

func NewAddInterviewHandler(svc ChildService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NewInterview
		if !decodeBody(w, r, &req) {
			return
		}
		iv, err := svc.AddInterview(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, err, "add interview", contactNotFound)
			return
		}
		response.Created(w, response.Fields{"interview": iv})
	}
}

func NewUpdateInterviewHandler(svc ChildService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.InterviewPatch
		if !decodeBody(w, r, &patch) {
			return
		}
		iv, err := svc.UpdateInterview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "interviewID"), patch)
		if err != nil {
			writeError(w, err, "update interview", "Interview not found")
			return
		}
		response.JSON(w, response.Fields{"interview": iv})
	}
}

func NewDeleteInterviewHandler(svc ChildService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteInterview(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "interviewID"))
		if err != nil {
			writeError(w, err, "delete interview", "Interview not found")
			return
		}
		response.Message(w, "Interview deleted successfully")
	}
}

func NewAddInteractionHandler(svc ChildService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NewInteraction
		if !decodeBody(w, r, &req) {
			return
		}
		ia, err := svc.AddInteraction(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, err, "add interaction", contactNotFound)
			return
		}
		response.Created(w, response.Fields{"interaction": ia})
	}
}

func NewAddAttachmentHandler(svc ChildService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.NewAttachment
		if !decodeBody(w, r, &req) {
			return
		}
		a, err := svc.AddAttachment(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, err, "add attachment", contactNotFound)
			return
		}
		response.Created(w, response.Fields{"attachment": a})
	}
}

func NewDeleteAttachmentHandler(svc ChildService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteAttachment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "attachmentID"))
		if err != nil {
			writeError(w, err, "delete attachment", "Attachment not found")
			return
		}
		response.Message(w, "Attachment deleted successfully")
	}
}
