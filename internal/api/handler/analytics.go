package handler

import (
	"context"
	"net/http"

	"github.com/kiranshivaraju/jobtracker/internal/analytics"
	"github.com/kiranshivaraju/jobtracker/internal/api/response"
)

// AnalyticsService defines the interface the analytics handler depends on.
type AnalyticsService interface {
	Analytics(ctx context.Context) (*analytics.Summary, error)
}

// NewAnalyticsHandler returns an http.HandlerFunc for GET /api/analytics.
func NewAnalyticsHandler(svc AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Analytics(r.Context())
		if err != nil {
			writeError(w, err, "compute analytics", "")
			return
		}
		response.JSON(w, response.Fields{"analytics": summary})
	}
}
