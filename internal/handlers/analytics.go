package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hopefund/apiserver/internal/services"
)

// AnalyticsHandler provides the read-only reporting endpoints.
type AnalyticsHandler struct {
	reportService *services.ReportService
}

// NewAnalyticsHandler constructs a handler with the provided service.
func NewAnalyticsHandler(reportService *services.ReportService) *AnalyticsHandler {
	return &AnalyticsHandler{reportService: reportService}
}

// AnalyticsRouter registers reporting routes on the given router. All
// routes require authentication.
func AnalyticsRouter(
	r chi.Router,
	reportService *services.ReportService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAnalyticsHandler(reportService)

	r.With(authMiddleware).Get("/donations", handler.MonthlyDonations)
	r.With(authMiddleware).Get("/donors", handler.DonorTypes)
	r.With(authMiddleware).Get("/top-donors", handler.TopDonors)
}

func (h *AnalyticsHandler) MonthlyDonations(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.MonthlyDonations(r.Context())
	if err != nil {
		writeServiceError(w, err, "", "failed to aggregate donations")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) DonorTypes(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reportService.DonorTypes(r.Context())
	if err != nil {
		writeServiceError(w, err, "", "failed to aggregate donor types")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandler) TopDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.reportService.TopDonors(r.Context())
	if err != nil {
		writeServiceError(w, err, "", "failed to rank donors")
		return
	}
	writeJSON(w, http.StatusOK, donors)
}
