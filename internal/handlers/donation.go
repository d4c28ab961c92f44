package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hopefund/apiserver/internal/services"
)

// DonationHandler provides HTTP handlers for the donation ledger.
type DonationHandler struct {
	donationService *services.DonationService
}

// NewDonationHandler constructs a handler with the provided service.
func NewDonationHandler(donationService *services.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// DonationRouter registers donation routes on the given router. All
// routes require authentication.
func DonationRouter(
	r chi.Router,
	donationService *services.DonationService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewDonationHandler(donationService)

	r.With(authMiddleware).Post("/create", handler.CreateDonation)
	r.With(authMiddleware).Get("/campaign/{campaignID}", handler.ListByCampaign)
}

type CreateDonationRequest struct {
	CampaignID int     `json:"campaignId"`
	Amount     float64 `json:"amount"`
}

func (h *DonationHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	donation, err := h.donationService.Record(r.Context(), actor, req.CampaignID, req.Amount)
	if err != nil {
		writeServiceError(w, err, "campaign not found", "failed to record donation")
		return
	}
	writeJSON(w, http.StatusCreated, donation)
}

func (h *DonationHandler) ListByCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := parseCampaignID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	donations, err := h.donationService.ListByCampaign(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "", "failed to list donations")
		return
	}
	writeJSON(w, http.StatusOK, donations)
}
