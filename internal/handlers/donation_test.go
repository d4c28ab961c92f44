package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hopefund/apiserver/internal/services"
	"github.com/hopefund/apiserver/internal/store"
	"github.com/hopefund/apiserver/types"
)

type memDonationRepo struct {
	donations []types.Donation
	nextID    int64
	missing   bool
}

func (m *memDonationRepo) Record(ctx context.Context, donation types.Donation) (types.Donation, error) {
	if m.missing {
		return types.Donation{}, store.ErrNotFound
	}
	m.nextID++
	donation.ID = m.nextID
	m.donations = append(m.donations, donation)
	return donation, nil
}

func (m *memDonationRepo) ListByCampaign(ctx context.Context, campaignID int) ([]types.Donation, error) {
	var out []types.Donation
	for _, d := range m.donations {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out, nil
}

func newDonationRouter(repo services.DonationRepository) http.Handler {
	router := chi.NewRouter()
	router.Route("/donations", func(r chi.Router) {
		DonationRouter(r, services.NewDonationService(repo, nil, nil), RequireAuth(testSecret))
	})
	return router
}

func TestCreateDonationRequiresAuth(t *testing.T) {
	router := newDonationRouter(&memDonationRepo{})

	rec := doJSON(t, router, http.MethodPost, "/donations/create", "", map[string]any{
		"campaignId": 1, "amount": 50,
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateDonationUsesTokenIdentity(t *testing.T) {
	repo := &memDonationRepo{}
	router := newDonationRouter(repo)
	token := makeToken(t, types.User{ID: 17, Email: "d@example.com", Role: types.RoleDonor})

	rec := doJSON(t, router, http.MethodPost, "/donations/create", token, map[string]any{
		"campaignId": 4,
		"amount":     120.5,
		"donorId":    999, // must be ignored
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var donation types.Donation
	if err := json.NewDecoder(rec.Body).Decode(&donation); err != nil {
		t.Fatalf("decode donation: %v", err)
	}
	if donation.DonorID != 17 {
		t.Fatalf("donor must come from the token, got %d", donation.DonorID)
	}
	if donation.CampaignID != 4 || donation.Amount != 120.5 {
		t.Fatalf("unexpected donation %+v", donation)
	}
}

func TestCreateDonationValidation(t *testing.T) {
	router := newDonationRouter(&memDonationRepo{})
	token := makeToken(t, types.User{ID: 1, Role: types.RoleDonor})

	zeroAmount := doJSON(t, router, http.MethodPost, "/donations/create", token, map[string]any{
		"campaignId": 1, "amount": 0,
	})
	if zeroAmount.Code != http.StatusBadRequest {
		t.Fatalf("zero amount: expected 400, got %d", zeroAmount.Code)
	}

	noCampaign := doJSON(t, router, http.MethodPost, "/donations/create", token, map[string]any{
		"amount": 10,
	})
	if noCampaign.Code != http.StatusBadRequest {
		t.Fatalf("missing campaign: expected 400, got %d", noCampaign.Code)
	}
}

func TestCreateDonationMissingCampaign(t *testing.T) {
	router := newDonationRouter(&memDonationRepo{missing: true})
	token := makeToken(t, types.User{ID: 1, Role: types.RoleDonor})

	rec := doJSON(t, router, http.MethodPost, "/donations/create", token, map[string]any{
		"campaignId": 77, "amount": 10,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListDonationsByCampaign(t *testing.T) {
	repo := &memDonationRepo{}
	_, _ = repo.Record(context.Background(), types.Donation{CampaignID: 1, DonorID: 2, Amount: 30})
	_, _ = repo.Record(context.Background(), types.Donation{CampaignID: 2, DonorID: 2, Amount: 99})
	router := newDonationRouter(repo)
	token := makeToken(t, types.User{ID: 2, Role: types.RoleDonor})

	rec := doJSON(t, router, http.MethodGet, "/donations/campaign/1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var donations []types.Donation
	if err := json.NewDecoder(rec.Body).Decode(&donations); err != nil {
		t.Fatalf("decode donations: %v", err)
	}
	if len(donations) != 1 || donations[0].CampaignID != 1 {
		t.Fatalf("unexpected donations %+v", donations)
	}
}
