package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hopefund/apiserver/internal/mq"
	"github.com/hopefund/apiserver/internal/store"
	"github.com/hopefund/apiserver/types"
)

type fakeDonationRepo struct {
	recorded []types.Donation
	nextID   int64
	err      error
}

func (f *fakeDonationRepo) Record(ctx context.Context, donation types.Donation) (types.Donation, error) {
	if f.err != nil {
		return types.Donation{}, f.err
	}
	f.nextID++
	donation.ID = f.nextID
	f.recorded = append(f.recorded, donation)
	return donation, nil
}

func (f *fakeDonationRepo) ListByCampaign(ctx context.Context, campaignID int) ([]types.Donation, error) {
	var out []types.Donation
	for _, d := range f.recorded {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakePublisher struct {
	channels []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.channels = append(f.channels, channel)
	f.payloads = append(f.payloads, data)
	return "msg-1", nil
}

func TestRecordDonationValidation(t *testing.T) {
	repo := &fakeDonationRepo{}
	service := NewDonationService(repo, nil, nil)
	actor := Actor{ID: 3, Role: types.RoleDonor}

	cases := []struct {
		name       string
		campaignID int
		amount     float64
	}{
		{"missing campaign", 0, 100},
		{"zero amount", 1, 0},
		{"negative amount", 1, -5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Record(context.Background(), actor, tc.campaignID, tc.amount)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if len(repo.recorded) != 0 {
		t.Fatalf("no donation should be recorded, got %d", len(repo.recorded))
	}
}

func TestRecordDonationUsesActorIdentity(t *testing.T) {
	repo := &fakeDonationRepo{}
	service := NewDonationService(repo, nil, nil)

	donation, err := service.Record(context.Background(), Actor{ID: 42, Role: types.RoleDonor}, 7, 150)
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if donation.DonorID != 42 {
		t.Fatalf("expected donor 42, got %d", donation.DonorID)
	}
	if donation.CampaignID != 7 || donation.Amount != 150 {
		t.Fatalf("unexpected donation %+v", donation)
	}
	if donation.ID == 0 {
		t.Fatal("expected donation ID to be assigned")
	}
}

func TestRecordDonationMissingCampaign(t *testing.T) {
	repo := &fakeDonationRepo{err: store.ErrNotFound}
	publisher := &fakePublisher{}
	service := NewDonationService(repo, publisher, nil)

	_, err := service.Record(context.Background(), Actor{ID: 1}, 99, 50)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(publisher.channels) != 0 {
		t.Fatalf("no event should be published on failure, got %v", publisher.channels)
	}
}

func TestRecordDonationPublishesEvent(t *testing.T) {
	repo := &fakeDonationRepo{}
	publisher := &fakePublisher{}
	service := NewDonationService(repo, publisher, nil)

	donation, err := service.Record(context.Background(), Actor{ID: 5}, 2, 75)
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(publisher.channels) != 1 || publisher.channels[0] != mq.ChannelDonationRecorded {
		t.Fatalf("expected one event on %q, got %v", mq.ChannelDonationRecorded, publisher.channels)
	}

	var event struct {
		DonationID int64   `json:"donationId"`
		CampaignID int     `json:"campaignId"`
		DonorID    int     `json:"donorId"`
		Amount     float64 `json:"amount"`
	}
	if err := json.Unmarshal(publisher.payloads[0], &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.DonationID != donation.ID || event.CampaignID != 2 || event.DonorID != 5 || event.Amount != 75 {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestRecordDonationPublishFailureDoesNotSurface(t *testing.T) {
	repo := &fakeDonationRepo{}
	publisher := &fakePublisher{err: errors.New("broker down")}
	service := NewDonationService(repo, publisher, nil)

	donation, err := service.Record(context.Background(), Actor{ID: 1}, 1, 10)
	if err != nil {
		t.Fatalf("donation must commit despite publish failure: %v", err)
	}
	if donation.ID == 0 {
		t.Fatal("expected donation ID to be assigned")
	}
}
