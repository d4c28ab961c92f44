package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/hopefund/apiserver/internal/mq"
	"github.com/hopefund/apiserver/types"
)

// DonationRepository defines persistence operations for the donation
// ledger. Record must insert the donation and increment the campaign
// total atomically.
type DonationRepository interface {
	Record(ctx context.Context, donation types.Donation) (types.Donation, error)
	ListByCampaign(ctx context.Context, campaignID int) ([]types.Donation, error)
}

// Publisher sends donation-recorded events to a broker. *mq.MQ
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// DonationService encapsulates donation use-cases.
type DonationService struct {
	repo      DonationRepository
	publisher Publisher
	logger    *slog.Logger
}

// NewDonationService constructs a DonationService. publisher may be
// nil, in which case no events are emitted.
func NewDonationService(repo DonationRepository, publisher Publisher, logger *slog.Logger) *DonationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DonationService{repo: repo, publisher: publisher, logger: logger}
}

// donationRecordedEvent is the payload published after a successful
// donation transaction.
type donationRecordedEvent struct {
	DonationID int64   `json:"donationId"`
	CampaignID int     `json:"campaignId"`
	DonorID    int     `json:"donorId"`
	Amount     float64 `json:"amount"`
}

// Record validates and persists one contribution. The donor identity
// comes from the verified actor, never from the request body. On
// success a donation-recorded event is published best-effort.
func (s *DonationService) Record(ctx context.Context, actor Actor, campaignID int, amount float64) (types.Donation, error) {
	if campaignID < 1 {
		return types.Donation{}, invalidf("campaign id is required")
	}
	if amount <= 0 {
		return types.Donation{}, invalidf("amount must be positive")
	}

	donation, err := s.repo.Record(ctx, types.Donation{
		CampaignID: campaignID,
		DonorID:    actor.ID,
		Amount:     amount,
	})
	if err != nil {
		return types.Donation{}, err
	}

	s.publishRecorded(ctx, donation)
	return donation, nil
}

func (s *DonationService) ListByCampaign(ctx context.Context, campaignID int) ([]types.Donation, error) {
	return s.repo.ListByCampaign(ctx, campaignID)
}

// publishRecorded emits the event for downstream receipt processing.
// Failures are logged and never surface to the caller: the donation
// already committed.
func (s *DonationService) publishRecorded(ctx context.Context, donation types.Donation) {
	if s.publisher == nil {
		return
	}

	data, err := json.Marshal(donationRecordedEvent{
		DonationID: donation.ID,
		CampaignID: donation.CampaignID,
		DonorID:    donation.DonorID,
		Amount:     donation.Amount,
	})
	if err != nil {
		s.logger.Error("marshal donation event", "error", err)
		return
	}

	attrs := map[string]string{"campaignId": strconv.Itoa(donation.CampaignID)}
	if _, err := s.publisher.Publish(ctx, mq.ChannelDonationRecorded, data, attrs); err != nil {
		s.logger.Error("publish donation event",
			"donation_id", donation.ID,
			"error", err,
		)
	}
}
