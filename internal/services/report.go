package services

import (
	"context"
	"strings"

	"github.com/hopefund/apiserver/internal/store"
	"github.com/hopefund/apiserver/types"
)

// topDonorsLimit caps the top-donors ranking.
const topDonorsLimit = 10

// unknownDonorType labels donations whose donor record is missing.
const unknownDonorType = "Unknown"

// ReportRepository defines the aggregate queries over the donation
// ledger.
type ReportRepository interface {
	MonthlyBuckets(ctx context.Context) ([]store.MonthlyBucket, error)
	DonorTypeCounts(ctx context.Context) ([]store.DonorTypeCount, error)
	TopDonors(ctx context.Context, limit int) ([]store.TopDonorRow, error)
}

// ReportService shapes raw aggregate rows into the API's reporting
// views.
type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// MonthlyDonations returns one bucket per calendar month of the full
// donation history, chronologically ascending, labeled "Jan 2006".
func (s *ReportService) MonthlyDonations(ctx context.Context) ([]types.MonthlyDonationStat, error) {
	buckets, err := s.repo.MonthlyBuckets(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]types.MonthlyDonationStat, 0, len(buckets))
	for _, bucket := range buckets {
		stats = append(stats, types.MonthlyDonationStat{
			Month:     bucket.Month.Format("Jan 2006"),
			Donations: bucket.Total,
			Donors:    bucket.Donors,
		})
	}
	return stats, nil
}

// DonorTypes returns the donation count per donor role. Donations
// whose donor no longer resolves are grouped under "Unknown".
func (s *ReportService) DonorTypes(ctx context.Context) ([]types.DonorTypeStat, error) {
	counts, err := s.repo.DonorTypeCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := make([]types.DonorTypeStat, 0, len(counts))
	for _, count := range counts {
		name := count.Role
		if name == "" {
			name = unknownDonorType
		}
		stats = append(stats, types.DonorTypeStat{Name: name, Value: count.Count})
	}
	return stats, nil
}

// TopDonors returns up to ten donors ranked by total amount donated,
// descending.
func (s *ReportService) TopDonors(ctx context.Context) ([]types.TopDonor, error) {
	rows, err := s.repo.TopDonors(ctx, topDonorsLimit)
	if err != nil {
		return nil, err
	}

	donors := make([]types.TopDonor, 0, len(rows))
	for _, row := range rows {
		donors = append(donors, types.TopDonor{
			Name:         strings.TrimSpace(row.FirstName + " " + row.LastName),
			Email:        row.Email,
			TotalDonated: row.Total,
		})
	}
	if len(donors) > topDonorsLimit {
		donors = donors[:topDonorsLimit]
	}
	return donors, nil
}
