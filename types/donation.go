package types

import "time"

// Donation is an immutable record of one contribution from a donor to
// a campaign. Donations are only ever inserted; no operation updates
// or deletes them.
type Donation struct {
	// ID is the unique identifier of the donation.
	ID int64 `json:"id" db:"id"`

	// CampaignID references the campaign the donation went to.
	CampaignID int `json:"campaignId" db:"campaign_id"`

	// DonorID references the contributing user.
	DonorID int `json:"donorId" db:"donor_id"`

	// Amount is the contributed sum. Always positive.
	Amount float64 `json:"amount" db:"amount"`

	// DonatedAt is when the contribution was recorded.
	DonatedAt time.Time `json:"donatedAt" db:"donated_at"`

	// Donor and CampaignTitle carry joined identity when donations are
	// listed for display. Omitted on writes.
	Donor         *UserSummary `json:"donor,omitempty" db:"-"`
	CampaignTitle string       `json:"campaignTitle,omitempty" db:"-"`
}

// MonthlyDonationStat is one calendar-month bucket of the donation
// history: the summed amount and the number of distinct donors.
type MonthlyDonationStat struct {
	// Month is the bucket label, formatted "Jan 2006".
	Month string `json:"month"`

	// Donations is the total amount donated in the bucket.
	Donations float64 `json:"donations"`

	// Donors is the count of distinct donors in the bucket.
	Donors int `json:"donors"`
}

// DonorTypeStat counts donations made by users of one role.
type DonorTypeStat struct {
	// Name is the donor role, or "Unknown" when the donor record is
	// missing.
	Name string `json:"name"`

	// Value is the number of donations made by donors of this type.
	Value int `json:"value"`
}

// TopDonor is one entry of the top-donors ranking.
type TopDonor struct {
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	TotalDonated float64 `json:"totalDonated"`
}
