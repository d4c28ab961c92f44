package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/hopefund/apiserver/types"
)

// DonationRepository handles persistence for the donation ledger.
type DonationRepository struct {
	db *sql.DB
}

func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

// Record inserts a donation and increments the campaign's raised total
// in a single transaction. The increment runs first so a missing
// campaign aborts the transaction before any ledger row is written;
// either both writes land or neither does.
func (r *DonationRepository) Record(ctx context.Context, donation types.Donation) (types.Donation, error) {
	donation.DonatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Donation{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const incrementQuery = `
		UPDATE campaigns
		SET raised_amount = raised_amount + $1
		WHERE id = $2`
	result, err := tx.ExecContext(ctx, incrementQuery, donation.Amount, donation.CampaignID)
	if err != nil {
		return types.Donation{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Donation{}, err
	}
	if affected == 0 {
		return types.Donation{}, ErrNotFound
	}

	const insertQuery = `
		INSERT INTO donations (campaign_id, donor_id, amount, donated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := tx.QueryRowContext(
		ctx,
		insertQuery,
		donation.CampaignID,
		donation.DonorID,
		donation.Amount,
		donation.DonatedAt,
	).Scan(&donation.ID); err != nil {
		return types.Donation{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Donation{}, err
	}
	return donation, nil
}

// ListByCampaign returns a campaign's donations with donor identity
// and the campaign title joined for display.
func (r *DonationRepository) ListByCampaign(ctx context.Context, campaignID int) ([]types.Donation, error) {
	const query = `
		SELECT d.id, d.campaign_id, d.donor_id, d.amount, d.donated_at,
		       u.id, u.first_name, u.last_name, u.email,
		       COALESCE(c.title, '')
		FROM donations d
		LEFT JOIN users u ON u.id = d.donor_id
		LEFT JOIN campaigns c ON c.id = d.campaign_id
		WHERE d.campaign_id = $1
		ORDER BY d.donated_at`
	rows, err := r.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donations := make([]types.Donation, 0)
	for rows.Next() {
		var donation types.Donation
		var donorID sql.NullInt64
		var donorFirst, donorLast, donorEmail sql.NullString
		if err := rows.Scan(
			&donation.ID,
			&donation.CampaignID,
			&donation.DonorID,
			&donation.Amount,
			&donation.DonatedAt,
			&donorID,
			&donorFirst,
			&donorLast,
			&donorEmail,
			&donation.CampaignTitle,
		); err != nil {
			return nil, err
		}
		if donorID.Valid {
			donation.Donor = &types.UserSummary{
				ID:        int(donorID.Int64),
				FirstName: donorFirst.String,
				LastName:  donorLast.String,
				Email:     donorEmail.String,
			}
		}
		donations = append(donations, donation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return donations, nil
}
