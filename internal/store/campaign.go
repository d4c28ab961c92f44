package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/hopefund/apiserver/types"
)

// CampaignRepository handles persistence for campaigns.
type CampaignRepository struct {
	db *sql.DB
}

func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = `
	c.id, c.title, c.description, c.category, c.goal_amount, c.raised_amount,
	c.created_by, c.status, c.start_date, c.end_date, c.image_urls, c.created_at,
	u.id, u.first_name, u.last_name, u.email`

func (r *CampaignRepository) List(ctx context.Context) ([]types.Campaign, error) {
	const query = `
		SELECT ` + campaignColumns + `
		FROM campaigns c
		LEFT JOIN users u ON u.id = c.created_by
		ORDER BY c.id`
	return r.queryCampaigns(ctx, query)
}

func (r *CampaignRepository) ListByCreator(ctx context.Context, creatorID int) ([]types.Campaign, error) {
	const query = `
		SELECT ` + campaignColumns + `
		FROM campaigns c
		LEFT JOIN users u ON u.id = c.created_by
		WHERE c.created_by = $1
		ORDER BY c.id`
	return r.queryCampaigns(ctx, query, creatorID)
}

func (r *CampaignRepository) Get(ctx context.Context, id int) (types.Campaign, error) {
	const query = `
		SELECT ` + campaignColumns + `
		FROM campaigns c
		LEFT JOIN users u ON u.id = c.created_by
		WHERE c.id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	campaign, err := scanCampaign(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Campaign{}, ErrNotFound
		}
		return types.Campaign{}, err
	}
	return campaign, nil
}

func (r *CampaignRepository) Create(ctx context.Context, campaign types.Campaign) (types.Campaign, error) {
	campaign.CreatedAt = time.Now()
	if campaign.StartDate.IsZero() {
		campaign.StartDate = campaign.CreatedAt
	}

	imagesJSON, err := json.Marshal(urlsOrEmpty(campaign.ImageURLs))
	if err != nil {
		return types.Campaign{}, err
	}

	const query = `
		INSERT INTO campaigns (title, description, category, goal_amount, created_by,
		                       status, start_date, end_date, image_urls, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, raised_amount`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		campaign.Title,
		campaign.Description,
		campaign.Category,
		campaign.GoalAmount,
		campaign.CreatedBy,
		campaign.Status,
		campaign.StartDate,
		campaign.EndDate,
		imagesJSON,
		campaign.CreatedAt,
	).Scan(&campaign.ID, &campaign.RaisedAmount); err != nil {
		return types.Campaign{}, err
	}

	return campaign, nil
}

// Update writes every mutable column. raised_amount is deliberately
// absent: it is only touched by the donation recording transaction.
func (r *CampaignRepository) Update(ctx context.Context, campaign types.Campaign) (types.Campaign, error) {
	const query = `
		UPDATE campaigns
		SET title = $1,
			description = $2,
			category = $3,
			goal_amount = $4,
			status = $5,
			start_date = $6,
			end_date = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		campaign.Title,
		campaign.Description,
		campaign.Category,
		campaign.GoalAmount,
		campaign.Status,
		campaign.StartDate,
		campaign.EndDate,
		campaign.ID,
	)
	if err != nil {
		return types.Campaign{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Campaign{}, err
	}
	if affected == 0 {
		return types.Campaign{}, ErrNotFound
	}
	return campaign, nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM campaigns WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CampaignRepository) queryCampaigns(ctx context.Context, query string, args ...any) ([]types.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]types.Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows.Scan)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}

func scanCampaign(scan func(...any) error) (types.Campaign, error) {
	var campaign types.Campaign
	var imagesJSON []byte
	var creatorID sql.NullInt64
	var creatorFirst, creatorLast, creatorEmail sql.NullString

	if err := scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.Description,
		&campaign.Category,
		&campaign.GoalAmount,
		&campaign.RaisedAmount,
		&campaign.CreatedBy,
		&campaign.Status,
		&campaign.StartDate,
		&campaign.EndDate,
		&imagesJSON,
		&campaign.CreatedAt,
		&creatorID,
		&creatorFirst,
		&creatorLast,
		&creatorEmail,
	); err != nil {
		return types.Campaign{}, err
	}

	_ = json.Unmarshal(imagesJSON, &campaign.ImageURLs)
	if creatorID.Valid {
		campaign.Creator = &types.UserSummary{
			ID:        int(creatorID.Int64),
			FirstName: creatorFirst.String,
			LastName:  creatorLast.String,
			Email:     creatorEmail.String,
		}
	}
	return campaign, nil
}

func urlsOrEmpty(urls []string) []string {
	if urls == nil {
		return []string{}
	}
	return urls
}
