package store

import (
	"context"
	"database/sql"
	"time"
)

// ReportRepository runs read-only aggregate queries over the donation
// ledger. Every call rescans the full history; there is no
// materialization.
type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// MonthlyBucket is one calendar-month slice of the donation history.
type MonthlyBucket struct {
	Month  time.Time
	Total  float64
	Donors int
}

// DonorTypeCount is the number of donations made by users of one role.
// Role is empty when the donor record no longer exists.
type DonorTypeCount struct {
	Role  string
	Count int
}

// TopDonorRow is one donor's summed contribution with joined identity.
type TopDonorRow struct {
	FirstName string
	LastName  string
	Email     string
	Total     float64
}

func (r *ReportRepository) MonthlyBuckets(ctx context.Context) ([]MonthlyBucket, error) {
	const query = `
		SELECT date_trunc('month', donated_at) AS month,
		       SUM(amount),
		       COUNT(DISTINCT donor_id)
		FROM donations
		GROUP BY month
		ORDER BY month`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]MonthlyBucket, 0)
	for rows.Next() {
		var bucket MonthlyBucket
		if err := rows.Scan(&bucket.Month, &bucket.Total, &bucket.Donors); err != nil {
			return nil, err
		}
		buckets = append(buckets, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *ReportRepository) DonorTypeCounts(ctx context.Context) ([]DonorTypeCount, error) {
	const query = `
		SELECT COALESCE(u.role, ''), COUNT(1)
		FROM donations d
		LEFT JOIN users u ON u.id = d.donor_id
		GROUP BY u.role
		ORDER BY COUNT(1) DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]DonorTypeCount, 0)
	for rows.Next() {
		var count DonorTypeCount
		if err := rows.Scan(&count.Role, &count.Count); err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *ReportRepository) TopDonors(ctx context.Context, limit int) ([]TopDonorRow, error) {
	const query = `
		SELECT COALESCE(u.first_name, ''), COALESCE(u.last_name, ''),
		       COALESCE(u.email, ''), SUM(d.amount) AS total
		FROM donations d
		LEFT JOIN users u ON u.id = d.donor_id
		GROUP BY d.donor_id, u.first_name, u.last_name, u.email
		ORDER BY total DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	donors := make([]TopDonorRow, 0, limit)
	for rows.Next() {
		var donor TopDonorRow
		if err := rows.Scan(&donor.FirstName, &donor.LastName, &donor.Email, &donor.Total); err != nil {
			return nil, err
		}
		donors = append(donors, donor)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return donors, nil
}
