package types

import "time"

// Campaign categories.
const (
	CategoryHealth    = "health"
	CategoryEducation = "education"
	CategoryDisaster  = "disaster"
	CategoryOthers    = "others"
)

// Campaign lifecycle statuses.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// Campaign represents a fundraising project created by an NGO user.
type Campaign struct {
	// ID is the unique identifier of the campaign.
	ID int `json:"id" db:"id"`

	// Title is the human-readable name of the campaign.
	Title string `json:"title" db:"title"`

	// Description is the full campaign pitch shown to donors.
	Description string `json:"description" db:"description"`

	// Category is one of the Category* constants.
	Category string `json:"category" db:"category"`

	// GoalAmount is the monetary target of the campaign.
	GoalAmount float64 `json:"goalAmount" db:"goal_amount"`

	// RaisedAmount is the total collected so far. It is only ever
	// mutated by the donation recording transaction and never
	// decreases.
	RaisedAmount float64 `json:"raisedAmount" db:"raised_amount"`

	// CreatedBy is the ID of the user that created the campaign.
	CreatedBy int `json:"createdBy" db:"created_by"`

	// Creator carries the joined identity of the creating user when
	// the campaign is read back for display. Omitted on writes.
	Creator *UserSummary `json:"creator,omitempty" db:"-"`

	// Status is either StatusActive or StatusClosed.
	Status string `json:"status" db:"status"`

	// StartDate is when the campaign opens for donations.
	StartDate time.Time `json:"startDate" db:"start_date"`

	// EndDate is when the campaign closes, if scheduled.
	EndDate *time.Time `json:"endDate,omitempty" db:"end_date"`

	// ImageURLs are the public URLs of the campaign's uploaded images.
	// Each entry is non-empty.
	ImageURLs []string `json:"images" db:"image_urls"`

	// CreatedAt is the timestamp at which the campaign record was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserSummary is the subset of user identity joined onto campaigns and
// donations for display.
type UserSummary struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ValidCategory reports whether category is one of the accepted
// campaign categories.
func ValidCategory(category string) bool {
	switch category {
	case CategoryHealth, CategoryEducation, CategoryDisaster, CategoryOthers:
		return true
	}
	return false
}

// ValidStatus reports whether status is one of the accepted campaign
// statuses.
func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusClosed
}
