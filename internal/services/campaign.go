package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/hopefund/apiserver/types"
)

// Actor is the verified identity performing an operation, decoded from
// the caller's token claims.
type Actor struct {
	ID    int
	Role  string
	Admin bool
}

// CampaignRepository defines persistence operations for campaigns.
type CampaignRepository interface {
	List(ctx context.Context) ([]types.Campaign, error)
	ListByCreator(ctx context.Context, creatorID int) ([]types.Campaign, error)
	Get(ctx context.Context, id int) (types.Campaign, error)
	Create(ctx context.Context, campaign types.Campaign) (types.Campaign, error)
	Update(ctx context.Context, campaign types.Campaign) (types.Campaign, error)
	Delete(ctx context.Context, id int) error
}

// ImageStore is the object-storage collaborator campaign images are
// persisted to.
type ImageStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ImageFile is one uploaded campaign image.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// CampaignCreateInput is the validated-from-form payload for campaign
// creation.
type CampaignCreateInput struct {
	Title       string
	Description string
	Category    string
	GoalAmount  float64
	StartDate   time.Time
	EndDate     *time.Time
	Images      []ImageFile
}

// CampaignPatch lists every updatable campaign field. Nil means "leave
// unchanged". RaisedAmount is deliberately not patchable.
type CampaignPatch struct {
	Title       *string
	Description *string
	Category    *string
	GoalAmount  *float64
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// CampaignService encapsulates campaign use-cases: validation, the
// role and ownership rules, and image persistence.
type CampaignService struct {
	repo   CampaignRepository
	images ImageStore
}

func NewCampaignService(repo CampaignRepository, images ImageStore) *CampaignService {
	return &CampaignService{repo: repo, images: images}
}

func (s *CampaignService) List(ctx context.Context) ([]types.Campaign, error) {
	return s.repo.List(ctx)
}

func (s *CampaignService) Get(ctx context.Context, id int) (types.Campaign, error) {
	return s.repo.Get(ctx, id)
}

func (s *CampaignService) ListMine(ctx context.Context, actor Actor) ([]types.Campaign, error) {
	return s.repo.ListByCreator(ctx, actor.ID)
}

// Create validates the input, checks the fundraiser role, uploads all
// images and persists the campaign. Uploads are all-or-nothing: if any
// single upload fails, already-stored objects are removed best-effort
// and no campaign row is written.
func (s *CampaignService) Create(ctx context.Context, actor Actor, input CampaignCreateInput) (types.Campaign, error) {
	if actor.Role != types.RoleNGO {
		return types.Campaign{}, ErrForbidden
	}

	if strings.TrimSpace(input.Title) == "" {
		return types.Campaign{}, invalidf("title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return types.Campaign{}, invalidf("description is required")
	}
	if input.GoalAmount <= 0 {
		return types.Campaign{}, invalidf("goal amount must be positive")
	}
	if input.Category == "" {
		input.Category = types.CategoryOthers
	}
	if !types.ValidCategory(input.Category) {
		return types.Campaign{}, invalidf("unknown category %q", input.Category)
	}
	if input.EndDate != nil && !input.StartDate.IsZero() && input.EndDate.Before(input.StartDate) {
		return types.Campaign{}, invalidf("end date is before start date")
	}

	urls, err := s.uploadImages(ctx, input.Images)
	if err != nil {
		return types.Campaign{}, err
	}

	return s.repo.Create(ctx, types.Campaign{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		GoalAmount:  input.GoalAmount,
		CreatedBy:   actor.ID,
		Status:      types.StatusActive,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		ImageURLs:   urls,
	})
}

// ApplyPatch merges a partial update onto the stored campaign after
// the ownership check. Only the creator or an admin may update.
func (s *CampaignService) ApplyPatch(ctx context.Context, actor Actor, id int, patch CampaignPatch) (types.Campaign, error) {
	campaign, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Campaign{}, err
	}
	if !canMutate(actor, campaign) {
		return types.Campaign{}, ErrForbidden
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return types.Campaign{}, invalidf("title cannot be empty")
		}
		campaign.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		if strings.TrimSpace(*patch.Description) == "" {
			return types.Campaign{}, invalidf("description cannot be empty")
		}
		campaign.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		if !types.ValidCategory(*patch.Category) {
			return types.Campaign{}, invalidf("unknown category %q", *patch.Category)
		}
		campaign.Category = *patch.Category
	}
	if patch.GoalAmount != nil {
		if *patch.GoalAmount <= 0 {
			return types.Campaign{}, invalidf("goal amount must be positive")
		}
		campaign.GoalAmount = *patch.GoalAmount
	}
	if patch.Status != nil {
		if !types.ValidStatus(*patch.Status) {
			return types.Campaign{}, invalidf("unknown status %q", *patch.Status)
		}
		campaign.Status = *patch.Status
	}
	if patch.StartDate != nil {
		campaign.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		campaign.EndDate = patch.EndDate
	}

	return s.repo.Update(ctx, campaign)
}

// Delete removes a campaign after the ownership check. Donations are
// not cascaded; orphaned ledger references are tolerated.
func (s *CampaignService) Delete(ctx context.Context, actor Actor, id int) error {
	campaign, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canMutate(actor, campaign) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// canMutate is the uniform update/delete rule: the campaign's creator,
// or an account with the administrative flag.
func canMutate(actor Actor, campaign types.Campaign) bool {
	return actor.ID == campaign.CreatedBy || actor.Admin
}

func (s *CampaignService) uploadImages(ctx context.Context, images []ImageFile) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	if s.images == nil {
		return nil, invalidf("image uploads are not enabled")
	}

	urls := make([]string, 0, len(images))
	keys := make([]string, 0, len(images))
	for _, image := range images {
		if len(image.Data) == 0 {
			s.cleanupImages(ctx, keys)
			return nil, invalidf("image %q is empty", image.Name)
		}

		key := imageKey(image.Name)
		reader := bytes.NewReader(image.Data)
		if err := s.images.Put(ctx, key, reader, int64(len(image.Data)), image.ContentType); err != nil {
			s.cleanupImages(ctx, keys)
			return nil, fmt.Errorf("upload image %q: %w", image.Name, err)
		}
		keys = append(keys, key)
		urls = append(urls, s.images.URL(key))
	}
	return urls, nil
}

// cleanupImages removes already-stored objects after a failed upload.
// Best effort only; a leaked object is preferable to blocking the
// error response.
func (s *CampaignService) cleanupImages(ctx context.Context, keys []string) {
	for _, key := range keys {
		_ = s.images.Delete(ctx, key)
	}
}

func imageKey(filename string) string {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("campaigns/%s-%s", hex.EncodeToString(buf[:]), base)
}
