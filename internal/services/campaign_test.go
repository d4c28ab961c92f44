package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hopefund/apiserver/internal/store"
	"github.com/hopefund/apiserver/types"
)

type fakeCampaignRepo struct {
	campaigns map[int]types.Campaign
	nextID    int

	created []types.Campaign
	updated []types.Campaign
	deleted []int
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[int]types.Campaign{}, nextID: 1}
}

func (f *fakeCampaignRepo) List(ctx context.Context) ([]types.Campaign, error) {
	out := make([]types.Campaign, 0, len(f.campaigns))
	for _, c := range f.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCampaignRepo) ListByCreator(ctx context.Context, creatorID int) ([]types.Campaign, error) {
	var out []types.Campaign
	for _, c := range f.campaigns {
		if c.CreatedBy == creatorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) Get(ctx context.Context, id int) (types.Campaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return types.Campaign{}, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeCampaignRepo) Create(ctx context.Context, campaign types.Campaign) (types.Campaign, error) {
	campaign.ID = f.nextID
	f.nextID++
	f.campaigns[campaign.ID] = campaign
	f.created = append(f.created, campaign)
	return campaign, nil
}

func (f *fakeCampaignRepo) Update(ctx context.Context, campaign types.Campaign) (types.Campaign, error) {
	if _, ok := f.campaigns[campaign.ID]; !ok {
		return types.Campaign{}, store.ErrNotFound
	}
	f.campaigns[campaign.ID] = campaign
	f.updated = append(f.updated, campaign)
	return campaign, nil
}

func (f *fakeCampaignRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.campaigns[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.campaigns, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeImageStore struct {
	puts    []string
	deletes []string
	failOn  int // fail the Nth Put (1-based), 0 never fails
}

func (f *fakeImageStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if f.failOn > 0 && len(f.puts)+1 == f.failOn {
		return errors.New("storage unavailable")
	}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeImageStore) Delete(ctx context.Context, key string) error {
	f.deletes = append(f.deletes, key)
	return nil
}

func (f *fakeImageStore) URL(key string) string {
	return "http://storage.test/hopefund/" + key
}

func validCreateInput() CampaignCreateInput {
	return CampaignCreateInput{
		Title:       "Clean Water for Villages",
		Description: "Build wells in rural areas.",
		Category:    types.CategoryHealth,
		GoalAmount:  5000,
		StartDate:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateCampaignRequiresFundraiserRole(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)

	_, err := service.Create(context.Background(), Actor{ID: 1, Role: types.RoleDonor}, validCreateInput())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("no campaign should be persisted, got %d", len(repo.created))
	}
}

func TestCreateCampaignValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CampaignCreateInput)
	}{
		{"missing title", func(in *CampaignCreateInput) { in.Title = "  " }},
		{"missing description", func(in *CampaignCreateInput) { in.Description = "" }},
		{"zero goal", func(in *CampaignCreateInput) { in.GoalAmount = 0 }},
		{"negative goal", func(in *CampaignCreateInput) { in.GoalAmount = -10 }},
		{"unknown category", func(in *CampaignCreateInput) { in.Category = "crypto" }},
		{"end before start", func(in *CampaignCreateInput) {
			end := in.StartDate.AddDate(0, -1, 0)
			in.EndDate = &end
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeCampaignRepo()
			service := NewCampaignService(repo, nil)

			input := validCreateInput()
			tc.mutate(&input)

			_, err := service.Create(context.Background(), Actor{ID: 1, Role: types.RoleNGO}, input)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if len(repo.created) != 0 {
				t.Fatalf("no campaign should be persisted, got %d", len(repo.created))
			}
		})
	}
}

func TestCreateCampaignDefaults(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)

	input := validCreateInput()
	input.Category = ""

	created, err := service.Create(context.Background(), Actor{ID: 7, Role: types.RoleNGO}, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Category != types.CategoryOthers {
		t.Fatalf("expected default category %q, got %q", types.CategoryOthers, created.Category)
	}
	if created.Status != types.StatusActive {
		t.Fatalf("expected status %q, got %q", types.StatusActive, created.Status)
	}
	if created.CreatedBy != 7 {
		t.Fatalf("expected creator 7, got %d", created.CreatedBy)
	}
	if created.RaisedAmount != 0 {
		t.Fatalf("expected zero raised amount, got %v", created.RaisedAmount)
	}
}

func TestCreateCampaignUploadsImages(t *testing.T) {
	repo := newFakeCampaignRepo()
	images := &fakeImageStore{}
	service := NewCampaignService(repo, images)

	input := validCreateInput()
	input.Images = []ImageFile{
		{Name: "well.jpg", ContentType: "image/jpeg", Data: []byte("jpegdata")},
		{Name: "site.png", ContentType: "image/png", Data: []byte("pngdata")},
	}

	created, err := service.Create(context.Background(), Actor{ID: 1, Role: types.RoleNGO}, input)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.ImageURLs) != 2 {
		t.Fatalf("expected 2 image URLs, got %d", len(created.ImageURLs))
	}
	for _, url := range created.ImageURLs {
		if !strings.HasPrefix(url, "http://storage.test/hopefund/campaigns/") {
			t.Fatalf("unexpected image URL %q", url)
		}
	}
	if len(images.puts) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(images.puts))
	}
}

func TestCreateCampaignUploadFailureCleansUp(t *testing.T) {
	repo := newFakeCampaignRepo()
	images := &fakeImageStore{failOn: 2}
	service := NewCampaignService(repo, images)

	input := validCreateInput()
	input.Images = []ImageFile{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("a")},
		{Name: "b.jpg", ContentType: "image/jpeg", Data: []byte("b")},
	}

	_, err := service.Create(context.Background(), Actor{ID: 1, Role: types.RoleNGO}, input)
	if err == nil {
		t.Fatal("expected upload error")
	}
	if len(repo.created) != 0 {
		t.Fatalf("no campaign should be persisted after failed upload, got %d", len(repo.created))
	}
	if len(images.deletes) != 1 || images.deletes[0] != images.puts[0] {
		t.Fatalf("expected stored object %q to be cleaned up, got deletes %v", images.puts, images.deletes)
	}
}

func TestCreateCampaignImagesWithoutStore(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)

	input := validCreateInput()
	input.Images = []ImageFile{{Name: "a.jpg", Data: []byte("a")}}

	_, err := service.Create(context.Background(), Actor{ID: 1, Role: types.RoleNGO}, input)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func seedCampaign(repo *fakeCampaignRepo, createdBy int) types.Campaign {
	created, _ := repo.Create(context.Background(), types.Campaign{
		Title:        "Books for Schools",
		Description:  "Stock libraries with new books.",
		Category:     types.CategoryEducation,
		GoalAmount:   1000,
		RaisedAmount: 250,
		CreatedBy:    createdBy,
		Status:       types.StatusActive,
		StartDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return created
}

func TestApplyPatchOwnership(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)
	campaign := seedCampaign(repo, 1)

	title := "New Title"

	_, err := service.ApplyPatch(context.Background(), Actor{ID: 2, Role: types.RoleNGO}, campaign.ID, CampaignPatch{Title: &title})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-creator, got %v", err)
	}

	updated, err := service.ApplyPatch(context.Background(), Actor{ID: 2, Admin: true}, campaign.ID, CampaignPatch{Title: &title})
	if err != nil {
		t.Fatalf("admin patch: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected title %q, got %q", title, updated.Title)
	}
}

func TestApplyPatchMergesOnlySetFields(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)
	campaign := seedCampaign(repo, 1)

	goal := 2500.0
	status := types.StatusClosed

	updated, err := service.ApplyPatch(context.Background(), Actor{ID: 1, Role: types.RoleNGO}, campaign.ID, CampaignPatch{
		GoalAmount: &goal,
		Status:     &status,
	})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if updated.GoalAmount != goal {
		t.Fatalf("expected goal %v, got %v", goal, updated.GoalAmount)
	}
	if updated.Status != types.StatusClosed {
		t.Fatalf("expected status closed, got %q", updated.Status)
	}
	if updated.Title != campaign.Title {
		t.Fatalf("title should be unchanged, got %q", updated.Title)
	}
	if updated.RaisedAmount != campaign.RaisedAmount {
		t.Fatalf("raised amount should be unchanged, got %v", updated.RaisedAmount)
	}
}

func TestApplyPatchValidation(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)
	campaign := seedCampaign(repo, 1)

	empty := " "
	badCategory := "lottery"
	badStatus := "paused"
	badGoal := -1.0

	cases := []struct {
		name  string
		patch CampaignPatch
	}{
		{"empty title", CampaignPatch{Title: &empty}},
		{"empty description", CampaignPatch{Description: &empty}},
		{"unknown category", CampaignPatch{Category: &badCategory}},
		{"unknown status", CampaignPatch{Status: &badStatus}},
		{"negative goal", CampaignPatch{GoalAmount: &badGoal}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.ApplyPatch(context.Background(), Actor{ID: 1}, campaign.ID, tc.patch)
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if len(repo.updated) != 0 {
		t.Fatalf("no update should be persisted, got %d", len(repo.updated))
	}
}

func TestApplyPatchMissingCampaign(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)

	title := "x"
	_, err := service.ApplyPatch(context.Background(), Actor{ID: 1}, 42, CampaignPatch{Title: &title})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCampaignOwnership(t *testing.T) {
	repo := newFakeCampaignRepo()
	service := NewCampaignService(repo, nil)
	campaign := seedCampaign(repo, 1)

	if err := service.Delete(context.Background(), Actor{ID: 9}, campaign.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := service.Delete(context.Background(), Actor{ID: 1}, campaign.ID); err != nil {
		t.Fatalf("creator delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != campaign.ID {
		t.Fatalf("expected campaign %d deleted, got %v", campaign.ID, repo.deleted)
	}
}
