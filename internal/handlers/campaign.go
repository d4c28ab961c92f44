package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hopefund/apiserver/internal/services"
	"github.com/hopefund/apiserver/types"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 10 << 20

	formFieldTitle     = "title"
	formFieldDesc      = "description"
	formFieldCategory  = "category"
	formFieldGoal      = "goalAmount"
	formFieldStartDate = "startDate"
	formFieldEndDate   = "endDate"
	formFieldImages    = "images"
)

// CampaignHandler provides HTTP handlers for campaigns.
type CampaignHandler struct {
	campaignService *services.CampaignService
}

// NewCampaignHandler constructs a handler with the provided service.
func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// CampaignRouter registers campaign routes on the given router. Reads
// are public; mutation requires authentication, and creation the
// fundraiser role on top.
func CampaignRouter(
	r chi.Router,
	campaignService *services.CampaignService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewCampaignHandler(campaignService)

	r.Get("/readall", handler.ListCampaigns)
	r.Get("/read/{campaignID}", handler.GetCampaign)
	r.With(authMiddleware).Get("/my-campaigns", handler.MyCampaigns)
	r.With(authMiddleware, RequireRole(types.RoleNGO)).Post("/create", handler.CreateCampaign)
	r.With(authMiddleware).Put("/update/{campaignID}", handler.UpdateCampaign)
	r.With(authMiddleware).Delete("/delete/{campaignID}", handler.DeleteCampaign)
}

func (h *CampaignHandler) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaignService.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "", "failed to list campaigns")
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *CampaignHandler) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, err := parseCampaignID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	campaign, err := h.campaignService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "campaign not found", "failed to fetch campaign")
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}

func (h *CampaignHandler) MyCampaigns(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	campaigns, err := h.campaignService.ListMine(r.Context(), actor)
	if err != nil {
		writeServiceError(w, err, "", "failed to list your campaigns")
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	input, err := parseCampaignForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.campaignService.Create(r.Context(), actor, input)
	if err != nil {
		writeServiceError(w, err, "", "failed to create campaign")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CampaignPatchRequest mirrors services.CampaignPatch on the wire.
// Absent fields leave the stored values untouched.
type CampaignPatchRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *string    `json:"category"`
	GoalAmount  *float64   `json:"goalAmount"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseCampaignID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req CampaignPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.campaignService.ApplyPatch(r.Context(), actor, id, services.CampaignPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		GoalAmount:  req.GoalAmount,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeServiceError(w, err, "campaign not found", "failed to update campaign")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := parseCampaignID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.campaignService.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, err, "campaign not found", "failed to delete campaign")
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func parseCampaignID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "campaignID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid campaign id")
	}
	return id, nil
}

func parseCampaignForm(r *http.Request) (services.CampaignCreateInput, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return services.CampaignCreateInput{}, errors.New("invalid multipart form")
	}

	input := services.CampaignCreateInput{
		Title:       r.FormValue(formFieldTitle),
		Description: r.FormValue(formFieldDesc),
		Category:    strings.TrimSpace(r.FormValue(formFieldCategory)),
	}

	rawGoal := strings.TrimSpace(r.FormValue(formFieldGoal))
	if rawGoal != "" {
		goal, err := strconv.ParseFloat(rawGoal, 64)
		if err != nil {
			return services.CampaignCreateInput{}, errors.New("invalid goal amount")
		}
		input.GoalAmount = goal
	}

	if raw := strings.TrimSpace(r.FormValue(formFieldStartDate)); raw != "" {
		start, err := parseDate(raw)
		if err != nil {
			return services.CampaignCreateInput{}, errors.New("invalid start date")
		}
		input.StartDate = start
	}
	if raw := strings.TrimSpace(r.FormValue(formFieldEndDate)); raw != "" {
		end, err := parseDate(raw)
		if err != nil {
			return services.CampaignCreateInput{}, errors.New("invalid end date")
		}
		input.EndDate = &end
	}

	images, err := parseImageFiles(r.MultipartForm)
	if err != nil {
		return services.CampaignCreateInput{}, err
	}
	input.Images = images

	return input, nil
}

func parseImageFiles(form *multipart.Form) ([]services.ImageFile, error) {
	if form == nil {
		return nil, nil
	}

	fileHeaders := form.File[formFieldImages]
	if len(fileHeaders) == 0 {
		return nil, nil
	}

	images := make([]services.ImageFile, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, errors.New("failed to read image file")
		}

		data, err := readFileLimited(file, maxImageBytes)
		_ = file.Close()
		if err != nil {
			return nil, err
		}

		images = append(images, services.ImageFile{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
