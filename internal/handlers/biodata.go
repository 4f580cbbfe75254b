package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/biasadhi/biasadhi-gobackend/internal/services"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type BiodataStore interface {
	Stats(ctx context.Context) (*models.BiodataStats, error)
	Page(ctx context.Context, page, size int64) ([]models.Biodata, error)
	Search(ctx context.Context, q models.BiodataQuery) ([]models.Biodata, error)
	Create(ctx context.Context, email string, b *models.Biodata) (*models.Biodata, error)
	ListByEmail(ctx context.Context, email string) ([]models.Biodata, error)
	GetByID(ctx context.Context, id string) (*models.Biodata, error)
	Replace(ctx context.Context, id string, b *models.Biodata) (*models.UpdateResult, error)
	Delete(ctx context.Context, id string) (*models.DeleteResult, error)
	IsMale(ctx context.Context, email string) (bool, error)
}

type BiodataHandler struct {
	service BiodataStore
	logger  *zap.Logger
}

func NewBiodataHandler(service BiodataStore, logger *zap.Logger) *BiodataHandler {
	return &BiodataHandler{service: service, logger: logger}
}

// GetBiodatas handles GET /biodatas
func (h *BiodataHandler) GetBiodatas(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

// GetBiodataPage handles GET /allBioData?page=&size=
func (h *BiodataHandler) GetBiodataPage(w http.ResponseWriter, r *http.Request) {
	page, size, ok := pagination(w, r)
	if !ok {
		return
	}

	result, err := h.service.Page(r.Context(), page, size)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// SearchBiodata handles GET /biodataSearch
func (h *BiodataHandler) SearchBiodata(w http.ResponseWriter, r *http.Request) {
	page, size, ok := pagination(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	result, err := h.service.Search(r.Context(), models.BiodataQuery{
		Name:              q.Get("name"),
		PermanentDivision: q.Get("permanentDivision"),
		Male:              queryFlag(r, "male"),
		Female:            queryFlag(r, "female"),
		Page:              page,
		Size:              size,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// CreateBiodata handles POST /biodata/{email}
func (h *BiodataHandler) CreateBiodata(w http.ResponseWriter, r *http.Request) {
	b, ok := h.decodeBiodata(w, r)
	if !ok {
		return
	}

	created, err := h.service.Create(r.Context(), mux.Vars(r)["email"], b)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, struct {
		models.InsertResult
		BiodataID int64 `json:"biodataID"`
	}{
		InsertResult: models.InsertResult{Acknowledged: true, InsertedID: created.ID},
		BiodataID:    created.BiodataID,
	})
}

// GetBiodataByEmail handles GET /biodata/{email}
func (h *BiodataHandler) GetBiodataByEmail(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// GetBiodata handles GET /biodatas/{id}. An unknown id yields null.
func (h *BiodataHandler) GetBiodata(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, services.ErrNotFound) {
		response.JSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, b)
}

// ReplaceBiodata handles PUT /biodatas/{id}
func (h *BiodataHandler) ReplaceBiodata(w http.ResponseWriter, r *http.Request) {
	b, ok := h.decodeBiodata(w, r)
	if !ok {
		return
	}

	result, err := h.service.Replace(r.Context(), mux.Vars(r)["id"], b)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// DeleteBiodata handles DELETE /biodata/{id}
func (h *BiodataHandler) DeleteBiodata(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// GetGender handles GET /user/{email}
func (h *BiodataHandler) GetGender(w http.ResponseWriter, r *http.Request) {
	male, err := h.service.IsMale(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"gender": male})
}

func (h *BiodataHandler) decodeBiodata(w http.ResponseWriter, r *http.Request) (*models.Biodata, bool) {
	var b models.Biodata
	if err := decodeJSON(w, r, &b); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	b.Normalize()
	if err := b.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &b, true
}

func pagination(w http.ResponseWriter, r *http.Request) (page, size int64, ok bool) {
	page, err := queryInt(r, "page")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "page must be a non-negative integer")
		return 0, 0, false
	}
	size, err = queryInt(r, "size")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "size must be a non-negative integer")
		return 0, 0, false
	}
	// page*size becomes the skip and must stay representable
	if size > 0 && page > math.MaxInt64/size {
		response.Error(w, http.StatusBadRequest, "page is out of range")
		return 0, 0, false
	}
	return page, size, true
}
