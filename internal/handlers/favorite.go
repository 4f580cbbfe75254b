package handlers

import (
	"context"
	"net/http"

	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type FavoriteStore interface {
	Add(ctx context.Context, fav *models.Favorite) (*models.InsertResult, error)
	ListByEmail(ctx context.Context, email string) ([]models.Favorite, error)
	Delete(ctx context.Context, id string) (*models.DeleteResult, error)
}

type FavoriteHandler struct {
	service FavoriteStore
	logger  *zap.Logger
}

func NewFavoriteHandler(service FavoriteStore, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{service: service, logger: logger}
}

// GetFavorites handles GET /addtofavourite/{email}
func (h *FavoriteHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// AddFavorite handles POST /addtofavourite
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var fav models.Favorite
	if err := decodeJSON(w, r, &fav); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := fav.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Add(r.Context(), &fav)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// DeleteFavorite handles DELETE /addtofavourite/{id}
func (h *FavoriteHandler) DeleteFavorite(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
