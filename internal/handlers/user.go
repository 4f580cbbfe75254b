package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/biasadhi/biasadhi-gobackend/internal/services"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type UserStore interface {
	Register(ctx context.Context, user *models.User) (*models.InsertResult, error)
	List(ctx context.Context) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, id string) (*models.DeleteResult, error)
	PromoteToAdmin(ctx context.Context, id string) (*models.UpdateResult, error)
	PromoteToPremium(ctx context.Context, id string) (*models.UpdateResult, error)
}

type UserHandler struct {
	service UserStore
	logger  *zap.Logger
}

func NewUserHandler(service UserStore, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

// GetUsers handles GET /users
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, users)
}

// CheckAdmin handles GET /users/admin/{email}. The route guarantees the
// email is the caller's own.
func (h *UserHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.FindByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"admin": user.IsAdmin()})
}

// CreateUser handles POST /users. A known email is not an error.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := decodeJSON(w, r, &user); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validation.Validate(user.Email, validation.Required, is.Email); err != nil {
		response.Error(w, http.StatusBadRequest, "email: "+err.Error())
		return
	}

	result, err := h.service.Register(r.Context(), &user)
	if errors.Is(err, services.ErrAlreadyExists) {
		response.JSON(w, http.StatusOK, map[string]interface{}{
			"message":    "User already exists",
			"insertedId": nil,
		})
		return
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// MakeAdmin handles PATCH /users/admin/{id}
func (h *UserHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PromoteToAdmin(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// MakePremium handles PATCH /users/admin/premium/{id}
func (h *UserHandler) MakePremium(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PromoteToPremium(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
