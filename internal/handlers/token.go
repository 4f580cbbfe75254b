package handlers

import (
	"net/http"
	"strings"

	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/biasadhi/biasadhi-gobackend/internal/services"
	"go.uber.org/zap"
)

type TokenIssuer interface {
	Issue(claims services.Claims) (string, error)
}

type TokenHandler struct {
	tokens TokenIssuer
	logger *zap.Logger
}

func NewTokenHandler(tokens TokenIssuer, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger}
}

// IssueToken handles POST /jwt
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.Email) == "" {
		response.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	token, err := h.tokens.Issue(services.Claims{Email: req.Email, Name: req.Name})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"token": token})
}
