package handlers

import (
	"context"
	"net/http"

	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"github.com/biasadhi/biasadhi-gobackend/internal/response"
	"github.com/biasadhi/biasadhi-gobackend/internal/services"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type PaymentStore interface {
	Record(ctx context.Context, p *models.Payment) (*models.InsertResult, error)
	List(ctx context.Context, status string) ([]models.Payment, error)
	ListByEmail(ctx context.Context, email, status string) ([]models.Payment, error)
	Approve(ctx context.Context, id string) (*models.UpdateResult, error)
	Delete(ctx context.Context, id string) (*models.DeleteResult, error)
}

// PaymentBridge is the payment provider.
type PaymentBridge interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

type PaymentHandler struct {
	service PaymentStore
	bridge  PaymentBridge
	logger  *zap.Logger
}

func NewPaymentHandler(service PaymentStore, bridge PaymentBridge, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, bridge: bridge, logger: logger}
}

// CreatePaymentIntent handles POST /create-payment-intent
func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req models.PaymentIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	secret, err := h.bridge.CreateIntent(r.Context(), services.IntentAmount(req.Price), services.PaymentCurrency)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

// CreatePayment handles POST /payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var p models.Payment
	if err := decodeJSON(w, r, &p); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.Status = models.PaymentPending
	if err := p.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Record(r.Context(), &p)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{"paymentResult": result})
}

// GetPayments handles GET /payments?status=
func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, payments)
}

// GetPaymentsByEmail handles GET /payments/{email}?status=
func (h *PaymentHandler) GetPaymentsByEmail(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListByEmail(r.Context(), mux.Vars(r)["email"], r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, payments)
}

// ApprovePayment handles PATCH /contact/{id}
func (h *PaymentHandler) ApprovePayment(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Approve(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// DeletePayment handles DELETE /contact/{id}
func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Delete(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
