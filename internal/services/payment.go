package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/biasadhi/biasadhi-gobackend/internal/db"
	"github.com/biasadhi/biasadhi-gobackend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// PaymentCurrency is the currency every intent is created in.
const PaymentCurrency = "usd"

var ErrInvalidStatus = errors.New("invalid payment status")

type PaymentService struct {
	collection *mongo.Collection
	timeout    time.Duration
	logger     *zap.Logger
}

func NewPaymentService(database *mongo.Database, timeout time.Duration, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		collection: database.Collection(db.Payments),
		timeout:    timeout,
		logger:     logger.Named("payments"),
	}
}

// IntentAmount converts a price in dollars to integer cents.
func IntentAmount(price float64) int64 {
	return int64(math.Round(price * 100))
}

// Record stores a charge that already completed at the provider. It always
// starts out pending; only Approve moves it on.
func (s *PaymentService) Record(ctx context.Context, p *models.Payment) (*models.InsertResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	p.ID = primitive.NewObjectID()
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	p.Status = models.PaymentPending

	result, err := s.collection.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("inserting payment %s: %w", p.TransactionID, err)
	}

	s.logger.Info("payment recorded",
		zap.String("email", p.Email),
		zap.String("transactionId", p.TransactionID),
		zap.Float64("price", p.Price))
	return &models.InsertResult{Acknowledged: true, InsertedID: result.InsertedID}, nil
}

// ListByEmail returns the payments of email, newest first. A non-empty
// status restricts the result to that status.
func (s *PaymentService) ListByEmail(ctx context.Context, email, status string) ([]models.Payment, error) {
	filter := bson.M{"email": email}
	if status != "" {
		if err := checkStatus(status); err != nil {
			return nil, err
		}
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

// List returns every payment, newest first, optionally filtered by status.
func (s *PaymentService) List(ctx context.Context, status string) ([]models.Payment, error) {
	filter := bson.M{}
	if status != "" {
		if err := checkStatus(status); err != nil {
			return nil, err
		}
		filter["status"] = status
	}
	return s.list(ctx, filter)
}

// Approve moves a pending payment to approved. Any other current status is
// left alone and reported as ErrInvalidStatus.
func (s *PaymentService) Approve(ctx context.Context, id string) (*models.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p models.Payment
	if err := s.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding payment %s: %w", id, err)
	}
	if p.Status != models.PaymentPending {
		return nil, fmt.Errorf("%w: payment %s is %s", ErrInvalidStatus, id, p.Status)
	}

	result, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "status": models.PaymentPending},
		bson.M{"$set": bson.M{"status": models.PaymentApproved}},
	)
	if err != nil {
		return nil, fmt.Errorf("approving payment %s: %w", id, err)
	}

	s.logger.Info("payment approved", zap.String("id", id))
	return updateResult(result), nil
}

func (s *PaymentService) Delete(ctx context.Context, id string) (*models.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("deleting payment %s: %w", id, err)
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}

func (s *PaymentService) list(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cur, err := s.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("finding payments: %w", err)
	}
	defer cur.Close(ctx)

	payments := []models.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decoding payments: %w", err)
	}
	return payments, nil
}

func checkStatus(status string) error {
	switch status {
	case models.PaymentPending, models.PaymentApproved:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}
