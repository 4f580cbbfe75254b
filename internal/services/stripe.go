package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"go.uber.org/zap"
)

// StripeBridge creates card payment intents at Stripe.
type StripeBridge struct {
	api    *client.API
	logger *zap.Logger
}

func NewStripeBridge(secretKey string, logger *zap.Logger) *StripeBridge {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeBridge{api: api, logger: logger.Named("stripe")}
}

// CreateIntent asks Stripe for a payment intent of amount (smallest currency
// unit) and returns its client secret.
func (b *StripeBridge) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := b.api.PaymentIntents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			b.logger.Warn("stripe rejected payment intent",
				zap.String("code", string(stripeErr.Code)),
				zap.Int("status", stripeErr.HTTPStatusCode),
				zap.Int64("amount", amount))
		}
		return "", fmt.Errorf("creating payment intent: %w", err)
	}

	b.logger.Info("payment intent created", zap.String("id", intent.ID), zap.Int64("amount", amount))
	return intent.ClientSecret, nil
}
