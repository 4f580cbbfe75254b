package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
)

// Payment records a completed charge, usually a contact-info request for a
// biodata.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name,omitempty" json:"name,omitempty"`
	BiodataID     int64              `bson:"biodataID,omitempty" json:"biodataID,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	Status        string             `bson:"status,omitempty" json:"status,omitempty"`
	Date          time.Time          `bson:"date" json:"date"`
}

func (p Payment) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Price, validation.Required, validation.Min(0.01)),
		validation.Field(&p.TransactionID, validation.Required),
		validation.Field(&p.Status, validation.In(PaymentPending, PaymentApproved)),
	)
}

// PaymentIntentRequest is the body of the create-payment-intent call.
type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

func (r PaymentIntentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Price, validation.Required, validation.Min(0.01)),
	)
}
