package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a bookmark of a biodata, with a snapshot of the fields the
// favourites page renders.
type Favorite struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email             string             `bson:"email" json:"email"`
	BiodataRef        primitive.ObjectID `bson:"biodataRef,omitempty" json:"biodataRef,omitempty"`
	BiodataID         int64              `bson:"biodataID,omitempty" json:"biodataID,omitempty"`
	Name              string             `bson:"name,omitempty" json:"name,omitempty"`
	PermanentDivision string             `bson:"permanentDivision,omitempty" json:"permanentDivision,omitempty"`
	Occupation        string             `bson:"occupation,omitempty" json:"occupation,omitempty"`
	ProfileImage      string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

func (f Favorite) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
	)
}
