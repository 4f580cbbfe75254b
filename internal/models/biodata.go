package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Biodata is one matrimonial profile. Every field is omitempty so a replace
// leaves out whatever the client did not send.
type Biodata struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email                 string             `bson:"email,omitempty" json:"email,omitempty"`
	BiodataID             int64              `bson:"biodataID,omitempty" json:"biodataID,omitempty"`
	Name                  string             `bson:"name,omitempty" json:"name,omitempty"`
	Gender                string             `bson:"gender,omitempty" json:"gender,omitempty"`
	ProfileImage          string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	DateOfBirth           string             `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Height                string             `bson:"height,omitempty" json:"height,omitempty"`
	Weight                string             `bson:"weight,omitempty" json:"weight,omitempty"`
	Age                   int                `bson:"age,omitempty" json:"age,omitempty"`
	Occupation            string             `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Race                  string             `bson:"race,omitempty" json:"race,omitempty"`
	FathersName           string             `bson:"fathersName,omitempty" json:"fathersName,omitempty"`
	MothersName           string             `bson:"mothersName,omitempty" json:"mothersName,omitempty"`
	PermanentDivision     string             `bson:"permanentDivision,omitempty" json:"permanentDivision,omitempty"`
	PresentDivision       string             `bson:"presentDivision,omitempty" json:"presentDivision,omitempty"`
	ExpectedPartnerAge    string             `bson:"expectedPartnerAge,omitempty" json:"expectedPartnerAge,omitempty"`
	ExpectedPartnerHeight string             `bson:"expectedPartnerHeight,omitempty" json:"expectedPartnerHeight,omitempty"`
	ExpectedPartnerWeight string             `bson:"expectedPartnerWeight,omitempty" json:"expectedPartnerWeight,omitempty"`
	ContactEmail          string             `bson:"contactEmail,omitempty" json:"contactEmail,omitempty"`
	MobileNumber          string             `bson:"mobileNumber,omitempty" json:"mobileNumber,omitempty"`
	Premium               bool               `bson:"premium,omitempty" json:"premium,omitempty"`
}

// Normalize lower-cases the gender so exact-match search and counts agree.
func (b *Biodata) Normalize() {
	b.Gender = strings.ToLower(strings.TrimSpace(b.Gender))
	b.Email = strings.TrimSpace(b.Email)
}

func (b Biodata) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Gender, validation.In(GenderMale, GenderFemale)),
		validation.Field(&b.ContactEmail, is.Email),
		validation.Field(&b.Age, validation.Min(0), validation.Max(120)),
	)
}

func (b *Biodata) IsMale() bool {
	return b != nil && b.Gender == GenderMale
}

// BiodataStats is the response of the browse-all endpoint.
type BiodataStats struct {
	Result      []Biodata `json:"result"`
	AllCount    int64     `json:"allCount"`
	MenCount    int64     `json:"menCount"`
	FemaleCount int64     `json:"femaleCount"`
}

// BiodataQuery holds the search filters. Empty fields do not filter.
type BiodataQuery struct {
	Name              string
	PermanentDivision string
	Male              bool
	Female            bool
	Page              int64
	Size              int64
}
