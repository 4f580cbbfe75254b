package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"

	CustomerRegular = "regular"
	CustomerPremium = "premium"
)

// User model
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PhotoURL     string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role         string             `bson:"role,omitempty" json:"role,omitempty"`
	CustomerType string             `bson:"customerType,omitempty" json:"customerType,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsPremium() bool {
	return u != nil && u.CustomerType == CustomerPremium
}
