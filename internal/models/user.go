package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles within a care group.
const (
	RoleCaregiver = "caregiver"
	RolePatient   = "patient"
	RoleFamily    = "family"
	RoleMedical   = "medical"
)

// NotificationPrefs controls which channels a user wants alert fan-out on.
type NotificationPrefs struct {
	Email bool `bson:"email" json:"email"`
	SMS   bool `bson:"sms" json:"sms"`
	Push  bool `bson:"push" json:"push"`
}

// User represents an account in a care group. Email is unique across all users.
type User struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Email          string              `bson:"email" json:"email"`
	HashedPassword string              `bson:"hashed_password" json:"-"`
	Role           string              `bson:"role" json:"role"`
	Group          *primitive.ObjectID `bson:"group,omitempty" json:"group,omitempty"`
	Phone          string              `bson:"phone,omitempty" json:"phone,omitempty"`
	Notifications  NotificationPrefs   `bson:"notifications" json:"notifications"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at" json:"updated_at"`
}

// PublicUser is the projection returned by the auth endpoints.
type PublicUser struct {
	ID    primitive.ObjectID  `json:"id"`
	Name  string              `json:"name"`
	Email string              `json:"email"`
	Role  string              `json:"role"`
	Group *primitive.ObjectID `json:"group,omitempty"`
	Phone string              `json:"phone,omitempty"`
}

// Public returns the user's public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Group: u.Group,
		Phone: u.Phone,
	}
}
