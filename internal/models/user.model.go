package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActorRole is the role an authenticated user acts under.
type ActorRole string

const (
	RoleRequester ActorRole = "requester"
	RoleProvider  ActorRole = "provider"
)

func (r ActorRole) IsValid() bool {
	return r == RoleRequester || r == RoleProvider
}

type User struct {
	BaseUUIDModel
	FirstName   string    `gorm:"type:text"                         json:"firstName"`
	LastName    string    `gorm:"type:text"                         json:"lastName"`
	DisplayName string    `gorm:"type:text"                         json:"displayName"`
	Email       *string   `gorm:"type:text;uniqueIndex"             json:"email"`
	Role        ActorRole `gorm:"type:text;not null;default:'requester'" json:"role"`
	IsActive    bool      `gorm:"type:bool;default:true"            json:"isActive"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleRequester
	}
	if !u.Role.IsValid() {
		return gorm.ErrInvalidValue
	}
	if u.DisplayName == "" {
		u.DisplayName = strings.TrimSpace(u.FirstName + " " + u.LastName)
	}
	return nil
}

func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

// UserSummary is the public slice of a user embedded in request responses.
type UserSummary struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, DisplayName: u.DisplayName}
}
