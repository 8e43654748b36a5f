package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey"     json:"user_id"`
	Username     string                      `gorm:"uniqueIndex;not null"     json:"username"`
	Name         string                      `gorm:"not null"                 json:"name"`
	LastName     string                      `gorm:"not null"                 json:"last_name"`
	Email        string                      `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string                      `gorm:"not null"                 json:"-"`
	Salt         string                      `gorm:"size:32;not null"         json:"-"`
	Roles        datatypes.JSONSlice[string] `gorm:"not null"                 json:"roles"`
	Lifecycle
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// UserToken is an opaque bearer credential. Rows are never updated.
type UserToken struct {
	ID        string    `gorm:"primaryKey;size:64"        json:"token_id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID"         json:"-"`
	ExpiredAt time.Time `gorm:"not null"                  json:"expired_at"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
}

func (t *UserToken) IsExpired(now time.Time) bool {
	return t.ExpiredAt.Before(now)
}
