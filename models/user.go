package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"

	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:128" json:"id"`
	Email        string    `gorm:"unique;not null" json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Picture      string    `json:"picture,omitempty"`
	Provider     string    `gorm:"size:16" json:"provider"`
	Role         string    `gorm:"size:16;not null;default:customer" json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
