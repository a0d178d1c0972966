package models

import (
	"time"

	"gorm.io/datatypes"
)

// SubOption is a purchasable variant of a service with its own price.
type SubOption struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Features []string `json:"features"`
}

// Service is a catalog entry. ID is the URL slug.
type Service struct {
	ID           string                         `gorm:"primaryKey;size:128" json:"id"`
	Title        string                         `gorm:"not null" json:"title"`
	Description  string                         `json:"description"`
	Price        *int64                         `json:"price,omitempty"`
	Category     string                         `gorm:"size:32;index" json:"category"`
	Icon         string                         `gorm:"size:32" json:"icon"`
	Popular      bool                           `json:"popular"`
	Features     datatypes.JSONSlice[string]    `json:"features"`
	DeliveryTime string                         `json:"delivery_time"`
	Revisions    string                         `json:"revisions"`
	SubOptions   datatypes.JSONSlice[SubOption] `json:"sub_options"`
	CreatedAt    time.Time                      `json:"created_at"`
	UpdatedAt    time.Time                      `json:"updated_at"`
}

// ServiceCategories are the categories a service may belong to.
var ServiceCategories = []string{"Academic", "Programming", "Design", "Consultation"}
