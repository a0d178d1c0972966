package models

import "time"

type Feedback struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Message   string    `gorm:"not null" json:"message"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
