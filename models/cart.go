package models

import "time"

// CartItem is one line of a customer's cart. Once the customer has handed
// the cart off over WhatsApp the same row is what the admin tracks as an
// order, so it also carries the order status and contact details.
type CartItem struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	UserID        *string   `gorm:"index;size:128" json:"user_id"`
	SessionID     *string   `gorm:"index;size:128" json:"session_id"`
	OwnerKey      string    `gorm:"size:140;not null;uniqueIndex:idx_cart_owner_line" json:"-"`
	ServiceSlug   string    `gorm:"size:128;not null;uniqueIndex:idx_cart_owner_line" json:"service_slug"`
	ServiceTitle  string    `gorm:"not null" json:"service_title"`
	PackageName   string    `gorm:"size:255;not null;uniqueIndex:idx_cart_owner_line" json:"package_name"`
	Price         int64     `gorm:"not null" json:"price"`
	Quantity      int       `gorm:"not null;default:1" json:"quantity"`
	Status        string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Subtotal is price times quantity.
func (c CartItem) Subtotal() int64 {
	return c.Price * int64(c.Quantity)
}

// OwnerKeyFor builds the value of the owner column used by the unique line
// index. Exactly one of userID and sessionID is expected to be non-empty.
func OwnerKeyFor(userID, sessionID string) string {
	if userID != "" {
		return "u:" + userID
	}
	return "s:" + sessionID
}
