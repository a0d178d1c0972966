package contact

import (
	"encoding/json"
	"strings"

	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/models"
)

const (
	MsgRequired    = "Nama dan Nomor WhatsApp tidak boleh kosong."
	MsgPhoneFormat = "Format Nomor WhatsApp tidak valid. Contoh: 081234567890"
	MsgNoPending   = "Tidak ada layanan yang menunggu konfirmasi."
)

// ValidationError carries the message shown next to the contact form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Begin stashes item on the device until the visitor has entered a name and
// WhatsApp number. A newer item replaces an older pending one.
func Begin(d cart.Device, item models.CartItem) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return d.Set(cart.KeyPendingItem, string(raw))
}

// Pending returns the stashed item, if any.
func Pending(d cart.Device) (models.CartItem, bool) {
	raw, ok := d.Get(cart.KeyPendingItem)
	if !ok || raw == "" {
		return models.CartItem{}, false
	}
	var item models.CartItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		d.Remove(cart.KeyPendingItem)
		return models.CartItem{}, false
	}
	return item, true
}

// Complete validates the contact details and returns item carrying them,
// with quantity fixed at one.
func Complete(item models.CartItem, name, phone string) (models.CartItem, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.TrimSpace(phone) == "" {
		return models.CartItem{}, &ValidationError{Message: MsgRequired}
	}
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return models.CartItem{}, err
	}
	item.CustomerName = name
	item.CustomerPhone = normalized
	item.Quantity = 1
	return item, nil
}

// Submit completes the pending item and clears it from the device. On a
// validation error the pending item is kept so the form can be corrected.
func Submit(d cart.Device, name, phone string) (models.CartItem, error) {
	item, ok := Pending(d)
	if !ok {
		return models.CartItem{}, &ValidationError{Message: MsgNoPending}
	}
	item, err := Complete(item, name, phone)
	if err != nil {
		return models.CartItem{}, err
	}
	d.Remove(cart.KeyPendingItem)
	return item, nil
}

// Cancel discards the pending item without writing anything.
func Cancel(d cart.Device) {
	d.Remove(cart.KeyPendingItem)
}
