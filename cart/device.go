package cart

import (
	"errors"
	"sync"
)

// Keys used in on-device storage.
const (
	KeySessionID   = "cart_session_id"
	KeyItems       = "cart_items"
	KeyPendingItem = "cart_pending_item"
)

// ErrDeviceFull is returned by Device.Set when the value does not fit in
// what the device can hold.
var ErrDeviceFull = errors.New("device storage full")

// Device is the key/value storage that lives with the visitor (a signed
// cookie in production). It survives across requests but not across browsers.
// A failed Set leaves the previous value in place.
type Device interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string)
}

// MemoryDevice is a Device backed by a map.
type MemoryDevice struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{values: make(map[string]string)}
}

func (d *MemoryDevice) Get(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.values[key]
	return v, ok
}

func (d *MemoryDevice) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values[key] = value
	return nil
}

func (d *MemoryDevice) Remove(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.values, key)
}
