package cart

import (
	"crypto/rand"
	"strconv"
	"time"
)

// Owner identifies whose cart an operation applies to. A non-empty UserID
// wins; otherwise the anonymous session token stored on Device is used.
type Owner struct {
	UserID string
	Device Device
}

// Scope is the resolved ownership filter for remote queries. Exactly one of
// the fields is set.
type Scope struct {
	UserID    string
	SessionID string
}

func (s Scope) Anonymous() bool {
	return s.UserID == ""
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	for i, b := range buf {
		buf[i] = base36[int(b)%len(base36)]
	}
	return string(buf)
}

// NewSessionID returns a fresh anonymous session token.
func NewSessionID() string {
	return "session_" + randomToken(9) + "_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// NewLocalID returns an id for a row that only exists on the device.
func NewLocalID() string {
	return "local_" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "_" + randomToken(9)
}

// SessionID returns the device's session token, creating and storing one on
// first use.
func SessionID(d Device) string {
	if id, ok := d.Get(KeySessionID); ok && id != "" {
		return id
	}
	id := NewSessionID()
	// a token the device cannot keep is regenerated on the next request
	_ = d.Set(KeySessionID, id)
	return id
}

func (o Owner) scope() Scope {
	if o.UserID != "" {
		return Scope{UserID: o.UserID}
	}
	return Scope{SessionID: SessionID(o.Device)}
}
