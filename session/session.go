package session

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/MUHULILAMRI/Done-Fast/cart"
	"github.com/MUHULILAMRI/Done-Fast/config"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const deviceKey = "device"

// NewStore builds the signed cookie store that backs visitor devices.
func NewStore(cfg config.SessionConfig) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Key))
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.Secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = cfg.MaxAge
	return store
}

// Device exposes a gorilla session as cart storage. Writes only mark the
// session dirty; the cookie is written once, right before the response
// headers go out.
type Device struct {
	mu     sync.Mutex
	s      *sessions.Session
	codecs []securecookie.Codec
	dirty  bool
}

func (d *Device) Get(key string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.s.Values[key].(string)
	return v, ok
}

// Set rejects a value that would push the encoded cookie past what
// securecookie accepts, so the caller learns about it before the response.
func (d *Device) Set(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.codecs) > 0 {
		next := make(map[interface{}]interface{}, len(d.s.Values)+1)
		for k, v := range d.s.Values {
			next[k] = v
		}
		next[key] = value
		if _, err := securecookie.EncodeMulti(d.s.Name(), next, d.codecs...); err != nil {
			return fmt.Errorf("%w: %s: %v", cart.ErrDeviceFull, key, err)
		}
	}
	d.s.Values[key] = value
	d.dirty = true
	return nil
}

func (d *Device) Remove(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.s.Values[key]; ok {
		delete(d.s.Values, key)
		d.dirty = true
	}
}

func (d *Device) save(r *http.Request, w http.ResponseWriter) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.dirty {
		return nil
	}
	d.dirty = false
	return d.s.Save(r, w)
}

// Middleware attaches a Device to every request. A cookie that fails to
// decode (rotated key, tampering) starts a fresh session.
func Middleware(store sessions.Store, name string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	var codecs []securecookie.Codec
	if cs, ok := store.(*sessions.CookieStore); ok {
		codecs = cs.Codecs
	}
	return func(c *gin.Context) {
		s, err := store.Get(c.Request, name)
		if err != nil {
			log.Debug("discarding unreadable session cookie", zap.Error(err))
		}
		if s == nil {
			s = sessions.NewSession(store, name)
		}
		d := &Device{s: s, codecs: codecs}
		c.Set(deviceKey, d)
		c.Writer = &savingWriter{ResponseWriter: c.Writer, req: c.Request, device: d, log: log}
		c.Next()
	}
}

// FromContext returns the request's device, or a throwaway in-memory one
// when the middleware is not installed.
func FromContext(c *gin.Context) cart.Device {
	if v, ok := c.Get(deviceKey); ok {
		if d, ok := v.(cart.Device); ok {
			return d
		}
	}
	d := cart.NewMemoryDevice()
	c.Set(deviceKey, d)
	return d
}

type savingWriter struct {
	gin.ResponseWriter
	req    *http.Request
	device *Device
	log    *zap.Logger
	once   sync.Once
}

func (w *savingWriter) flush() {
	w.once.Do(func() {
		if err := w.device.save(w.req, w.ResponseWriter); err != nil {
			w.log.Warn("failed to save session", zap.Error(err))
		}
	})
}

func (w *savingWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *savingWriter) WriteHeaderNow() {
	w.flush()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *savingWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *savingWriter) WriteString(s string) (int, error) {
	w.flush()
	return w.ResponseWriter.WriteString(s)
}
