// Package session remembers the visitor's identity (token, username) across
// requests in a signed and optionally encrypted cookie. It is the only
// persisted state this service owns; the cart and catalog live on the
// backend. Writes happen on explicit login and logout only, never
// interleaved with cart or search traffic.
package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/oklog/ulid/v2"
)

const (
	defaultCookieName = "storefront_session"
	defaultLifetime   = 30 * 24 * time.Hour
)

// ErrInvalidConfig indicates the manager was initialised with missing keys.
var ErrInvalidConfig = errors.New("session: invalid config")

// Data is the persisted session payload. Token and Username are the fixed
// keys the storefront core reads; both absent means the visitor is signed
// out.
type Data struct {
	ID        string    `json:"id"`
	Token     string    `json:"token,omitempty"`
	Username  string    `json:"username,omitempty"`
	Balance   float64   `json:"balance,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	dirty bool
}

// SignIn records the authenticated identity returned by the backend. The
// CSRF token is rotated to prevent fixation across the auth boundary.
func (d *Data) SignIn(token, username string, balance float64) {
	d.Token = token
	d.Username = username
	d.Balance = balance
	d.CSRFToken = newCSRFToken()
	d.MarkDirty()
}

// Clear drops the stored identity. The session record itself survives so the
// cookie keeps its ID.
func (d *Data) Clear() {
	d.Token = ""
	d.Username = ""
	d.Balance = 0
	d.MarkDirty()
}

// SignedIn reports whether a token is present.
func (d *Data) SignedIn() bool { return d != nil && d.Token != "" }

// MarkDirty flags the session for persisting at the end of the request.
func (d *Data) MarkDirty() {
	d.dirty = true
	d.UpdatedAt = time.Now().UTC()
}

// Config controls cookie encoding for the session manager.
type Config struct {
	CookieName string
	HashKey    []byte
	BlockKey   []byte
	Secure     bool
	Lifetime   time.Duration
	Now        func() time.Time
}

// Manager encodes and decodes session cookies.
type Manager struct {
	cfg   Config
	codec *securecookie.SecureCookie
	now   func() time.Time
}

// NewManager constructs a Manager. The hash key is required; a block key is
// optional and enables payload encryption.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.HashKey) == 0 {
		return nil, fmt.Errorf("%w: hash key is required", ErrInvalidConfig)
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultLifetime
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	codec := securecookie.New(cfg.HashKey, cfg.BlockKey)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(cfg.Lifetime / time.Second))

	return &Manager{cfg: cfg, codec: codec, now: nowFn}, nil
}

// Load decodes the session from the request cookie, or starts a fresh one.
func (m *Manager) Load(r *http.Request) *Data {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return m.fresh()
	}
	var data Data
	if err := m.codec.Decode(m.cfg.CookieName, c.Value, &data); err != nil {
		return m.fresh()
	}
	if data.ID == "" {
		return m.fresh()
	}
	return &data
}

// Save writes the session back to the response when it changed.
func (m *Manager) Save(w http.ResponseWriter, data *Data) error {
	if data == nil || !data.dirty {
		return nil
	}
	encoded, err := m.codec.Encode(m.cfg.CookieName, data)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  m.now().Add(m.cfg.Lifetime),
	})
	data.dirty = false
	return nil
}

func (m *Manager) fresh() *Data {
	now := m.now().UTC()
	return &Data{
		ID:        ulid.Make().String(),
		CSRFToken: newCSRFToken(),
		CreatedAt: now,
		UpdatedAt: now,
		dirty:     true,
	}
}

func newCSRFToken() string {
	return hex.EncodeToString(securecookie.GenerateRandomKey(16))
}

type ctxKey struct{}

// Middleware loads the session into the request context and persists it
// after the handler runs when it was modified.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := m.Load(r)
		ctx := context.WithValue(r.Context(), ctxKey{}, data)

		rw := &deferredWriter{ResponseWriter: w, flush: func(w http.ResponseWriter) {
			_ = m.Save(w, data)
		}}
		next.ServeHTTP(rw, r.WithContext(ctx))
		if !rw.wrote {
			_ = m.Save(w, data)
		}
	})
}

// FromContext returns the request session. The session middleware always
// installs one, so handlers get a usable value even when the cookie was
// missing or invalid.
func FromContext(ctx context.Context) *Data {
	if data, ok := ctx.Value(ctxKey{}).(*Data); ok && data != nil {
		return data
	}
	return &Data{}
}

// deferredWriter runs flush just before the first body/header write so the
// Set-Cookie header lands ahead of the response.
type deferredWriter struct {
	http.ResponseWriter
	flush func(http.ResponseWriter)
	wrote bool
}

func (w *deferredWriter) WriteHeader(code int) {
	w.ensureFlushed()
	w.ResponseWriter.WriteHeader(code)
}

func (w *deferredWriter) Write(b []byte) (int, error) {
	w.ensureFlushed()
	return w.ResponseWriter.Write(b)
}

func (w *deferredWriter) ensureFlushed() {
	if w.wrote {
		return
	}
	w.wrote = true
	if w.flush != nil {
		w.flush(w.ResponseWriter)
	}
}
