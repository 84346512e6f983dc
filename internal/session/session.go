// Package session keeps per-visitor page state in a signed cookie: form
// notices, unsent drafts and the theme preference.
package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/saaspy/saaspy/internal/theme"
	"github.com/saaspy/saaspy/internal/view"
)

// CookieName is the name of the session cookie.
const CookieName = "saaspy_session"

// Form identifiers used as session key prefixes.
const (
	FormNewsletter = "newsletter"
	FormReview     = "review"
)

const (
	keyTheme     = "theme"
	noticeSuffix = ".notice"
	draftSuffix  = ".draft"
	maxAgeSec    = 30 * 24 * 60 * 60
)

// Manager loads and saves sessions.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager creates a Manager signing cookies with secret. An empty secret
// gets a random key, so sessions do not survive a restart.
func NewManager(secret string, secure bool, logger *slog.Logger) *Manager {
	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if logger != nil {
			logger.Warn("SESSION_SECRET not set, using an ephemeral key")
		}
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSec,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{store: store}
}

// Load returns the session for r. A cookie that fails to decode yields an
// empty session.
func (m *Manager) Load(r *http.Request) *Session {
	s, err := m.store.Get(r, CookieName)
	if err != nil || s == nil {
		s = sessions.NewSession(m.store, CookieName)
		opts := *m.store.Options
		s.Options = &opts
		s.IsNew = true
	}
	return &Session{s: s, m: m}
}

// Session is one visitor's page state.
type Session struct {
	s *sessions.Session
	m *Manager
}

// Save writes the session cookie. When the encoded cookie is too large,
// drafts are dropped and the save is retried once so notices and the theme
// still reach the visitor.
func (s *Session) Save(w http.ResponseWriter, r *http.Request) error {
	err := s.m.store.Save(r, w, s.s)
	if err == nil || !s.dropDrafts() {
		return err
	}
	return s.m.store.Save(r, w, s.s)
}

// dropDrafts removes every saved draft and reports whether any existed.
func (s *Session) dropDrafts() bool {
	dropped := false
	for key := range s.s.Values {
		if k, ok := key.(string); ok && strings.HasSuffix(k, draftSuffix) {
			delete(s.s.Values, key)
			dropped = true
		}
	}
	return dropped
}

// Theme returns the saved theme preference, or "".
func (s *Session) Theme() string {
	v, _ := s.s.Values[keyTheme].(string)
	return v
}

// SetTheme saves the theme preference.
func (s *Session) SetTheme(t theme.Theme) {
	s.s.Values[keyTheme] = string(t)
}

// Notice returns the pending notice for form, if any.
func (s *Session) Notice(form string) *view.Notice {
	var n view.Notice
	if !s.get(form+noticeSuffix, &n) {
		return nil
	}
	return &n
}

// SetNotice stores the notice for form.
func (s *Session) SetNotice(form string, n *view.Notice) {
	if n == nil {
		s.ClearNotice(form)
		return
	}
	s.set(form+noticeSuffix, n)
}

// ClearNotice removes the notice for form.
func (s *Session) ClearNotice(form string) {
	delete(s.s.Values, form+noticeSuffix)
}

// Draft decodes the saved field values of form into dst.
func (s *Session) Draft(form string, dst any) bool {
	return s.get(form+draftSuffix, dst)
}

// SetDraft saves the field values of form.
func (s *Session) SetDraft(form string, fields any) {
	s.set(form+draftSuffix, fields)
}

// ClearDraft removes the saved field values of form.
func (s *Session) ClearDraft(form string) {
	delete(s.s.Values, form+draftSuffix)
}

// Values are kept as JSON strings so the cookie codec needs no gob
// registration.
func (s *Session) set(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.s.Values[key] = string(data)
}

func (s *Session) get(key string, dst any) bool {
	raw, ok := s.s.Values[key].(string)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), dst) == nil
}
