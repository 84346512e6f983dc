package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/theme"
	"github.com/saaspy/saaspy/internal/view"
)

// roundTrip saves s and returns a request carrying the resulting cookie.
func roundTrip(t *testing.T, s *Session) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSession_RoundTrip(t *testing.T) {
	m := NewManager("test-secret-test-secret-test-sec", false, nil)

	s := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetTheme(theme.Dark)
	s.SetNotice(FormReview, &view.Notice{Success: false, Message: "Please fill in all fields"})
	s.SetDraft(FormReview, model.ReviewInput{Name: "Jo", Location: "Oslo"})

	loaded := m.Load(roundTrip(t, s))

	assert.Equal(t, "dark", loaded.Theme())
	assert.Equal(t, &view.Notice{Success: false, Message: "Please fill in all fields"}, loaded.Notice(FormReview))
	assert.Nil(t, loaded.Notice(FormNewsletter))

	var draft model.ReviewInput
	require.True(t, loaded.Draft(FormReview, &draft))
	assert.Equal(t, model.ReviewInput{Name: "Jo", Location: "Oslo"}, draft)
}

func TestSession_Clear(t *testing.T) {
	m := NewManager("another-secret", false, nil)

	s := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetNotice(FormNewsletter, &view.Notice{Success: true, Message: "ok"})
	s.SetDraft(FormNewsletter, model.SubscribeInput{Email: "a@b.c"})
	s.ClearNotice(FormNewsletter)
	s.ClearDraft(FormNewsletter)

	loaded := m.Load(roundTrip(t, s))
	assert.Nil(t, loaded.Notice(FormNewsletter))
	var draft model.SubscribeInput
	assert.False(t, loaded.Draft(FormNewsletter, &draft))
}

func TestSession_OversizedDraftIsDropped(t *testing.T) {
	m := NewManager("test-secret-test-secret-test-sec", false, nil)

	s := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetTheme(theme.Dark)
	s.SetNotice(FormReview, &view.Notice{Success: false, Message: "Could not submit review"})
	s.SetDraft(FormReview, model.ReviewInput{Name: "Jo", Location: "Oslo", Review: strings.Repeat("x", 5000)})
	s.SetDraft(FormNewsletter, model.SubscribeInput{Email: "a@b.c"})

	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.Len(t, rec.Result().Cookies(), 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	loaded := m.Load(req)

	assert.Equal(t, "dark", loaded.Theme())
	assert.Equal(t, &view.Notice{Success: false, Message: "Could not submit review"}, loaded.Notice(FormReview))
	var review model.ReviewInput
	assert.False(t, loaded.Draft(FormReview, &review))
	var sub model.SubscribeInput
	assert.False(t, loaded.Draft(FormNewsletter, &sub))
}

func TestSession_ForeignCookieYieldsEmptySession(t *testing.T) {
	signer := NewManager("secret-one", false, nil)
	reader := NewManager("secret-two", false, nil)

	s := signer.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetTheme(theme.Dark)

	loaded := reader.Load(roundTrip(t, s))
	assert.Empty(t, loaded.Theme())
}

func TestNewManager_EphemeralKey(t *testing.T) {
	m := NewManager("", true, nil)

	s := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	s.SetTheme(theme.Light)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Save(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
}
