package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saaspy/saaspy/internal/service"
	"github.com/saaspy/saaspy/internal/session"
	"github.com/saaspy/saaspy/internal/store"
	"github.com/saaspy/saaspy/internal/web"
)

// downGateway is a store that refuses every call.
type downGateway struct {
	*store.MemoryStore
}

func newDownGateway() *downGateway {
	return &downGateway{MemoryStore: store.NewMemoryStore()}
}

func (d *downGateway) Insert(ctx context.Context, collection string, fields store.Fields) (string, error) {
	return "", &store.Error{Op: "insert", Collection: collection, Kind: store.KindUnavailable, Err: errors.New("connection refused")}
}

func (d *downGateway) QueryRecent(ctx context.Context, collection, orderField string, limit int) ([]store.Record, error) {
	return nil, &store.Error{Op: "query", Collection: collection, Kind: store.KindUnavailable, Err: errors.New("connection refused")}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSite wires the page handlers over gw behind a chi router.
func newTestSite(t *testing.T, gw store.Gateway) http.Handler {
	t.Helper()

	logger := discardLogger()
	actions := service.NewActions(gw, logger, nil, 0)
	sessions := session.NewManager("0123456789abcdef0123456789abcdef", false, logger)
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	h := NewPageHandler(actions, sessions, renderer, logger, time.Second)

	r := chi.NewRouter()
	r.Get("/", h.Index)
	r.Post("/subscribe", h.Subscribe)
	r.Post("/reviews", h.SubmitReview)
	r.Post("/notice/{form}/dismiss", h.DismissNotice)
	r.Post("/theme/toggle", h.ToggleTheme)
	return r
}

// browser replays the session cookie between requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		b.cookies = cookies
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}
