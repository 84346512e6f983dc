package handler

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/service"
	"github.com/saaspy/saaspy/internal/session"
	"github.com/saaspy/saaspy/internal/theme"
	"github.com/saaspy/saaspy/internal/view"
	"github.com/saaspy/saaspy/internal/web"
)

const (
	// colorSchemeHint is the client hint carrying the OS color scheme.
	colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"

	// DefaultFeedWait bounds how long the page waits for the feed before
	// rendering the loading skeletons.
	DefaultFeedWait = 2 * time.Second

	// maxScrollSteps bounds the scroll query parameter.
	maxScrollSteps = 64
)

// formAnchors maps a form to the section it redirects back to.
var formAnchors = map[string]string{
	session.FormNewsletter: "newsletter",
	session.FormReview:     "write-review",
}

// PageHandler serves the landing page and its form posts.
type PageHandler struct {
	actions  *service.Actions
	sessions *session.Manager
	renderer *web.Renderer
	logger   *slog.Logger
	feedWait time.Duration
}

// NewPageHandler creates a new PageHandler. feedWait <= 0 uses DefaultFeedWait.
func NewPageHandler(actions *service.Actions, sessions *session.Manager, renderer *web.Renderer, logger *slog.Logger, feedWait time.Duration) *PageHandler {
	if feedWait <= 0 {
		feedWait = DefaultFeedWait
	}
	return &PageHandler{
		actions:  actions,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
		feedWait: feedWait,
	}
}

// Index renders the landing page.
//
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Load(r)

	w.Header().Set("Accept-CH", colorSchemeHint)
	w.Header().Add("Vary", colorSchemeHint)

	signal := theme.NewSignal(theme.Initial(sess.Theme(), theme.PrefersDark(r.Header.Get(colorSchemeHint))))
	page := web.NewPage()
	unsubscribe := signal.Subscribe(func(t theme.Theme) {
		page.Palette = web.PaletteFor(t)
	})
	defer unsubscribe()

	feed := view.NewFeed(h.actions, h.actions.FeedLimit())
	feed.Mount(r.Context())
	defer feed.Unmount()

	waitCtx, cancel := context.WithTimeout(r.Context(), h.feedWait)
	err := feed.Wait(waitCtx)
	cancel()
	if err != nil {
		h.logger.Warn("review feed still loading at render", "error", err)
	}

	if target, err := strconv.Atoi(r.URL.Query().Get("scroll")); err == nil {
		scrollTo(feed, target)
	}
	page.Feed = feed.Snapshot()

	newsletter := view.NewSubscribeForm(h.actions)
	var email model.SubscribeInput
	sess.Draft(session.FormNewsletter, &email)
	newsletter.Restore(email, sess.Notice(session.FormNewsletter))
	page.Newsletter = newsletter.Snapshot()

	review := view.NewReviewForm(h.actions)
	var draft model.ReviewInput
	sess.Draft(session.FormReview, &draft)
	review.Restore(draft, sess.Notice(session.FormReview))
	page.Review = review.Snapshot()

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// scrollTo advances the feed one step at a time until it reaches target or
// can go no further.
func scrollTo(feed *view.Feed, target int) {
	for i := 0; i < maxScrollSteps; i++ {
		s := feed.Snapshot().Scroll
		if s.Offset >= target || !s.CanScrollRight() {
			return
		}
		feed.ScrollRight()
	}
}

// Subscribe handles the newsletter form post.
//
// POST /subscribe
func (h *PageHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	fields := model.SubscribeInput{Email: r.PostFormValue("email")}
	submitForm(h, w, r, session.FormNewsletter, view.NewSubscribeForm(h.actions), fields)
}

// SubmitReview handles the review form post.
//
// POST /reviews
func (h *PageHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	fields := model.ReviewInput{
		Name:     r.PostFormValue("name"),
		Location: r.PostFormValue("location"),
		Review:   r.PostFormValue("review"),
	}
	submitForm(h, w, r, session.FormReview, view.NewReviewForm(h.actions), fields)
}

// submitForm runs one submission of a fresh form and stores the outcome in
// the session. A successful submission drops the draft; anything else keeps
// it. A validation failure leaves its notice on the form without calling
// the action.
func submitForm[T any](h *PageHandler, w http.ResponseWriter, r *http.Request, name string, form *view.Form[T], fields T) {
	sess := h.sessions.Load(r)

	_ = form.Set(fields)
	if err := form.Submit(r.Context()); err == nil {
		if err := form.Wait(r.Context()); err != nil {
			h.logger.Warn("form submission abandoned", "form", name, "error", err)
			return
		}
	}

	snap := form.Snapshot()
	sess.SetNotice(name, snap.Notice)
	if snap.Notice != nil && snap.Notice.Success {
		sess.ClearDraft(name)
	} else {
		sess.SetDraft(name, snap.Fields)
	}

	h.redirect(w, r, sess, name)
}

// DismissNotice closes the notice of a form.
//
// POST /notice/{form}/dismiss
func (h *PageHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "form")
	if _, ok := formAnchors[name]; !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown form")
		return
	}

	sess := h.sessions.Load(r)
	sess.ClearNotice(name)
	h.redirect(w, r, sess, name)
}

// ToggleTheme flips the saved theme preference.
//
// POST /theme/toggle
func (h *PageHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Load(r)

	signal := theme.NewSignal(theme.Initial(sess.Theme(), theme.PrefersDark(r.Header.Get(colorSchemeHint))))
	sess.SetTheme(signal.Toggle())

	if err := sess.Save(w, r); err != nil {
		h.logger.Error("failed to save session", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) redirect(w http.ResponseWriter, r *http.Request, sess *session.Session, name string) {
	if err := sess.Save(w, r); err != nil {
		h.logger.Error("failed to save session", "form", name, "error", err)
	}
	http.Redirect(w, r, "/#"+formAnchors[name], http.StatusSeeOther)
}
