package view

import (
	"context"
	"sync"

	"github.com/saaspy/saaspy/internal/model"
)

// FeedState is the render state of the review feed.
type FeedState int

const (
	FeedLoading FeedState = iota
	FeedEmpty
	FeedPopulated
)

func (s FeedState) String() string {
	switch s {
	case FeedLoading:
		return "loading"
	case FeedEmpty:
		return "empty"
	case FeedPopulated:
		return "populated"
	default:
		return "unknown"
	}
}

const (
	// ScrollStep is the width of one review card in pixels.
	ScrollStep = 320

	// SkeletonCards is the number of placeholders shown while loading.
	SkeletonCards = 3

	// DefaultViewportWidth is the assumed visible width of the feed row.
	DefaultViewportWidth = 960
)

// ReviewLister is the read action consumed by the feed.
type ReviewLister interface {
	ListRecentReviews(ctx context.Context, limit int) model.ReviewsResult
}

// Scroll holds the horizontal scroll position of the feed row.
type Scroll struct {
	Offset      int
	ScrollWidth int
	ClientWidth int
}

// CanScrollLeft reports whether content is hidden to the left.
func (s Scroll) CanScrollLeft() bool {
	return s.Offset > 0
}

// CanScrollRight reports whether content is hidden to the right.
func (s Scroll) CanScrollRight() bool {
	return s.Offset < s.ScrollWidth-s.ClientWidth-1
}

// FeedSnapshot is a consistent copy of the feed for rendering.
type FeedSnapshot struct {
	State          FeedState
	Reviews        []model.DisplayReview
	Skeletons      int
	CanScrollLeft  bool
	CanScrollRight bool
	Scroll         Scroll
}

// Loading reports whether the read is outstanding.
func (s FeedSnapshot) Loading() bool { return s.State == FeedLoading }

// Empty reports whether there is nothing to show.
func (s FeedSnapshot) Empty() bool { return s.State == FeedEmpty }

// Populated reports whether reviews are shown.
func (s FeedSnapshot) Populated() bool { return s.State == FeedPopulated }

// Feed loads the most recent reviews once per mount.
//
// Loading moves to Empty or Populated when the read resolves, and neither
// of those states changes again. A failed read renders as Empty.
type Feed struct {
	lister ReviewLister
	limit  int

	mu       sync.Mutex
	state    FeedState
	reviews  []model.DisplayReview
	scroll   Scroll
	task     *Task[model.ReviewsResult]
	settled  chan struct{}
	disposed bool
}

// NewFeed creates an unmounted feed. limit <= 0 defers to the lister's
// default window.
func NewFeed(lister ReviewLister, limit int) *Feed {
	return &Feed{
		lister:  lister,
		limit:   limit,
		state:   FeedLoading,
		scroll:  Scroll{ClientWidth: DefaultViewportWidth},
		settled: make(chan struct{}),
	}
}

// SetViewport sets the visible width used for scroll affordances.
func (f *Feed) SetViewport(clientWidth int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if clientWidth > 0 {
		f.scroll.ClientWidth = clientWidth
	}
}

// Mount issues the single read for this feed. Later calls do nothing.
func (f *Feed) Mount(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.task != nil || f.disposed {
		return
	}

	limit := f.limit
	f.task = Start(ctx, func(ctx context.Context) model.ReviewsResult {
		return f.lister.ListRecentReviews(ctx, limit)
	})
	go f.resolve(f.task)
}

func (f *Feed) resolve(task *Task[model.ReviewsResult]) {
	res, err := task.Result()

	f.mu.Lock()
	defer f.mu.Unlock()
	defer close(f.settled)

	if f.disposed || err != nil {
		return
	}

	if len(res.Reviews) == 0 {
		f.state = FeedEmpty
		return
	}

	f.reviews = res.Reviews
	f.state = FeedPopulated
	f.scroll.Offset = 0
	f.scroll.ScrollWidth = len(res.Reviews) * ScrollStep
}

// Wait blocks until the read has resolved or been discarded, or until ctx
// is done.
func (f *Feed) Wait(ctx context.Context) error {
	f.mu.Lock()
	mounted := f.task != nil
	f.mu.Unlock()
	if !mounted {
		return nil
	}

	select {
	case <-f.settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unmount cancels an outstanding read. A result arriving afterwards is
// discarded.
func (f *Feed) Unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disposed = true
	if f.task != nil {
		f.task.Cancel()
	}
}

// UpdateScroll records a scroll event.
func (f *Feed) UpdateScroll(offset, scrollWidth, clientWidth int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scroll = Scroll{Offset: offset, ScrollWidth: scrollWidth, ClientWidth: clientWidth}
}

// ScrollLeft moves back by one card.
func (f *Feed) ScrollLeft() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scroll.Offset = max(0, f.scroll.Offset-ScrollStep)
}

// ScrollRight moves forward by one card.
func (f *Feed) ScrollRight() {
	f.mu.Lock()
	defer f.mu.Unlock()
	end := max(0, f.scroll.ScrollWidth-f.scroll.ClientWidth)
	f.scroll.Offset = min(end, f.scroll.Offset+ScrollStep)
}

// Snapshot returns the current render state.
func (f *Feed) Snapshot() FeedSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := FeedSnapshot{
		State:  f.state,
		Scroll: f.scroll,
	}
	switch f.state {
	case FeedLoading:
		snap.Skeletons = SkeletonCards
	case FeedPopulated:
		snap.Reviews = append([]model.DisplayReview(nil), f.reviews...)
		snap.CanScrollLeft = f.scroll.CanScrollLeft()
		snap.CanScrollRight = f.scroll.CanScrollRight()
	}
	return snap
}
