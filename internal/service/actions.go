// Package service provides the action boundary between the views and the
// store gateway. Actions never return errors: every outcome is folded into
// a result value.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"

	"github.com/saaspy/saaspy/internal/metrics"
	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/store"
	"github.com/saaspy/saaspy/internal/validation"
)

// Action names used in logs and metrics.
const (
	ActionSubscribe    = "subscribe"
	ActionSubmitReview = "submit_review"
	ActionListReviews  = "list_recent_reviews"
)

// Actions implements the write and read actions.
type Actions struct {
	gateway   store.Gateway
	logger    *slog.Logger
	metrics   metrics.Recorder
	feedLimit int
	now       func() time.Time
}

// NewActions creates Actions over gateway. A feedLimit <= 0 selects
// model.DefaultFeedLimit.
func NewActions(gateway store.Gateway, logger *slog.Logger, recorder metrics.Recorder, feedLimit int) *Actions {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if feedLimit <= 0 {
		feedLimit = model.DefaultFeedLimit
	}
	return &Actions{
		gateway:   gateway,
		logger:    logger.With("component", "actions"),
		metrics:   recorder,
		feedLimit: feedLimit,
		now:       time.Now,
	}
}

// FeedLimit returns the default size of the review window.
func (a *Actions) FeedLimit() int {
	return a.feedLimit
}

// Subscribe adds email to the newsletter list. Duplicate addresses are
// accepted.
func (a *Actions) Subscribe(ctx context.Context, email string) model.ActionResult {
	in := model.SubscribeInput{Email: email}
	if err := validation.Subscribe(in); err != nil {
		a.metrics.IncAction(ActionSubscribe, metrics.OutcomeValidation)
		return model.ActionResult{Success: false, Message: validation.Message(err)}
	}

	_, err := a.gateway.Insert(ctx, model.CollectionSubscribers, store.Fields{
		model.FieldEmail:        in.Email,
		model.FieldSubscribedAt: store.ServerTimestamp,
		model.FieldStatus:       string(model.SubscriberStatusActive),
	})
	if err != nil {
		a.fail(ActionSubscribe, in, err)
		return model.ActionResult{Success: false, Message: model.MsgSubscribeFailure}
	}

	a.metrics.IncAction(ActionSubscribe, metrics.OutcomeSuccess)
	a.logger.Info("newsletter_subscribed")
	return model.ActionResult{Success: true, Message: model.MsgSubscribeSuccess}
}

// SubmitReview stores a review with pending status.
func (a *Actions) SubmitReview(ctx context.Context, in model.ReviewInput) model.ActionResult {
	if err := validation.Review(in); err != nil {
		a.metrics.IncAction(ActionSubmitReview, metrics.OutcomeValidation)
		return model.ActionResult{Success: false, Message: validation.Message(err)}
	}

	id, err := a.gateway.Insert(ctx, model.CollectionReviews, store.Fields{
		model.FieldName:        in.Name,
		model.FieldLocation:    in.Location,
		model.FieldReview:      in.Review,
		model.FieldSubmittedAt: store.ServerTimestamp,
		model.FieldStatus:      string(model.ReviewStatusPending),
	})
	if err != nil {
		a.fail(ActionSubmitReview, in, err)
		return model.ActionResult{Success: false, Message: model.MsgReviewFailure}
	}

	a.metrics.IncAction(ActionSubmitReview, metrics.OutcomeSuccess)
	a.logger.Info("review_submitted", "review_id", id)
	return model.ActionResult{Success: true, Message: model.MsgReviewSuccess}
}

// ListRecentReviews returns up to limit reviews, newest first. A limit <= 0
// selects the configured feed limit. Avatars are assigned by position.
func (a *Actions) ListRecentReviews(ctx context.Context, limit int) model.ReviewsResult {
	if limit <= 0 {
		limit = a.feedLimit
	}

	records, err := a.gateway.QueryRecent(ctx, model.CollectionReviews, model.FieldSubmittedAt, limit)
	if err != nil {
		a.fail(ActionListReviews, map[string]any{"limit": limit}, err)
		return model.ReviewsResult{Success: false, Reviews: []model.DisplayReview{}}
	}

	reviews := lo.Map(records, func(rec store.Record, i int) model.DisplayReview {
		return toDisplayReview(rec, i)
	})

	a.metrics.IncAction(ActionListReviews, metrics.OutcomeSuccess)
	a.metrics.ObserveFeedSize(len(reviews))
	return model.ReviewsResult{Success: true, Reviews: reviews}
}

func toDisplayReview(rec store.Record, i int) model.DisplayReview {
	r := model.DisplayReview{
		ID:       rec.ID,
		Text:     rec.String(model.FieldReview),
		Name:     rec.String(model.FieldName),
		Location: rec.String(model.FieldLocation),
		Avatar:   model.AvatarFor(i),
	}
	if ts, ok := rec.Time(model.FieldSubmittedAt); ok {
		r.SubmittedAt = &ts
	}
	return r
}

// fail logs a gateway failure with its operation, payload and kind.
func (a *Actions) fail(op string, payload any, err error) {
	a.metrics.IncAction(op, metrics.OutcomeStoreError)
	a.logger.Error(op+"_failed",
		"op", op,
		"payload", payload,
		"timestamp", a.now().UTC(),
		"kind", store.KindOf(err),
		"error", err,
	)
}
