// Package model defines domain entities for the application.
package model

import "time"

// Collection names are the wire contract with the document store.
const (
	CollectionSubscribers = "newsletter_subscribers"
	CollectionReviews     = "customer_reviews"
)

// SubscriberStatus is the lifecycle status written with a subscriber record.
type SubscriberStatus string

const (
	SubscriberStatusActive SubscriberStatus = "active"
)

// Subscriber field names as persisted.
const (
	FieldEmail        = "email"
	FieldSubscribedAt = "subscribedAt"
	FieldStatus       = "status"
)

// Subscriber represents a newsletter subscription.
// Email uniqueness is not enforced.
type Subscriber struct {
	ID           string           `json:"id"`
	Email        string           `json:"email"`
	SubscribedAt time.Time        `json:"subscribed_at"`
	Status       SubscriberStatus `json:"status"`
}

// SubscribeInput is the newsletter form payload.
type SubscribeInput struct {
	Email string `json:"email" validate:"required"`
}
