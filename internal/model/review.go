package model

import (
	"fmt"
	"time"
)

// ReviewStatus is the moderation status written with a review record.
// Nothing reads or transitions it; display does not filter on it.
type ReviewStatus string

const (
	ReviewStatusPending ReviewStatus = "pending"
)

// Review field names as persisted.
const (
	FieldName        = "name"
	FieldLocation    = "location"
	FieldReview      = "review"
	FieldSubmittedAt = "submittedAt"
)

// DefaultFeedLimit is the size of the most-recent reviews window.
const DefaultFeedLimit = 6

// avatarCount is the number of placeholder avatar images cycled by position.
const avatarCount = 3

// Review is a stored customer review.
type Review struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Location    string       `json:"location"`
	Text        string       `json:"text"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Status      ReviewStatus `json:"status"`
}

// ReviewInput is the review form payload.
type ReviewInput struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location" validate:"required"`
	Review   string `json:"review" validate:"required"`
}

// DisplayReview is a review prepared for the feed.
// Avatar is derived from the position in the result and is not persisted.
type DisplayReview struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	Avatar      string     `json:"avatar"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// AvatarFor returns the placeholder avatar path for the zero-based position i.
func AvatarFor(i int) string {
	if i < 0 {
		i = -i
	}
	return fmt.Sprintf("/avatar%d.png", (i%avatarCount)+1)
}
