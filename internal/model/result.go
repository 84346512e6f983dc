package model

// ActionResult is returned by the write actions.
// Both fields are always set; no error crosses the action boundary.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ReviewsResult is returned by the read action.
// Reviews is never nil.
type ReviewsResult struct {
	Success bool            `json:"success"`
	Reviews []DisplayReview `json:"reviews"`
}

// User-facing action messages.
const (
	MsgSubscribeSuccess = "Successfully subscribed! Thank you for joining our newsletter."
	MsgSubscribeFailure = "Sorry, there was an error. Please try again later."
	MsgReviewSuccess    = "Thank you for your review! It has been submitted successfully."
	MsgReviewFailure    = "Sorry, there was an error submitting your review. Please try again later."
)
