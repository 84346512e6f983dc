// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// SubscribeRequest is the body of POST /api/subscribe.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// ReviewRequest is the body of POST /api/reviews.
type ReviewRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Review   string `json:"review"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ConfigVariable is one entry of the configuration report.
type ConfigVariable struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ConfigStatusResponse reports which client configuration values are set.
type ConfigStatusResponse struct {
	Variables []ConfigVariable `json:"variables"`
	Missing   []string         `json:"missing"`
	Complete  bool             `json:"complete"`
}
