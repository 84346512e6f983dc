// Package validation holds the required-field checks shared by the
// submission forms and the action boundary.
package validation

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/saaspy/saaspy/internal/model"
)

// ErrRequired is matched by every validation failure.
var ErrRequired = errors.New("required field missing")

// Messages shown when a form is submitted incomplete.
const (
	MsgEmailRequired  = "Please enter your email address"
	MsgFieldsRequired = "Please fill in all fields"
)

var validate = validator.New()

// Error is a validation failure carrying the user-facing message and
// the names of the missing fields.
type Error struct {
	Message string
	Fields  []string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrRequired.
func (e *Error) Unwrap() error {
	return ErrRequired
}

// Subscribe checks that the email is present. Its format is left to the
// browser's email input; no pattern is enforced here.
func Subscribe(in model.SubscribeInput) error {
	return check(in, MsgEmailRequired)
}

// Review checks that name, location and review text are all present.
func Review(in model.ReviewInput) error {
	return check(in, MsgFieldsRequired)
}

func check(in any, msg string) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &Error{Message: msg, Fields: fields}
}

// Message returns the user-facing text for err, or "" when err is not a
// validation failure.
func Message(err error) string {
	var verr *Error
	if errors.As(err, &verr) {
		return verr.Message
	}
	return ""
}
