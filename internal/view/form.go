package view

import (
	"context"
	"errors"
	"sync"

	"github.com/saaspy/saaspy/internal/model"
	"github.com/saaspy/saaspy/internal/validation"
)

// Form errors.
var (
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrTornDown       = errors.New("form has been torn down")
)

// FormState is the state of a submission form.
type FormState int

const (
	FormIdle FormState = iota
	FormSubmitting
)

func (s FormState) String() string {
	if s == FormSubmitting {
		return "submitting"
	}
	return "idle"
}

// Notice is the notification shown after a submission attempt. It stays
// visible until dismissed.
type Notice struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FormSnapshot is a consistent copy of a form for rendering.
type FormSnapshot[T any] struct {
	State    FormState
	Fields   T
	Notice   *Notice
	Disabled bool
}

// Form drives a submission: validate, call the action once, show the
// outcome. Success clears the fields.
type Form[T any] struct {
	validate func(T) error
	submit   func(context.Context, T) model.ActionResult

	mu      sync.Mutex
	state   FormState
	fields  T
	notice  *Notice
	task    *Task[model.ActionResult]
	settled chan struct{}
	torn    bool
}

// NewForm creates an idle form.
func NewForm[T any](validate func(T) error, submit func(context.Context, T) model.ActionResult) *Form[T] {
	return &Form[T]{validate: validate, submit: submit}
}

// Set replaces the field values. Fields are read-only while submitting.
func (f *Form[T]) Set(fields T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.torn {
		return ErrTornDown
	}
	if f.state == FormSubmitting {
		return ErrSubmitInFlight
	}
	f.fields = fields
	return nil
}

// Restore sets fields and notice together, e.g. from a stored draft.
func (f *Form[T]) Restore(fields T, notice *Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.torn || f.state == FormSubmitting {
		return
	}
	f.fields = fields
	f.notice = notice
}

// Submit validates the fields and starts the action. A validation failure
// is shown as an error notice and returned; the action is not called.
func (f *Form[T]) Submit(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.torn {
		return ErrTornDown
	}
	if f.state == FormSubmitting {
		return ErrSubmitInFlight
	}

	if err := f.validate(f.fields); err != nil {
		f.notice = &Notice{Success: false, Message: validation.Message(err)}
		return err
	}

	fields := f.fields
	f.state = FormSubmitting
	f.notice = nil
	f.settled = make(chan struct{})
	f.task = Start(ctx, func(ctx context.Context) model.ActionResult {
		return f.submit(ctx, fields)
	})
	go f.resolve(f.task, f.settled)

	return nil
}

func (f *Form[T]) resolve(task *Task[model.ActionResult], settled chan struct{}) {
	defer close(settled)

	// A canceled parent context surfaces through the action as a failed
	// result, so only teardown discards it.
	res, _ := task.Result()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.torn {
		return
	}
	f.task = nil
	f.state = FormIdle
	f.notice = &Notice{Success: res.Success, Message: res.Message}
	if res.Success {
		var zero T
		f.fields = zero
	}
}

// Wait blocks until the current submission has resolved or ctx is done.
func (f *Form[T]) Wait(ctx context.Context) error {
	f.mu.Lock()
	settled := f.settled
	f.mu.Unlock()
	if settled == nil {
		return nil
	}

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dismiss closes the notification.
func (f *Form[T]) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notice = nil
}

// Teardown cancels an in-flight submission. The form does not change
// state afterwards.
func (f *Form[T]) Teardown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.torn = true
	if f.task != nil {
		f.task.Cancel()
	}
}

// Snapshot returns the current render state.
func (f *Form[T]) Snapshot() FormSnapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := FormSnapshot[T]{
		State:    f.state,
		Fields:   f.fields,
		Disabled: f.state == FormSubmitting,
	}
	if f.notice != nil {
		n := *f.notice
		snap.Notice = &n
	}
	return snap
}

// Subscriber is the newsletter write action.
type Subscriber interface {
	Subscribe(ctx context.Context, email string) model.ActionResult
}

// ReviewSubmitter is the review write action.
type ReviewSubmitter interface {
	SubmitReview(ctx context.Context, in model.ReviewInput) model.ActionResult
}

// NewSubscribeForm returns the newsletter form.
func NewSubscribeForm(action Subscriber) *Form[model.SubscribeInput] {
	return NewForm(validation.Subscribe, func(ctx context.Context, in model.SubscribeInput) model.ActionResult {
		return action.Subscribe(ctx, in.Email)
	})
}

// NewReviewForm returns the write-review form.
func NewReviewForm(action ReviewSubmitter) *Form[model.ReviewInput] {
	return NewForm(validation.Review, action.SubmitReview)
}
