// Package forms implements the validate-then-submit lifecycle shared by the
// registration and login forms.
package forms

import (
	"context"
	"errors"
	"sync"

	"github.com/isdelr/registrant-portal/internal/backend"
	"github.com/isdelr/registrant-portal/internal/validation"
)

// State is a position in the form lifecycle.
type State string

const (
	StateEditing    State = "editing"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

var (
	// ErrInvalid is returned by Submit when validation fails. No request was sent.
	ErrInvalid = errors.New("form has validation errors")
	// ErrSubmitting is returned by Submit while a previous submission is in flight.
	ErrSubmitting = errors.New("form is already submitting")
)

// SubmitFunc sends validated values to the backend. The returned message is shown on success.
type SubmitFunc func(ctx context.Context, values validation.Values) (string, error)

// Result describes a finished submission.
type Result struct {
	Message  string // success message, or the error shown to the user
	Redirect string // set on success
}

// Form holds field values, touched flags and validation errors for one schema.
type Form struct {
	mu       sync.Mutex
	schema   validation.Schema
	submit   SubmitFunc
	redirect string

	state   State
	values  validation.Values
	touched map[string]bool
	errors  validation.Errors
}

// New creates a form in the editing state. On success Submit reports redirect as the next location.
func New(schema validation.Schema, submit SubmitFunc, redirect string) *Form {
	f := &Form{
		schema:   schema,
		submit:   submit,
		redirect: redirect,
		state:    StateEditing,
		values:   validation.Values{},
		touched:  map[string]bool{},
	}
	f.errors = schema.Validate(f.values)
	return f
}

// Change sets a field value and re-validates.
func (f *Form) Change(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[field] = value
	f.validateLocked()
}

// Blur marks a field touched and re-validates.
func (f *Form) Blur(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[field] = true
	f.validateLocked()
}

// Fill sets several values at once, as a posted form does.
func (f *Form) Fill(values validation.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, v := range values {
		f.values[k] = v
	}
	f.validateLocked()
}

// Submit touches every field, validates and, when valid, calls the submitter.
// Invalid input returns ErrInvalid without contacting the backend. A backend failure
// returns the original error and a Result carrying the message to display.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return Result{}, ErrSubmitting
	}
	f.state = StateValidating
	for _, name := range f.schema.FieldNames() {
		f.touched[name] = true
	}
	f.validateLocked()
	if len(f.errors) > 0 {
		f.state = StateEditing
		f.mu.Unlock()
		return Result{}, ErrInvalid
	}
	f.state = StateSubmitting
	values := f.copyValuesLocked()
	f.mu.Unlock()

	msg, err := f.submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		return Result{Message: backend.UserMessage(err)}, err
	}
	f.state = StateSuccess
	return Result{Message: msg, Redirect: f.redirect}, nil
}

// Snapshot is a render-ready copy of the form.
type Snapshot struct {
	State  State
	Values validation.Values
	// Errors holds messages for touched fields only.
	Errors validation.Errors
}

// Snapshot returns the current values and the errors visible to the user.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	visible := validation.Errors{}
	for field, msg := range f.errors {
		if f.touched[field] {
			visible[field] = msg
		}
	}
	return Snapshot{State: f.state, Values: f.copyValuesLocked(), Errors: visible}
}

// State returns the current lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Clear blanks a field without touching it, e.g. a password after a failed attempt.
func (f *Form) Clear(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, field)
	f.validateLocked()
}

func (f *Form) validateLocked() {
	f.errors = f.schema.Validate(f.values)
}

func (f *Form) copyValuesLocked() validation.Values {
	out := make(validation.Values, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
