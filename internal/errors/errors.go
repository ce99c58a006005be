package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used to mark the category of a failure. Callers test against
// them with errors.Is (or the helpers below), never by message.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrDatabase      = errors.New("database error")
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidUsageDefinition marks a usage definition without a usable billing period.
	ErrInvalidUsageDefinition = errors.New("invalid usage definition")
	// ErrStoreUnavailable marks a failed read against the usage or tracking store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrClockUnavailable marks a failure to read the current date.
	ErrClockUnavailable = errors.New("clock unavailable")
)

// InternalError is the builder returned by NewError, NewErrorf and WithError.
// Finish the chain with Mark to obtain the error value.
type InternalError struct {
	err     error
	details map[string]any
}

// NewError starts a new error chain with the given message
func NewError(msg string) *InternalError {
	return &InternalError{err: errors.NewWithDepth(1, msg)}
}

// NewErrorf starts a new error chain with a formatted message
func NewErrorf(format string, args ...any) *InternalError {
	return &InternalError{err: errors.NewWithDepthf(1, format, args...)}
}

// WithError starts a new error chain wrapping an existing error
func WithError(err error) *InternalError {
	if err == nil {
		err = errors.NewWithDepth(1, "unknown error")
	}
	return &InternalError{err: err}
}

// WithHint attaches a user facing hint
func (e *InternalError) WithHint(hint string) *InternalError {
	e.err = errors.WithHint(e.err, hint)
	return e
}

// WithHintf attaches a formatted user facing hint
func (e *InternalError) WithHintf(format string, args ...any) *InternalError {
	e.err = errors.WithHintf(e.err, format, args...)
	return e
}

// WithReportableDetails attaches structured details that are safe to log and report
func (e *InternalError) WithReportableDetails(details map[string]any) *InternalError {
	if e.details == nil {
		e.details = make(map[string]any, len(details))
	}
	for k, v := range details {
		e.details[k] = v
	}
	return e
}

// Mark finishes the chain and tags the error with the given sentinel
func (e *InternalError) Mark(reference error) error {
	err := e.err
	if len(e.details) > 0 {
		err = &detailedError{cause: err, details: e.details}
	}
	return errors.Mark(err, reference)
}

type detailedError struct {
	cause   error
	details map[string]any
}

func (d *detailedError) Error() string { return d.cause.Error() }
func (d *detailedError) Unwrap() error { return d.cause }

func (d *detailedError) Format(s fmt.State, verb rune) { errors.FormatError(d, s, verb) }

// ReportableDetails returns the details attached anywhere in the chain.
// Outer details win over inner ones on key collisions.
func ReportableDetails(err error) map[string]any {
	out := map[string]any{}
	var chain []*detailedError
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		if d, ok := e.(*detailedError); ok {
			chain = append(chain, d)
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].details {
			out[k] = v
		}
	}
	return out
}

// Hints returns every hint attached to the chain, outermost first
func Hints(err error) []string {
	return errors.GetAllHints(err)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsDatabase(err error) bool { return errors.Is(err, ErrDatabase) }
func IsInvalidUsageDefinition(err error) bool { return errors.Is(err, ErrInvalidUsageDefinition) }
func IsStoreUnavailable(err error) bool { return errors.Is(err, ErrStoreUnavailable) }
func IsClockUnavailable(err error) bool { return errors.Is(err, ErrClockUnavailable) }
