package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder assembles an InternalError step by step:
//
//	ierr.WithError(err).
//		WithHint("Failed to list sales").
//		WithReportableDetails(map[string]interface{}{"user_id": id}).
//		Mark(ierr.ErrDatabase)
type ErrorBuilder struct {
	err     error
	hint    string
	details map[string]interface{}
}

func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.NewWithDepth(1, msg)}
}

func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: errors.NewWithDepthf(1, format, args...)}
}

// WithError starts a builder from an existing error, keeping its chain.
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.NewWithDepth(1, "unknown error")
	}
	return &ErrorBuilder{err: err}
}

func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hint = hint
	return b
}

func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.hint = fmt.Sprintf(format, args...)
	return b
}

func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	if b.details == nil {
		b.details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		b.details[k] = v
	}
	return b
}

// Mark finalises the builder, tagging the error with the reference sentinel.
func (b *ErrorBuilder) Mark(reference error) error {
	err := b.err
	if b.hint != "" {
		err = errors.WithHint(err, b.hint)
	}
	if reference != nil {
		err = errors.Mark(err, reference)
	}

	display := b.hint
	if display == "" {
		var existing *InternalError
		if errors.As(b.err, &existing) && existing.DisplayError != "" {
			display = existing.DisplayError
		} else {
			display = b.err.Error()
		}
	}

	return &InternalError{
		Err:               err,
		DisplayError:      display,
		ReportableDetails: b.details,
	}
}
