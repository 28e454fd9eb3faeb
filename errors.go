package oced

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes event rejections.
type ErrorCode string

const (
	// ErrCodeDuplicateCreate indicates a Create on an id already used,
	// alive or tombstoned.
	ErrCodeDuplicateCreate ErrorCode = "DUPLICATE_CREATE"

	// ErrCodeDeadOrUnknownReference indicates a qualifier referencing an id
	// that is absent or tombstoned.
	ErrCodeDeadOrUnknownReference ErrorCode = "DEAD_OR_UNKNOWN_REFERENCE"

	// ErrCodeNoOpModify indicates a Modify whose new value equals the value
	// left by the immediately preceding qualifier on the same target.
	ErrCodeNoOpModify ErrorCode = "NO_OP_MODIFY"

	// ErrCodeSelfRelation indicates a relation with identical endpoints.
	ErrCodeSelfRelation ErrorCode = "SELF_RELATION"

	// ErrCodeUnsupported indicates a declared qualifier whose semantics are
	// unresolved (delete_object).
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"

	// ErrCodeInvalidTimestamp indicates an event time that does not parse or
	// does not sort strictly after the previous committed event's time.
	ErrCodeInvalidTimestamp ErrorCode = "INVALID_TIMESTAMP"
)

// EnvelopeIndex is the QualifierIndex reported when the event envelope
// itself (e.g. its timestamp) was rejected rather than a specific
// qualifier.
const EnvelopeIndex = -1

// ValidationError reports why InsertEvent rejected an event. The whole
// event is discarded; no partial effect remains.
type ValidationError struct {
	// Code identifies the violated rule.
	Code ErrorCode

	// QualifierIndex is the position of the offending qualifier within the
	// event, or EnvelopeIndex for event-level failures.
	QualifierIndex int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.QualifierIndex >= 0 {
		return fmt.Sprintf("%s: %s (qualifier %d)", e.Code, e.Message, e.QualifierIndex)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AsValidationError extracts a ValidationError from err, unwrapping as
// needed.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsCode reports whether err is (or wraps) a ValidationError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	ve, ok := AsValidationError(err)
	return ok && ve.Code == code
}

func newValidationError(code ErrorCode, index int, format string, args ...any) *ValidationError {
	return &ValidationError{
		Code:           code,
		QualifierIndex: index,
		Message:        fmt.Sprintf(format, args...),
	}
}

// FormatError reports the first structural inconsistency found while
// decoding a serialized model. Decoding is all-or-nothing: a FormatError
// means no model was produced.
type FormatError struct {
	// Format names the wire format ("json" or "xml").
	Format string

	// Message describes the inconsistency.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s format: %s: %v", e.Format, e.Message, e.Err)
	}
	return fmt.Sprintf("%s format: %s", e.Format, e.Message)
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError reports whether err is (or wraps) a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
