package join

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes join errors.
type ErrorCode string

const (
	// ErrCodeTypeMismatch indicates a mapping, selector or resolver argument
	// that cannot be used (nil, or with the wrong type parameters).
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeInvalidJoinType indicates a join type tag outside the seven
	// recognized values.
	ErrCodeInvalidJoinType ErrorCode = "INVALID_JOIN_TYPE"

	// ErrCodeMissingComplement indicates DiscardedValues was called on a value
	// that was not produced by Join.
	ErrCodeMissingComplement ErrorCode = "MISSING_COMPLEMENT"

	// ErrCodeDuplicateKey indicates FromIterable met a repeated key under the
	// strict collision policy.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
)

// Error is returned by every operation of this package.
//
// Errors are raised before iteration starts; a Sequence never fails
// mid-stream.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (offending key, index, type).
	Details map[string]string
}

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrTypeMismatch      = &Error{Code: ErrCodeTypeMismatch}
	ErrInvalidJoinType   = &Error{Code: ErrCodeInvalidJoinType}
	ErrMissingComplement = &Error{Code: ErrCodeMissingComplement}
	ErrDuplicateKey      = &Error{Code: ErrCodeDuplicateKey}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is a join error with the same code.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}
	return te.Code == e.Code
}

// IsTypeMismatch returns true if err is a TYPE_MISMATCH join error.
func IsTypeMismatch(err error) bool {
	return hasCode(err, ErrCodeTypeMismatch)
}

// IsInvalidJoinType returns true if err is an INVALID_JOIN_TYPE join error.
func IsInvalidJoinType(err error) bool {
	return hasCode(err, ErrCodeInvalidJoinType)
}

// IsMissingComplement returns true if err is a MISSING_COMPLEMENT join error.
func IsMissingComplement(err error) bool {
	return hasCode(err, ErrCodeMissingComplement)
}

// IsDuplicateKey returns true if err is a DUPLICATE_KEY join error.
func IsDuplicateKey(err error) bool {
	return hasCode(err, ErrCodeDuplicateKey)
}

// CodeOf extracts the code of a join error. Returns "" for other errors.
func CodeOf(err error) ErrorCode {
	var je *Error
	if errors.As(err, &je) {
		return je.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func newTypeMismatch(format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf(format, args...),
	}
}

func newInvalidJoinType(t Type) *Error {
	return &Error{
		Code:    ErrCodeInvalidJoinType,
		Message: fmt.Sprintf("unknown join type %q", string(t)),
		Details: map[string]string{"type": string(t)},
	}
}

func newMissingComplement() *Error {
	return &Error{
		Code:    ErrCodeMissingComplement,
		Message: "value was not produced by Join and carries no discarded values",
	}
}

func newDuplicateKey(key any, index int) *Error {
	return &Error{
		Code:    ErrCodeDuplicateKey,
		Message: fmt.Sprintf("key %v repeated at index %d", key, index),
		Details: map[string]string{
			"key":   fmt.Sprintf("%v", key),
			"index": fmt.Sprintf("%d", index),
		},
	}
}
