package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/keyjoin/internal/join"
	"github.com/roach88/keyjoin/internal/pipeline"
)

// Error code constants, shared by every command.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeLoadFailed  = "E004" // Dataset could not be loaded or indexed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeInvalidJob  = "E006" // Job file or flags are invalid
	ErrCodeWriteFailed = "E007" // File write error

	// Join errors
	ErrCodeTypeMismatch      = "E201" // TYPE_MISMATCH
	ErrCodeInvalidJoinType   = "E202" // INVALID_JOIN_TYPE
	ErrCodeMissingComplement = "E203" // MISSING_COMPLEMENT
	ErrCodeDuplicateKey      = "E204" // DUPLICATE_KEY
)

// MapErrorCode picks the CLI error code for err. Errors that carry no code of
// their own map to fallback.
func MapErrorCode(err error, fallback string) string {
	switch join.CodeOf(err) {
	case join.ErrCodeTypeMismatch:
		return ErrCodeTypeMismatch
	case join.ErrCodeInvalidJoinType:
		return ErrCodeInvalidJoinType
	case join.ErrCodeMissingComplement:
		return ErrCodeMissingComplement
	case join.ErrCodeDuplicateKey:
		return ErrCodeDuplicateKey
	}

	var jobErr *pipeline.JobError
	if errors.As(err, &jobErr) {
		return ErrCodeInvalidJob
	}
	if errors.Is(err, fs.ErrNotExist) {
		return ErrCodeNotFound
	}
	return fallback
}
