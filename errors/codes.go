package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request errors
const (
	// ErrCodeInvalidInput indicates the request input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodePayloadTooLarge indicates the request body exceeded the size limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Pipeline errors
const (
	// ErrCodeMissingVariable indicates a template variable was absent from the input.
	ErrCodeMissingVariable ErrorCode = "MISSING_VARIABLE"
	// ErrCodeKeyNotFound indicates an extracted field was absent from a record.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"
	// ErrCodeShapeMismatch indicates a stage received a value of the wrong kind.
	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"
	// ErrCodeNoBranchMatched indicates no branch arm accepted the input and no default was set.
	ErrCodeNoBranchMatched ErrorCode = "NO_BRANCH_MATCHED"
	// ErrCodeInvalidComposition indicates a pipeline was built from invalid parts.
	ErrCodeInvalidComposition ErrorCode = "INVALID_COMPOSITION"
	// ErrCodeStageFailed indicates a stage failed for a reason without a more specific code.
	ErrCodeStageFailed ErrorCode = "STAGE_FAILED"
)

// Availability errors (retryable)
const (
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCanceled indicates the caller canceled the request.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:     true,
	ErrCodeStageFailed: true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
