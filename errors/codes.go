package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	// ErrCodeValidation indicates a payload failed the audio or transcript policy.
	// Recovered locally: reported to the offending connection, session stays up.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeDecode indicates a malformed envelope was read from the bus.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeBus indicates a publish or subscribe operation failed.
	ErrCodeBus ErrorCode = "BUS_ERROR"
	// ErrCodeTransport indicates a client connection was lost or unusable.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeBus: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
