// Package validation holds the pure payload policy checks for audio frames
// and transcript messages. Both checks are total: they return a definitive
// result for every possible input and never panic.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/skillsenselab/audio-relay/errors"
)

// Audio checks an inbound audio frame against the size policy.
// Returns nil when the frame is acceptable, or a VALIDATION_ERROR
// describing why it was rejected.
func Audio(data []byte, maxSize int) error {
	if len(data) == 0 {
		return errors.Validation("Audio data is empty")
	}
	if len(data) > maxSize {
		return errors.Validation(
			fmt.Sprintf("Audio data too large: %d bytes (max %d)", len(data), maxSize),
		).WithDetail("size_bytes", len(data)).WithDetail("max_bytes", maxSize)
	}
	return nil
}

// Transcript checks a raw transcript payload from the bus. It must be
// non-empty, valid UTF-8, and contain something other than whitespace.
func Transcript(data []byte) error {
	if len(data) == 0 {
		return errors.Validation("Transcript is empty")
	}
	if !utf8.Valid(data) {
		return errors.Validation("Transcript is not valid UTF-8")
	}
	if strings.TrimSpace(string(data)) == "" {
		return errors.Validation("Transcript is empty")
	}
	return nil
}
