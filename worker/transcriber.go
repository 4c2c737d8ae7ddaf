package worker

import (
	"context"
	"fmt"
	"time"
)

// Transcriber converts one audio payload to text. Implementations must
// return non-empty text on success and should complete within a bounded
// time budget; the worker treats a returned error as fatal to the current
// consume loop.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// MockTranscriber stands in for a real speech-to-text backend. It always
// succeeds with a canned transcript carrying a timestamp and the input size.
type MockTranscriber struct{}

// Transcribe returns the placeholder transcript.
func (MockTranscriber) Transcribe(_ context.Context, audio []byte) (string, error) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("Transcribed: %s (size: %d bytes)", timestamp, len(audio)), nil
}
