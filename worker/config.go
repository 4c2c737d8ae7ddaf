package worker

import (
	"fmt"
	"time"

	"github.com/skillsenselab/audio-relay/bus"
)

// Config holds transcription worker configuration.
type Config struct {
	// AudioTopic is the bus topic the worker consumes.
	AudioTopic string
	// TranscriptTopic is the bus topic results are published to.
	TranscriptTopic string
	// RestartBackoff is the fixed delay before the supervisory loop
	// restarts the consume loop after a failure.
	RestartBackoff time.Duration
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.AudioTopic == "" {
		c.AudioTopic = bus.TopicAudio
	}
	if c.TranscriptTopic == "" {
		c.TranscriptTopic = bus.TopicTranscripts
	}
	if c.RestartBackoff <= 0 {
		c.RestartBackoff = 5 * time.Second
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.AudioTopic == c.TranscriptTopic {
		return fmt.Errorf("audio and transcript topics must differ (both %q)", c.AudioTopic)
	}
	return nil
}
