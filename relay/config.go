package relay

import (
	"fmt"

	"github.com/skillsenselab/audio-relay/bus"
)

// Config holds relay behavior configuration shared by all sessions.
type Config struct {
	// AudioTopic is the bus topic audio envelopes are published to.
	AudioTopic string
	// TranscriptTopic is the bus topic sessions listen on for transcripts.
	TranscriptTopic string
	// MaxAudioSizeBytes is the largest accepted inbound audio frame.
	MaxAudioSizeBytes int
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.AudioTopic == "" {
		c.AudioTopic = bus.TopicAudio
	}
	if c.TranscriptTopic == "" {
		c.TranscriptTopic = bus.TopicTranscripts
	}
	if c.MaxAudioSizeBytes <= 0 {
		c.MaxAudioSizeBytes = 1024 * 1024
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.AudioTopic == c.TranscriptTopic {
		return fmt.Errorf("audio and transcript topics must differ (both %q)", c.AudioTopic)
	}
	return nil
}
