// Package envelope defines the two wire envelopes that cross the bus and
// their deterministic, round-trippable JSON codec. The client correlation
// id travels inside the envelope so replies can be routed back to the one
// connection that produced the audio.
package envelope

import (
	"encoding/json"

	"github.com/skillsenselab/audio-relay/errors"
)

// AudioEnvelope carries one audio frame from a session to the worker.
// Audio is base64-embedded in the JSON wire form (encoding/json encodes
// []byte as base64), so raw bytes survive the textual bus payload.
type AudioEnvelope struct {
	ClientID string `json:"client_id"`
	Audio    []byte `json:"audio"`
}

// TranscriptEnvelope carries one transcript from the worker back to the
// sessions. Every session decodes it; only the one whose client id matches
// forwards it.
type TranscriptEnvelope struct {
	ClientID string `json:"client_id"`
	Text     string `json:"text"`
}

// EncodeAudio serializes an AudioEnvelope for the bus.
func EncodeAudio(clientID string, audio []byte) ([]byte, error) {
	data, err := json.Marshal(AudioEnvelope{ClientID: clientID, Audio: audio})
	if err != nil {
		return nil, errors.Decode("audio", err)
	}
	return data, nil
}

// DecodeAudio parses an AudioEnvelope from the bus. It fails if the JSON
// is malformed, the embedded audio is not valid base64, or the client id
// is missing.
func DecodeAudio(data []byte) (*AudioEnvelope, error) {
	var env AudioEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Decode("audio", err)
	}
	if env.ClientID == "" {
		return nil, errors.Decode("audio", nil).WithDetail("reason", "missing client_id")
	}
	return &env, nil
}

// EncodeTranscript serializes a TranscriptEnvelope for the bus.
func EncodeTranscript(clientID, text string) ([]byte, error) {
	data, err := json.Marshal(TranscriptEnvelope{ClientID: clientID, Text: text})
	if err != nil {
		return nil, errors.Decode("transcript", err)
	}
	return data, nil
}

// DecodeTranscript parses a TranscriptEnvelope from the bus. It fails if
// the JSON is malformed or the client id is missing.
func DecodeTranscript(data []byte) (*TranscriptEnvelope, error) {
	var env TranscriptEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Decode("transcript", err)
	}
	if env.ClientID == "" {
		return nil, errors.Decode("transcript", nil).WithDetail("reason", "missing client_id")
	}
	return &env, nil
}
