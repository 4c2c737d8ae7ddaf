package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/skillsenselab/audio-relay/bus"
	apperrors "github.com/skillsenselab/audio-relay/errors"
	"github.com/skillsenselab/audio-relay/envelope"
	"github.com/skillsenselab/audio-relay/logger"
)

var errSubscriptionEnded = errors.New("subscription ended unexpectedly")

// Worker consumes the audio topic and publishes transcripts.
type Worker struct {
	bus         *bus.Client
	transcriber Transcriber
	cfg         Config
	log         *logger.Logger
	restarts    atomic.Int64
}

// New creates a worker. cfg zero values fall back to the standard topics
// and a 5 second restart backoff.
func New(busClient *bus.Client, transcriber Transcriber, cfg Config, log *logger.Logger) (*Worker, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("worker config: %w", err)
	}
	return &Worker{
		bus:         busClient,
		transcriber: transcriber,
		cfg:         cfg,
		log:         log.WithComponent("worker"),
	}, nil
}

// Run executes the supervisory loop until ctx is cancelled: run the
// consume loop, and on any escaping failure wait the fixed backoff and
// start over. Cancellation is the only way out.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info("Starting transcription worker", map[string]interface{}{
		"audio_topic":      w.cfg.AudioTopic,
		"transcript_topic": w.cfg.TranscriptTopic,
		"restart_backoff":  w.cfg.RestartBackoff.String(),
	})

	for {
		err := w.consume(ctx)
		if ctx.Err() != nil {
			w.log.Info("Worker stopped")
			return ctx.Err()
		}

		w.restarts.Add(1)
		w.log.WithError(err).Error("Worker loop failed; restarting", map[string]interface{}{
			"backoff": w.cfg.RestartBackoff.String(),
		})

		select {
		case <-ctx.Done():
			w.log.Info("Worker stopped during backoff")
			return ctx.Err()
		case <-time.After(w.cfg.RestartBackoff):
		}
	}
}

// Restarts returns how many times the supervisory loop has restarted the
// consume loop.
func (w *Worker) Restarts() int64 {
	return w.restarts.Load()
}

// consume is the inner processing loop: subscribe, then handle messages
// one at a time until cancellation or failure. The subscription is always
// released on exit, whatever the cause.
func (w *Worker) consume(ctx context.Context) error {
	sub, err := w.bus.Subscribe(ctx, w.cfg.AudioTopic)
	if err != nil {
		return err
	}
	defer sub.Close()

	w.log.Info("Subscribed to audio topic", map[string]interface{}{
		logger.FieldTopic: w.cfg.AudioTopic,
	})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-sub.Messages():
			if !ok {
				return apperrors.Bus("receive", w.cfg.AudioTopic, errSubscriptionEnded)
			}
			if err := w.process(ctx, msg.Payload); err != nil {
				return err
			}
		}
	}
}

// process handles one audio message. A message that cannot be decoded is
// skipped; transcription and publish failures end the consume loop.
func (w *Worker) process(ctx context.Context, payload []byte) error {
	env, err := envelope.DecodeAudio(payload)
	if err != nil {
		w.log.WithError(err).Warn("Skipping undecodable audio message")
		return nil
	}

	w.log.Info("Received audio chunk", map[string]interface{}{
		logger.FieldClientID: env.ClientID,
		logger.FieldSize:     len(env.Audio),
	})

	text, err := w.transcriber.Transcribe(ctx, env.Audio)
	if err != nil {
		return fmt.Errorf("transcribe failed for client %s: %w", env.ClientID, err)
	}

	wire, err := envelope.EncodeTranscript(env.ClientID, text)
	if err != nil {
		return err
	}

	if err := w.bus.Publish(ctx, w.cfg.TranscriptTopic, wire); err != nil {
		return err
	}

	w.log.Info("Published transcript", map[string]interface{}{
		logger.FieldClientID: env.ClientID,
		logger.FieldTopic:    w.cfg.TranscriptTopic,
	})
	return nil
}
