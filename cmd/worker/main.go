// The worker consumes audio chunks from the bus, transcribes them, and
// publishes the transcripts.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/skillsenselab/audio-relay/bus"
	"github.com/skillsenselab/audio-relay/config"
	"github.com/skillsenselab/audio-relay/logger"
	"github.com/skillsenselab/audio-relay/worker"
)

const serviceName = "audio-relay-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault(serviceName).Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}
	log := logger.New(&cfg.Log, serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	busComponent := bus.NewComponent(bus.Config{URL: cfg.RedisURL}, log)
	if err := busComponent.Start(ctx); err != nil {
		log.Fatal("Failed to start bus client", map[string]interface{}{
			"error": err.Error(),
		})
	}

	w, err := worker.New(busComponent.Client(), worker.MockTranscriber{}, worker.Config{
		RestartBackoff: cfg.WorkerRestartBackoff,
	}, log)
	if err != nil {
		log.Fatal("Failed to create worker", map[string]interface{}{
			"error": err.Error(),
		})
	}

	runErr := w.Run(ctx)

	exitCode := 0
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.WithError(runErr).Error("Worker exited with error")
		exitCode = 1
	}
	if err := busComponent.Stop(context.Background()); err != nil {
		log.WithError(err).Error("Bus shutdown failed")
		exitCode = 1
	}

	log.Info("Worker stopped")
	os.Exit(exitCode)
}
