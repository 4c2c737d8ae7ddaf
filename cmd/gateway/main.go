// The gateway accepts websocket clients, publishes their audio chunks to
// the bus, and relays each client's transcripts back over its connection.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/audio-relay/bus"
	"github.com/skillsenselab/audio-relay/component"
	"github.com/skillsenselab/audio-relay/config"
	"github.com/skillsenselab/audio-relay/logger"
	"github.com/skillsenselab/audio-relay/relay"
	"github.com/skillsenselab/audio-relay/server"
	"github.com/skillsenselab/audio-relay/server/endpoint"
)

const serviceName = "audio-relay-gateway"

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

	gateway := relay.NewGateway(busComponent.Client(), relay.Config{
		MaxAudioSizeBytes: cfg.MaxAudioSizeBytes,
	}, log)

	serverCfg := server.Config{Port: cfg.AppPort}
	serverCfg.ApplyDefaults()
	srv := server.New(serverCfg, log)
	serverComponent := server.NewComponent(srv)

	components := []component.Component{busComponent, serverComponent}
	checker := func(ctx context.Context) []component.Health {
		healths := make([]component.Health, 0, len(components))
		for _, c := range components {
			healths = append(healths, c.Health(ctx))
		}
		return healths
	}

	srv.ApplyDefaults(serviceName, checker)
	srv.GinEngine().GET("/config", endpoint.Config(map[string]interface{}{
		"app_port":               cfg.AppPort,
		"redis_url":              cfg.RedisURL,
		"max_audio_size_bytes":   cfg.MaxAudioSizeBytes,
		"worker_restart_backoff": cfg.WorkerRestartBackoff.String(),
	}))
	srv.GinEngine().GET("/ws", gateway.Handler())

	if err := serverComponent.Start(ctx); err != nil {
		log.Fatal("Failed to start HTTP server", map[string]interface{}{
			"error": err.Error(),
		})
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exitCode := 0
	if err := serverComponent.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
		exitCode = 1
	}
	if err := busComponent.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("Bus shutdown failed")
		exitCode = 1
	}

	log.Info("Gateway stopped", map[string]interface{}{
		"active_sessions": gateway.ActiveSessions(),
	})
	os.Exit(exitCode)
}
