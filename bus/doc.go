// Package bus provides the pub/sub client used to relay audio and
// transcripts between the gateway and the transcription worker.
//
// It wraps go-redis with service logging, configuration conventions, and
// component lifecycle (Start/Stop/Health). Delivery is fire-and-forget,
// at-most-once: every active subscriber receives every message published
// after its subscription began, and nothing is replayed.
//
// # Quick Start
//
//	client, err := bus.New(bus.Config{URL: "redis://localhost:6379/0"}, log)
//	sub, err := client.Subscribe(ctx, bus.TopicAudio)
//	for msg := range sub.Messages() {
//	    process(msg.Payload)
//	}
package bus
