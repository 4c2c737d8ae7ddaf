package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/skillsenselab/audio-relay/logger"
)

// newTestClient creates a bus.Client backed by miniredis for testing.
func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(func() { mini.Close() })

	log := logger.NewDefault("bus-test")
	cfg := Config{URL: "redis://" + mini.Addr()}

	client, err := New(cfg, log)
	if err != nil {
		t.Fatalf("failed to create bus client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func receiveOne(t *testing.T, sub *Subscription, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg, ok := <-sub.Messages():
		if !ok {
			t.Fatal("subscription closed unexpectedly")
		}
		return msg
	case <-time.After(timeout):
		t.Fatal("timed out waiting for message")
	}
	return Message{}
}

func TestPublishSubscribe(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	sub, err := client.Subscribe(ctx, TopicAudio)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	t.Cleanup(func() { sub.Close() })

	if err := client.Publish(ctx, TopicAudio, []byte("chunk-1")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	msg := receiveOne(t, sub, 2*time.Second)
	if msg.Topic != TopicAudio {
		t.Errorf("expected topic %q, got %q", TopicAudio, msg.Topic)
	}
	if string(msg.Payload) != "chunk-1" {
		t.Errorf("expected payload 'chunk-1', got %q", msg.Payload)
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	subA, err := client.Subscribe(ctx, TopicTranscripts)
	if err != nil {
		t.Fatalf("Subscribe A failed: %v", err)
	}
	t.Cleanup(func() { subA.Close() })

	subB, err := client.Subscribe(ctx, TopicTranscripts)
	if err != nil {
		t.Fatalf("Subscribe B failed: %v", err)
	}
	t.Cleanup(func() { subB.Close() })

	if err := client.Publish(ctx, TopicTranscripts, []byte("hello")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	for _, sub := range []*Subscription{subA, subB} {
		msg := receiveOne(t, sub, 2*time.Second)
		if string(msg.Payload) != "hello" {
			t.Errorf("expected broadcast payload, got %q", msg.Payload)
		}
	}
}

func TestTopicsAreIndependent(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	sub, err := client.Subscribe(ctx, TopicTranscripts)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	t.Cleanup(func() { sub.Close() })

	if err := client.Publish(ctx, TopicAudio, []byte("audio-only")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	select {
	case msg := <-sub.Messages():
		t.Fatalf("unexpected delivery on %q: %q", TopicTranscripts, msg.Payload)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscriptionClose(t *testing.T) {
	client, _ := newTestClient(t)

	sub, err := client.Subscribe(context.Background(), TopicAudio)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Closing twice must not error or panic.
	if err := sub.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	select {
	case _, ok := <-sub.Messages():
		if ok {
			t.Fatal("expected no message after close")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Messages channel not closed after Close")
	}
}

func TestPing(t *testing.T) {
	client, mini := newTestClient(t)

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	mini.Close()
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected ping to fail after broker shutdown")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{URL: "redis://localhost:6379/0", DialTimeout: "5s", WriteTimeout: "3s"}, false},
		{"missing url", Config{DialTimeout: "5s", WriteTimeout: "3s"}, true},
		{"bad url", Config{URL: "://nope", DialTimeout: "5s", WriteTimeout: "3s"}, true},
		{"bad timeout", Config{URL: "redis://localhost:6379", DialTimeout: "soon", WriteTimeout: "3s"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
