package bus

import (
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

// Message is a single payload received from a topic.
type Message struct {
	Topic   string
	Payload []byte
}

// Subscription is one live subscription to a topic. Messages are delivered
// one at a time on an unbuffered channel, so a slow consumer applies
// backpressure instead of queuing without bound.
type Subscription struct {
	topic     string
	pubsub    *goredis.PubSub
	out       chan Message
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func newSubscription(topic string, pubsub *goredis.PubSub) *Subscription {
	s := &Subscription{
		topic:  topic,
		pubsub: pubsub,
		out:    make(chan Message),
		done:   make(chan struct{}),
	}
	go s.forward()
	return s
}

// forward pumps broker messages onto the out channel until the
// subscription is closed or the broker stream ends.
func (s *Subscription) forward() {
	defer close(s.out)
	for msg := range s.pubsub.Channel() {
		select {
		case s.out <- Message{Topic: msg.Channel, Payload: []byte(msg.Payload)}:
		case <-s.done:
			return
		}
	}
}

// Topic returns the topic this subscription is bound to.
func (s *Subscription) Topic() string { return s.topic }

// Messages returns the delivery channel. It is closed when the
// subscription is closed or the underlying connection is lost.
func (s *Subscription) Messages() <-chan Message { return s.out }

// Close releases the subscription. Safe to call multiple times; after
// Close returns, Messages will be drained and closed.
func (s *Subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.pubsub.Close()
	})
	return s.closeErr
}
