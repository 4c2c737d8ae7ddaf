package relay

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/skillsenselab/audio-relay/bus"
	"github.com/skillsenselab/audio-relay/envelope"
	apperrors "github.com/skillsenselab/audio-relay/errors"
	"github.com/skillsenselab/audio-relay/logger"
	"github.com/skillsenselab/audio-relay/validation"
)

// State is the lifecycle state of a Session.
type State int32

const (
	StateActive State = iota
	StateClosing
	StateClosed
)

// Session bridges one client connection to the bus, in both directions.
// Its two concurrent activities (receive loop and transcript listener)
// fail independently but are always torn down together, exactly once.
type Session struct {
	id   string
	conn *websocket.Conn
	bus  *bus.Client
	cfg  Config
	log  *logger.Logger

	state          atomic.Int32
	writeMu        sync.Mutex
	teardownOnce   sync.Once
	listenerDone   chan struct{}
	cancelListener context.CancelFunc
	sub            *bus.Subscription
}

// NewSession creates a session for an accepted connection. The id is the
// connection's correlation token; it must be process-unique.
func NewSession(id string, conn *websocket.Conn, busClient *bus.Client, cfg Config, log *logger.Logger) *Session {
	cfg.ApplyDefaults()
	return &Session{
		id:   id,
		conn: conn,
		bus:  busClient,
		cfg:  cfg,
		log: log.WithComponent("session").WithFields(map[string]interface{}{
			logger.FieldClientID: id,
		}),
		listenerDone: make(chan struct{}),
	}
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

// State returns the session's lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Run subscribes the transcript listener, then serves the receive loop on
// the calling goroutine until disconnect or a fatal error. Teardown always
// runs before Run returns. The returned error is nil on clean disconnect.
func (s *Session) Run(ctx context.Context) error {
	listenCtx, cancel := context.WithCancel(ctx)
	s.cancelListener = cancel

	sub, err := s.bus.Subscribe(listenCtx, s.cfg.TranscriptTopic)
	if err != nil {
		close(s.listenerDone) // listener never started
		s.teardown()
		return err
	}
	s.sub = sub

	go s.listen(listenCtx, sub)

	err = s.receive(ctx)
	s.teardown()
	return err
}

// Close tears the session down: the listener is cancelled and awaited, the
// bus subscription released, and the connection closed. Idempotent; safe
// to call concurrently with Run.
func (s *Session) Close() {
	s.teardown()
}

// receive reads binary audio frames until disconnect. A frame that fails
// validation is reported to the sender and the loop continues; a clean
// close ends the loop without error.
func (s *Session) receive(ctx context.Context) error {
	for {
		msgType, frame, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.log.Info("Client disconnected")
				return nil
			}
			if s.State() != StateActive {
				// Read failed because teardown already closed the connection.
				return nil
			}
			s.log.WithError(err).Warn("Connection read failed")
			return apperrors.Transport("read", err)
		}

		if msgType != websocket.BinaryMessage {
			s.sendError("expected a binary audio frame")
			continue
		}

		if verr := validation.Audio(frame, s.cfg.MaxAudioSizeBytes); verr != nil {
			s.log.Debug("Rejected audio frame", map[string]interface{}{
				logger.FieldSize:  len(frame),
				logger.FieldError: verr.Error(),
			})
			s.sendError(apperrors.MessageOf(verr))
			continue
		}

		payload, err := envelope.EncodeAudio(s.id, frame)
		if err != nil {
			s.log.WithError(err).Error("Failed to encode audio envelope")
			return err
		}

		if err := s.bus.Publish(ctx, s.cfg.AudioTopic, payload); err != nil {
			s.log.WithError(err).Error("Failed to publish audio", map[string]interface{}{
				logger.FieldTopic: s.cfg.AudioTopic,
			})
			return err
		}

		s.sendAck(len(frame))
	}
}

// listen consumes the transcript topic until cancelled or the subscription
// ends. Errors here are contained; they never touch the receive loop.
func (s *Session) listen(ctx context.Context, sub *bus.Subscription) {
	defer close(s.listenerDone)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Messages():
			if !ok {
				return
			}
			s.handleTranscript(msg.Payload)
		}
	}
}

// handleTranscript validates, decodes, and correlation-filters one message
// from the shared transcript topic.
func (s *Session) handleTranscript(payload []byte) {
	if verr := validation.Transcript(payload); verr != nil {
		s.sendError(apperrors.MessageOf(verr))
		return
	}

	env, err := envelope.DecodeTranscript(payload)
	if err != nil {
		s.log.WithError(err).Debug("Skipping undecodable transcript")
		return
	}

	if env.ClientID != s.id {
		// Addressed to another session on the shared topic.
		return
	}

	if err := s.writeJSON(transcriptReply{Status: statusTranscript, ClientID: env.ClientID, Text: env.Text}); err != nil {
		s.log.WithError(err).Warn("Failed to deliver transcript")
	}
}

// teardown runs exactly once, on whichever path gets there first: cancel
// the listener, await it, release the subscription, close the connection.
func (s *Session) teardown() {
	s.teardownOnce.Do(func() {
		s.state.Store(int32(StateClosing))
		if s.cancelListener != nil {
			s.cancelListener()
		}
		if s.sub != nil {
			_ = s.sub.Close()
			<-s.listenerDone
		}
		_ = s.conn.Close()
		s.state.Store(int32(StateClosed))
		s.log.Info("Session closed")
	})
}

// writeJSON serializes writes; the receive loop and listener share the
// connection and gorilla connections allow only one concurrent writer.
func (s *Session) writeJSON(v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *Session) sendAck(size int) {
	if err := s.writeJSON(ackReply{Status: statusReceived, Size: size}); err != nil {
		s.log.WithError(err).Warn("Failed to send acknowledgement")
	}
}

func (s *Session) sendError(msg string) {
	if err := s.writeJSON(errorReply{Status: statusError, Error: msg}); err != nil {
		s.log.WithError(err).Warn("Failed to send error reply")
	}
}
