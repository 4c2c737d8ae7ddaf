// Package relay bridges client WebSocket connections to the bus.
//
// The Gateway owns one Session per live connection. Each Session runs two
// concurrent activities with a single coordinated teardown: a receive loop
// (connection → validate → AudioEnvelope → audio topic) and a listener
// (transcript topic → validate → decode → correlation filter → connection).
//
// Sessions share no state with each other; the transcript topic is a
// broadcast channel and the per-session correlation filter provides the
// isolation. A malformed frame is reported to its sender and never
// terminates the session; a transport failure terminates only the owning
// session.
package relay
