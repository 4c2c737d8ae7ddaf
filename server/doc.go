// Package server provides the HTTP server for the audio relay service,
// built on Gin with component lifecycle management.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: Panic recovery with structured logging
//   - RequestID: Request ID generation and propagation
//   - CORS: Cross-origin resource sharing configuration
//   - RequestLogger: Request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /: Service status
//   - /health: Health check aggregation
//   - /config: Non-secret runtime configuration
//   - /version: Build version information
package server
