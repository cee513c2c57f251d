// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// APIRequest caps a single call from the web frontend to the API.
const APIRequest = 10 * time.Second

// CacheOp caps a single cache round trip.
const CacheOp = 250 * time.Millisecond
