// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the admin health endpoint.
const GRPCDial = 2 * time.Second

// AdminRequest caps a single console request to the admin API.
const AdminRequest = 5 * time.Second

// StoreQuery caps a single request-scoped store query.
const StoreQuery = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
