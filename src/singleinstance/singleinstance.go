// Package singleinstance keeps one resident pixel-measure per user session
// and lets a second invocation delegate a measurement trigger to it over TCP
// loopback instead of starting twice.
package singleinstance

import "context"

// Server owns the trigger endpoint of the resident instance.
type Server interface {
	// Start binds the trigger port. Fails when another resident already
	// holds it.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted trigger connection, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases the endpoint.
	Close() error
}

// Conn is one accepted trigger request.
type Conn interface {
	// Accept acknowledges that a measurement session was started.
	Accept() error
	// Reject reports why the trigger was not honored (typically: busy).
	Reject(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Client delegates a trigger to a resident instance.
type Client interface {
	// TriggerMeasure scans the configured port range for a resident and
	// asks it to start a measurement. delegated is false when no resident
	// answered.
	TriggerMeasure(ctx context.Context) (delegated bool, err error)
}

// NewServer returns the TCP implementation.
func NewServer() Server { return newTCPServer() }

// NewClient returns the TCP implementation.
func NewClient() Client { return newTCPClient() }
