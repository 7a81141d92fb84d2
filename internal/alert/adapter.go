// Package alert posts operator notifications to chat platforms (Slack,
// Discord).
package alert

import "context"

// Adapter is the interface platform-specific senders must satisfy. The
// daemon only pushes notifications; nothing inbound is consumed.
type Adapter interface {
	// Connect establishes a connection to the chat platform.
	Connect(ctx context.Context) error

	// Send posts one notification.
	Send(ctx context.Context, msg Message) error

	// Close gracefully shuts down the adapter connection.
	Close() error
}

// Message is one operator notification.
type Message struct {
	ChannelID string // target channel; empty falls back to the adapter default
	Title     string
	Body      string
	Severity  string // "info", "warning", "error", "success"
}
