// Package slack implements the alert Adapter for Slack over the Web API.
package slack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	slackapi "github.com/slack-go/slack"
	"github.com/zulandar/switchboard/internal/alert"
)

// maxRetries is the max number of retries for rate-limited API calls.
const maxRetries = 3

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	AuthTest() (*slackapi.AuthTestResponse, error)
	PostMessage(channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Adapter implements alert.Adapter for Slack. Alerts are outbound only, so
// chat.postMessage over the Web API is all we need; no Socket Mode.
type Adapter struct {
	client    slackClient
	botToken  string
	channelID string // default channel for alerts
	mu        sync.Mutex
	connected bool
	closed    bool
}

// AdapterOpts holds parameters for creating a Slack Adapter.
type AdapterOpts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // default channel to post to
	// For testing: inject a mock client instead of real Slack API.
	Client slackClient
}

// New creates a Slack Adapter.
func New(opts AdapterOpts) (*Adapter, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("slack: bot token is required")
	}

	a := &Adapter{
		botToken:  opts.BotToken,
		channelID: opts.ChannelID,
	}

	if opts.Client != nil {
		a.client = opts.Client
	}

	return a, nil
}

// Connect verifies the bot token against the Slack API.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("slack: adapter already closed")
	}
	if a.connected {
		return nil
	}

	// Create real client if not injected (production path).
	if a.client == nil {
		a.client = slackapi.New(a.botToken)
	}

	auth, err := a.client.AuthTest()
	if err != nil {
		return fmt.Errorf("slack: auth test: %w", err)
	}
	log.Printf("slack: connected as %s (team %s)", auth.User, auth.Team)

	a.connected = true
	return nil
}

// Send posts an alert to Slack as a colored attachment.
func (a *Adapter) Send(ctx context.Context, msg alert.Message) error {
	a.mu.Lock()
	if !a.connected {
		a.mu.Unlock()
		return fmt.Errorf("slack: not connected")
	}
	a.mu.Unlock()

	channelID := msg.ChannelID
	if channelID == "" {
		channelID = a.channelID
	}
	if channelID == "" {
		return fmt.Errorf("slack: no channel specified")
	}

	att := slackapi.Attachment{
		Title:    msg.Title,
		Text:     msg.Body,
		Color:    alert.SeverityColor(msg.Severity),
		Fallback: msg.Title,
	}

	err := retryOnRateLimit(ctx, func() error {
		_, _, postErr := a.client.PostMessage(channelID, slackapi.MsgOptionAttachments(att))
		return postErr
	})
	if err != nil {
		return fmt.Errorf("slack: post message: %w", err)
	}
	return nil
}

// Close marks the adapter closed. The Web API client holds no connection.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	a.connected = false
	return nil
}

// retryOnRateLimit calls fn and retries with backoff on Slack rate limit errors.
// It respects context cancellation and the RetryAfter duration from Slack.
func retryOnRateLimit(ctx context.Context, fn func() error) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var rle *slackapi.RateLimitedError
		if !errors.As(err, &rle) {
			return err // not a rate limit error, don't retry
		}

		if attempt == maxRetries {
			return err
		}

		wait := rle.RetryAfter
		if wait <= 0 {
			wait = time.Duration(math.Pow(2, float64(attempt))) * time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil // unreachable
}
