// Package notify turns item lifecycle events into user-facing notifications.
//
// It subscribes to the event bus so the scheduler never talks to it directly:
// every terminal transition and explicit action produces exactly one
// notification, delivered asynchronously through the configured sinks.
package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one user-facing message.
type Notification struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	ItemID  string    `json:"item_id,omitempty"`
	At      time.Time `json:"at"`
}

// Sink delivers a notification somewhere visible. Delivery failures never
// touch scheduler state; they are logged and dropped.
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Config controls the async notification pipeline.
type Config struct {
	Enabled    bool
	QueueSize  int
	RatePerSec int
	// WebhookURL, when set, adds a sink that POSTs each notification as JSON
	// (the stand-in for the admin panel's toast channel).
	WebhookURL     string
	WebhookTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 5
	}
	if c.WebhookTimeout <= 0 {
		c.WebhookTimeout = 10 * time.Second
	}
	return c
}
