// Package notify delivers user-facing notifications and suppresses
// duplicates inside a configurable time window.
package notify

import (
	"fmt"
	"io"
	"time"
)

// Severity of a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// DefaultLife is how long a non-sticky notification stays visible.
const DefaultLife = 5 * time.Second

// Notification is a single presentation request.
type Notification struct {
	Severity Severity
	Summary  string
	Detail   string

	// Life is the display duration. Zero means DefaultLife unless
	// Sticky is set; sticky notifications have no life and stay until
	// dismissed.
	Life   time.Duration
	Sticky bool
}

// Sink is the UI presentation surface notifications are forwarded to.
type Sink interface {
	Present(n Notification)
}

// Option adjusts a notification built by the severity helpers.
type Option func(*Notification)

// WithLife overrides the display duration.
func WithLife(d time.Duration) Option {
	return func(n *Notification) { n.Life = d }
}

// Sticky makes the notification stay until dismissed.
func Sticky() Option {
	return func(n *Notification) { n.Sticky = true }
}

// ConsoleSink prints notifications to a writer, one per line.
type ConsoleSink struct {
	Out io.Writer
}

func (c *ConsoleSink) Present(n Notification) {
	fmt.Fprintf(c.Out, "[%s] %s: %s\n", n.Severity, n.Summary, n.Detail)
}
