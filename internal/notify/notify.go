// Package notify shows short-lived status messages in the TUI and, when
// enabled, mirrors them as desktop notifications through notify-send.
package notify

import (
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Kind distinguishes toast styling
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// DefaultTTL is how long a toast stays in the status line
const DefaultTTL = 3 * time.Second

// Toast is the message currently shown in the status line
type Toast struct {
	Message string
	Kind    Kind
	Expires time.Time
}

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
}

// Notifier records toasts and optionally forwards them to the desktop
type Notifier struct {
	mu      sync.Mutex
	desktop bool
	ttl     time.Duration
	now     func() time.Time
	run     func(name string, args ...string) error
	toast   *Toast
}

// Option configures a Notifier
type Option func(*Notifier)

// WithDesktop enables notify-send forwarding
func WithDesktop(enabled bool) Option {
	return func(n *Notifier) { n.desktop = enabled }
}

// WithClock overrides the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) { n.now = now }
}

// WithTTL sets how long toasts stay visible
func WithTTL(d time.Duration) Option {
	return func(n *Notifier) { n.ttl = d }
}

// WithRunner replaces command execution
func WithRunner(run func(name string, args ...string) error) Option {
	return func(n *Notifier) { n.run = run }
}

// NewNotifier creates a new notifier
func NewNotifier(opts ...Option) *Notifier {
	n := &Notifier{
		ttl: DefaultTTL,
		now: time.Now,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Success shows a confirmation toast
func (n *Notifier) Success(msg string) {
	n.push(msg, KindSuccess, UrgencyLow)
}

// Error shows an error toast
func (n *Notifier) Error(msg string) {
	n.push(msg, KindError, UrgencyCritical)
}

func (n *Notifier) push(msg string, kind Kind, urgency Urgency) {
	n.mu.Lock()
	n.toast = &Toast{Message: msg, Kind: kind, Expires: n.now().Add(n.ttl)}
	desktop := n.desktop
	n.mu.Unlock()

	if desktop {
		// Best effort; a missing notify-send must not break the UI
		_ = n.Send(Notification{Title: "taskboard", Body: msg, Urgency: urgency, Timeout: n.ttl})
	}
}

// Current returns the live toast, if any
func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.toast == nil || !n.now().Before(n.toast.Expires) {
		n.toast = nil
		return Toast{}, false
	}
	return *n.toast, true
}

// Dismiss clears the current toast
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toast = nil
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	args := []string{}

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// milliseconds
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	args = append(args, "-a", "taskboard", notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}

	return n.run("notify-send", args...)
}
