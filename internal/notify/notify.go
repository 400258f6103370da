// Package notify is the user-visible channel: transient or sticky
// notifications and blocking alerts.
package notify

import (
	"context"
	"sync"
)

// Notification is a message shown to the user. Text may contain markup.
type Notification struct {
	Title  string
	Text   string
	Sticky bool
}

// Notifier shows notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Alerter shows a blocking message and returns once it is dismissed.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

// Recorder keeps every notification and alert in memory.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
	alerts        []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify records n.
func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

// Alert records message.
func (r *Recorder) Alert(_ context.Context, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
	return nil
}

// Notifications returns the recorded notifications.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Alerts returns the recorded alert messages.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
	r.alerts = nil
}
