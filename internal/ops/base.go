package ops

import (
	"context"

	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
)

// notification {title, text, sticky?}
func (h *handlers) notification(ctx context.Context, rec op.Record) error {
	if h.Notifier == nil {
		return ErrNoNotifier
	}
	return h.Notifier.Notify(ctx, notify.Notification{
		Title:  rec.String("title"),
		Text:   rec.String("text"),
		Sticky: rec.Get("sticky").Bool(),
	})
}

// refresh-page {}
func (h *handlers) refreshPage(_ context.Context, _ op.Record) error {
	if h.Navigator == nil {
		return ErrNoNavigator
	}
	return h.Navigator.Reload()
}

// open-page {url}
func (h *handlers) openPage(_ context.Context, rec op.Record) error {
	if h.Navigator == nil {
		return ErrNoNavigator
	}
	return h.Navigator.Navigate(rec.String("url"))
}

// open-window {url, name, options}
func (h *handlers) openWindow(_ context.Context, rec op.Record) error {
	if h.Navigator == nil {
		return ErrNoNavigator
	}
	return h.Navigator.OpenWindow(rec.String("url"), rec.String("name"), rec.String("options"))
}

// error {message} is shown as a sticky notification titled "Error".
func (h *handlers) reportError(ctx context.Context, rec op.Record) error {
	if h.Dispatcher == nil {
		return ErrNoDispatcher
	}
	n, err := ErrorNotification(rec.String("message"))
	if err != nil {
		return err
	}
	return h.Dispatcher.Dispatch(ctx, n)
}

// ErrorNotification builds the sticky notification record used to report
// an error message.
func ErrorNotification(message string) (op.Record, error) {
	return op.New(op.TypeNotification, map[string]any{
		"title":  "Error",
		"text":   message,
		"sticky": true,
	})
}
