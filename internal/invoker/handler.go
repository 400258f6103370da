package invoker

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/dshills/actionwire/internal/op"
)

// DefaultContactURL is the contact link in error notifications.
const DefaultContactURL = "/contact"

// ErrorHandler is told about every failed invocation after the caller's
// failure callback.
type ErrorHandler interface {
	HandleError(ctx context.Context, err error)
}

// ErrorHandlerFunc adapts a function to the ErrorHandler interface.
type ErrorHandlerFunc func(ctx context.Context, err error)

// HandleError calls f(ctx, err).
func (f ErrorHandlerFunc) HandleError(ctx context.Context, err error) {
	f(ctx, err)
}

// Dispatcher applies a single record.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec op.Record) error
}

// NotifyingErrorHandler reports failures by dispatching a sticky
// notification record.
type NotifyingErrorHandler struct {
	Dispatcher Dispatcher
	ContactURL string
	Logger     *slog.Logger
}

// HandleError dispatches {type:"notification", title:"Error", text, sticky}.
func (h NotifyingErrorHandler) HandleError(ctx context.Context, err error) {
	logger := h.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rec, rerr := ErrorRecord(err, h.ContactURL)
	if rerr != nil {
		logger.ErrorContext(ctx, "build error notification", "error", rerr)
		return
	}
	if h.Dispatcher == nil {
		return
	}
	if derr := h.Dispatcher.Dispatch(ctx, rec); derr != nil {
		logger.ErrorContext(ctx, "dispatch error notification", "error", derr)
	}
}

// ErrorRecord builds the notification record describing err.
func ErrorRecord(err error, contactURL string) (op.Record, error) {
	statusText, description := StatusError, ""
	var terr *TransportError
	if errors.As(err, &terr) {
		statusText, description = terr.StatusText, terr.Description
	} else if err != nil {
		description = err.Error()
	}
	return op.New(op.TypeNotification, map[string]any{
		"title":  "Error",
		"text":   ErrorMessage(statusText, description, contactURL),
		"sticky": true,
	})
}

// ErrorMessage is the markup shown for a failed request.
func ErrorMessage(statusText, description, contactURL string) string {
	if contactURL == "" {
		contactURL = DefaultContactURL
	}
	return "<p>The server has returned an unexpected response: <b>" + html.EscapeString(statusText) + "</b>, " +
		html.EscapeString(description) + ". \n" +
		"Please try performing this action again later and if the problem persists, " +
		`<a href="` + html.EscapeString(contactURL) + `">contact</a> us.</p>`
}
