package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/op"
	"github.com/dshills/actionwire/internal/trigger"
)

// Request headers.
const (
	ContentType     = "application/x-www-form-urlencoded; charset=UTF-8"
	Accept          = "application/json"
	HeaderRequestID = "X-Request-Id"
)

// SuccessFunc receives the decoded batch before it is applied.
type SuccessFunc func(batch op.Batch)

// FailureFunc receives the transport error before the error handler.
type FailureFunc func(err error)

// Runner runs completions. eventloop.Loop is a Runner.
type Runner interface {
	Do(ctx context.Context, fn func() error) error
}

// lockRunner runs completions on the transport goroutines, one at a time.
type lockRunner struct {
	mu sync.Mutex
}

func (r *lockRunner) Do(_ context.Context, fn func() error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn()
}

// Invoker sends actions to one endpoint.
type Invoker struct {
	endpoint     string
	client       *http.Client
	applier      *dispatcher.Applier
	runner       Runner
	errorHandler ErrorHandler
	contactURL   string
	affordance   trigger.Affordance
	userAgent    string
	logger       *slog.Logger
	metrics      *Metrics
}

// New creates an invoker posting to endpoint/<action> and applying
// responses with applier. The default error handler dispatches through the
// applier's dispatcher.
func New(endpoint string, applier *dispatcher.Applier, opts ...Option) (*Invoker, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}

	inv := &Invoker{
		endpoint:   strings.TrimRight(endpoint, "/"),
		client:     http.DefaultClient,
		applier:    applier,
		runner:     &lockRunner{},
		contactURL: DefaultContactURL,
		affordance: trigger.Default(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(inv)
	}
	if inv.errorHandler == nil {
		inv.errorHandler = NotifyingErrorHandler{
			Dispatcher: applier.Dispatcher(),
			ContactURL: inv.contactURL,
			Logger:     inv.logger,
		}
	}
	return inv, nil
}

// Endpoint returns the URL actions are posted under.
func (inv *Invoker) Endpoint() string {
	return inv.endpoint
}

// URL returns the request URL for action.
func (inv *Invoker) URL(action string) string {
	return inv.endpoint + "/" + strings.TrimLeft(action, "/")
}

// Invoke marks trig busy and posts action with data. It returns at once;
// onSuccess and the batch application, or onFailure and the error handler,
// run when the response arrives. Both callbacks may be nil. The trigger is
// not reset.
func (inv *Invoker) Invoke(ctx context.Context, trig document.Selection, action string, data Data, onSuccess SuccessFunc, onFailure FailureFunc) *Call {
	call := newCall(uuid.NewString(), action)
	inv.affordance.MarkBusy(trig)

	body := ""
	if data != nil {
		body = data.Encode()
	}
	logger := inv.logger.With("request_id", call.ID(), "action", action)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inv.URL(action), strings.NewReader(body))
	if err != nil {
		terr := &TransportError{StatusText: StatusError, Description: err.Error(), Err: err}
		go inv.complete(ctx, call, logger, time.Now(), nil, terr, onSuccess, onFailure)
		return call
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("Accept", Accept)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set(HeaderRequestID, call.ID())
	if inv.userAgent != "" {
		req.Header.Set("User-Agent", inv.userAgent)
	}

	logger.DebugContext(ctx, "invoke", "url", req.URL.String(), "bytes", len(body))
	start := time.Now()
	go func() {
		batch, terr := inv.send(req)
		inv.complete(ctx, call, logger, start, batch, terr, onSuccess, onFailure)
	}()
	return call
}

// InvokeButton invokes action with button as the trigger and resets the
// button when the response arrives, whatever the outcome.
func (inv *Invoker) InvokeButton(ctx context.Context, button document.Selection, action string, data Data) *Call {
	reset := func() { inv.affordance.MarkIdle(button) }
	return inv.Invoke(ctx, button, action, data,
		func(op.Batch) { reset() },
		func(error) { reset() },
	)
}

// InvokeForm posts the serialized form to action?query. Every button in
// the form is busy until the response arrives.
func (inv *Invoker) InvokeForm(ctx context.Context, form document.Selection, action, query string) *Call {
	buttons, err := form.Find("button")
	if err != nil {
		buttons = document.Selection{}
	}
	if query != "" {
		action += "?" + query
	}
	reset := func() { inv.affordance.MarkIdle(buttons) }
	return inv.Invoke(ctx, buttons, action, Raw(form.Serialize()),
		func(op.Batch) { reset() },
		func(error) { reset() },
	)
}

// send performs the request and decodes the response.
func (inv *Invoker) send(req *http.Request) (op.Batch, *TransportError) {
	resp, err := inv.client.Do(req)
	if err != nil {
		return nil, classify(req.Context(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := classify(req.Context(), err)
		terr.Status = resp.StatusCode
		return nil, terr
	}

	switch {
	case resp.StatusCode == http.StatusNoContent, resp.StatusCode == http.StatusNotModified:
		return op.Batch{}, nil
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &TransportError{
			Status:      resp.StatusCode,
			StatusText:  StatusError,
			Description: reason(resp),
		}
	}

	batch, err := op.DecodeBatch(body)
	if err != nil {
		return nil, &TransportError{
			Status:      resp.StatusCode,
			StatusText:  StatusParseError,
			Description: err.Error(),
			Err:         err,
		}
	}
	return batch, nil
}

// complete runs the callbacks and applies the batch on the runner.
func (inv *Invoker) complete(ctx context.Context, call *Call, logger *slog.Logger, start time.Time, batch op.Batch, terr *TransportError, onSuccess SuccessFunc, onFailure FailureFunc) {
	// The request context ends with the request; completion work still has
	// to run.
	ctx = context.WithoutCancel(ctx)
	elapsed := time.Since(start)

	finish := func() error {
		if terr != nil {
			logger.WarnContext(ctx, "action failed", "status", terr.Status, "status_text", terr.StatusText, "error", terr.Description)
			inv.record(call.Action(), terr.StatusText, elapsed)
			if onFailure != nil {
				onFailure(terr)
			}
			inv.errorHandler.HandleError(ctx, terr)
			call.resolve(nil, terr)
			return nil
		}

		logger.DebugContext(ctx, "action succeeded", "operations", len(batch), "elapsed", elapsed)
		if onSuccess != nil {
			onSuccess(batch)
		}
		err := inv.applier.ApplyAll(ctx, batch)
		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeApplyError
			logger.ErrorContext(ctx, "apply response", "error", err)
		}
		inv.record(call.Action(), outcome, elapsed)
		call.resolve(batch, err)
		return nil
	}

	if err := inv.runner.Do(ctx, finish); err != nil {
		logger.ErrorContext(ctx, "run completion", "error", err)
		call.resolve(nil, err)
	}
}

func (inv *Invoker) record(action, outcome string, elapsed time.Duration) {
	if inv.metrics != nil {
		inv.metrics.RecordRequest(action, outcome, elapsed)
	}
}

// classify maps a transport error onto a failure category.
func classify(ctx context.Context, err error) *TransportError {
	terr := &TransportError{StatusText: StatusError, Description: err.Error(), Err: err}

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		terr.StatusText, terr.Description = StatusAbort, StatusAbort
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		terr.StatusText, terr.Description = StatusTimeout, StatusTimeout
	}
	return terr
}

// reason returns the reason phrase of resp.
func reason(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
