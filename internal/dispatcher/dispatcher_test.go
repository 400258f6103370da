package dispatcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/op"
)

type recordingAlerter struct {
	messages []string
}

func (a *recordingAlerter) Alert(_ context.Context, message string) error {
	a.messages = append(a.messages, message)
	return nil
}

func TestNewWithDefaults(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	require.NotNil(t, d)
	assert.NotNil(t, d.Registry())
	assert.Nil(t, d.Metrics())
	assert.Equal(t, dispatcher.PolicyAbort, d.Config().FailurePolicy)
}

func TestDispatchPassesRecord(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	var got op.Record
	d.Registry().RegisterFunc("notification", func(_ context.Context, rec op.Record) error {
		got = rec
		return nil
	})

	rec := op.MustNew("notification", map[string]any{"title": "Saved"})
	require.NoError(t, d.Dispatch(context.Background(), rec))
	assert.Equal(t, rec.Raw(), got.Raw())
	assert.Equal(t, "Saved", got.String("title"))
}

func TestDispatchUnknownAlerts(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	alerter := &recordingAlerter{}
	d.SetReporter(dispatcher.AlertReporter{Alerter: alerter})

	err := d.Dispatch(context.Background(), op.MustNew("frobnicate", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{`No function "frobnicate" defined!`}, alerter.messages)
}

func TestDispatchUntypedRecordAlerts(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	alerter := &recordingAlerter{}
	d.SetReporter(dispatcher.AlertReporter{Alerter: alerter})
	called := false
	d.Registry().RegisterFunc("", func(context.Context, op.Record) error {
		called = true
		return nil
	})

	batch, err := op.DecodeBatch([]byte(`[{"kind":"oops"}]`))
	require.NoError(t, err)
	require.NoError(t, d.Dispatch(context.Background(), batch[0]))
	assert.False(t, called)
	assert.Equal(t, []string{`No function "undefined" defined!`}, alerter.messages)
}

func TestDispatchUnknownWithoutReporter(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	assert.NoError(t, d.Dispatch(context.Background(), op.MustNew("frobnicate", nil)))
}

func TestDispatchReporterErrorNotPropagated(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.SetReporter(dispatcher.UnknownReporterFunc(func(context.Context, dispatcher.Unknown) error {
		return errors.New("alert failed")
	}))
	assert.NoError(t, d.Dispatch(context.Background(), op.MustNew("frobnicate", nil)))
}

func TestDispatchPropagatesHandlerError(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	boom := errors.New("boom")
	d.Registry().RegisterFunc("x", func(context.Context, op.Record) error { return boom })

	err := d.Dispatch(context.Background(), op.MustNew("x", nil))
	assert.Same(t, boom, err)
}

func TestDispatchNilHandler(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.Registry().Register("x", nil)

	err := d.Dispatch(context.Background(), op.MustNew("x", nil))
	assert.ErrorIs(t, err, dispatcher.ErrNilHandler)
}

func TestDispatchPanicWithoutRecovery(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	d.Registry().RegisterFunc("x", func(context.Context, op.Record) error { panic("kaboom") })

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = d.Dispatch(context.Background(), op.MustNew("x", nil))
	})
}

func TestDispatchPanicRecovery(t *testing.T) {
	d := dispatcher.New(nil, dispatcher.DefaultConfig().WithPanicRecovery(true))
	d.Registry().RegisterFunc("x", func(context.Context, op.Record) error { panic("kaboom") })

	err := d.Dispatch(context.Background(), op.MustNew("x", nil))
	var perr *dispatcher.PanicError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "x", perr.Type)
	assert.Equal(t, "kaboom", perr.Value)
	assert.NotEmpty(t, perr.Stack)
}

func TestDispatchValidation(t *testing.T) {
	v, err := op.NewValidator()
	require.NoError(t, err)

	d := dispatcher.New(nil, dispatcher.DefaultConfig().WithValidation(true))
	d.SetValidator(v)
	called := false
	d.Registry().RegisterFunc("open-page", func(context.Context, op.Record) error {
		called = true
		return nil
	})

	err = d.Dispatch(context.Background(), op.MustNew("open-page", nil))
	var verr *op.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.False(t, called)

	require.NoError(t, d.Dispatch(context.Background(), op.MustNew("open-page", map[string]any{"url": "/x"})))
	assert.True(t, called)
}

func TestParseFailurePolicy(t *testing.T) {
	p, err := dispatcher.ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, dispatcher.PolicyAbort, p)

	p, err = dispatcher.ParseFailurePolicy(" Continue ")
	require.NoError(t, err)
	assert.Equal(t, dispatcher.PolicyContinue, p)
	assert.Equal(t, "continue", p.String())

	_, err = dispatcher.ParseFailurePolicy("retry")
	assert.ErrorIs(t, err, dispatcher.ErrUnknownPolicy)
}
