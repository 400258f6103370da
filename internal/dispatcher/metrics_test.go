package dispatcher_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/op"
)

func TestMetricsRecordOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := dispatcher.NewMetrics(reg)
	require.NoError(t, err)

	d := dispatcher.New(nil, dispatcher.DefaultConfig().WithPanicRecovery(true))
	d.SetMetrics(m)
	d.Registry().RegisterFunc("ok", nop)
	d.Registry().RegisterFunc("bad", func(context.Context, op.Record) error { return errors.New("x") })
	d.Registry().RegisterFunc("panic", func(context.Context, op.Record) error { panic("p") })

	ctx := context.Background()
	_ = d.Dispatch(ctx, op.MustNew("ok", nil))
	_ = d.Dispatch(ctx, op.MustNew("ok", nil))
	_ = d.Dispatch(ctx, op.MustNew("bad", nil))
	_ = d.Dispatch(ctx, op.MustNew("panic", nil))
	_ = d.Dispatch(ctx, op.MustNew("who-knows", nil))
	require.NoError(t, dispatcher.NewApplier(d).ApplyAll(ctx, batchOf("ok")))

	count, err := testutil.GatherAndCount(reg, "actionwire_dispatch_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	count, err = testutil.GatherAndCount(reg, "actionwire_dispatch_batch_size")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "actionwire_dispatch_handler_panics_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := dispatcher.NewMetrics(reg)
	require.NoError(t, err)
	_, err = dispatcher.NewMetrics(reg)
	assert.Error(t, err)
}
