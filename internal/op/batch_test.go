package op_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/actionwire/internal/op"
)

func TestDecodeBatchArray(t *testing.T) {
	batch, err := op.DecodeBatch([]byte(` [{"type":"a"},{"type":"b","n":2},{"type":"c"}] `))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, batch.Types())
	assert.Equal(t, int64(2), batch[1].Get("n").Int())
}

func TestDecodeBatchEmpty(t *testing.T) {
	batch, err := op.DecodeBatch([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, batch)

	batch, err = op.DecodeBatch([]byte(`null`))
	require.NoError(t, err)
	assert.NotNil(t, batch)
	assert.Empty(t, batch)
}

func TestDecodeBatchNumericKeys(t *testing.T) {
	batch, err := op.DecodeBatch([]byte(`{"10":{"type":"k"},"2":{"type":"c"},"0":{"type":"a"},"1":{"type":"b"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "k"}, batch.Types())
}

func TestDecodeBatchObjectDocumentOrder(t *testing.T) {
	batch, err := op.DecodeBatch([]byte(`{"second":{"type":"b"},"first":{"type":"a"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, batch.Types())
}

func TestDecodeBatchMixedKeys(t *testing.T) {
	batch, err := op.DecodeBatch([]byte(`{"x":{"type":"x"},"1":{"type":"one"},"y":{"type":"y"},"0":{"type":"zero"},"01":{"type":"padded"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zero", "one", "x", "y", "padded"}, batch.Types())
}

func TestDecodeBatchErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"empty", "   ", op.ErrNotBatch},
		{"invalid", `[{"type":"a"`, op.ErrNotBatch},
		{"scalar", `42`, op.ErrNotBatch},
		{"string", `"hello"`, op.ErrNotBatch},
		{"element not object", `[{"type":"a"}, 5]`, op.ErrNotObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := op.DecodeBatch([]byte(tt.body))
			assert.Nil(t, batch)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecodeBatchUntypedElements(t *testing.T) {
	batch, err := op.DecodeBatch([]byte(`[{"type":"a"},{"kind":"oops"},{"type":3},{"type":"b"}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "", "", "b"}, batch.Types())
	assert.Equal(t, "oops", batch[1].String("kind"))

	batch, err = op.DecodeBatch([]byte(`{"0":{"id":"x"},"1":{"type":"b"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"", "b"}, batch.Types())
}

func TestDecodeBatchRecordErrorIndex(t *testing.T) {
	_, err := op.DecodeBatch([]byte(`[{"type":"a"},{"type":"b"},5]`))
	var recErr *op.RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, 2, recErr.Index)
	assert.Contains(t, recErr.Error(), "record 2")

	_, err = op.DecodeBatch([]byte(`{"0":{"type":"a"},"1":[]}`))
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "1", recErr.Key)
}
