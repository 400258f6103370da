package trigger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/trigger"
)

func page(t *testing.T) *document.Document {
	t.Helper()
	d, err := document.ParseString(`<html><body>
<button id="save" class="btn">Save <i>now</i></button>
<button id="custom" data-loading-text="Saving...">Go</button>
<input id="submit" type="submit" value="Send">
</body></html>`)
	require.NoError(t, err)
	return d
}

func TestMarkBusyLoadingStyle(t *testing.T) {
	d := page(t)
	btn := d.MustSelect("#save")

	trigger.MarkBusy(btn)
	assert.True(t, trigger.IsBusy(btn))
	assert.True(t, btn.HasClass("disabled"))
	assert.Equal(t, "Loading...", btn.Text())

	trigger.MarkIdle(btn)
	assert.False(t, trigger.IsBusy(btn))
	assert.False(t, btn.HasClass("disabled"))
	assert.True(t, btn.HasClass("btn"))
	markup, err := btn.HTML()
	require.NoError(t, err)
	assert.Equal(t, "Save <i>now</i>", markup)
	_, saved := btn.Attr("data-reset-text")
	assert.False(t, saved)
}

func TestMarkBusyIsIdempotent(t *testing.T) {
	d := page(t)
	btn := d.MustSelect("#save")

	trigger.MarkBusy(btn)
	once, err := d.MustSelect("body").HTML()
	require.NoError(t, err)

	trigger.MarkBusy(btn)
	twice, err := d.MustSelect("body").HTML()
	require.NoError(t, err)
	assert.Equal(t, once, twice)

	trigger.MarkIdle(btn)
	trigger.MarkIdle(btn)
	assert.Equal(t, "Save now", btn.Text())
}

func TestDataLoadingTextAndInputs(t *testing.T) {
	d := page(t)

	custom := d.MustSelect("#custom")
	trigger.MarkBusy(custom)
	assert.Equal(t, "Saving...", custom.Text())
	trigger.MarkIdle(custom)
	assert.Equal(t, "Go", custom.Text())

	input := d.MustSelect("#submit")
	trigger.MarkBusy(input)
	assert.Equal(t, "Loading...", input.AttrOr("value", ""))
	trigger.MarkIdle(input)
	assert.Equal(t, "Send", input.AttrOr("value", ""))
}

func TestPlainStyle(t *testing.T) {
	d := page(t)
	a := trigger.Affordance{Style: trigger.StylePlain}
	btn := d.MustSelect("#save")

	a.MarkBusy(btn)
	assert.Equal(t, "disabled", btn.AttrOr("disabled", ""))
	assert.False(t, btn.HasClass("disabled"))
	assert.Equal(t, "Save now", btn.Text())

	a.MarkIdle(btn)
	assert.False(t, trigger.IsBusy(btn))
}

func TestMultipleAndEmptySelections(t *testing.T) {
	d := page(t)
	buttons := d.MustSelect("button")

	trigger.MarkBusy(buttons)
	buttons.Each(func(_ int, el document.Selection) {
		assert.True(t, trigger.IsBusy(el))
	})
	trigger.MarkIdle(buttons)
	assert.False(t, trigger.IsBusy(buttons))

	empty := d.MustSelect("#nothing")
	trigger.MarkBusy(empty)
	trigger.MarkIdle(empty)
}

func TestParseStyle(t *testing.T) {
	assert.Equal(t, trigger.StylePlain, trigger.ParseStyle("plain"))
	assert.Equal(t, trigger.StyleLoading, trigger.ParseStyle("loading"))
	assert.Equal(t, "plain", trigger.StylePlain.String())
}
