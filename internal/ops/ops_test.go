package ops_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/document"
	"github.com/dshills/actionwire/internal/notify"
	"github.com/dshills/actionwire/internal/op"
	"github.com/dshills/actionwire/internal/ops"
)

type fixture struct {
	doc      *document.Document
	notes    *notify.Recorder
	browser  *document.Browser
	dispatch *dispatcher.Dispatcher
}

func newFixture(t *testing.T, body string) *fixture {
	t.Helper()
	doc, err := document.ParseString("<html><head></head><body>" + body + "</body></html>")
	require.NoError(t, err)

	f := &fixture{
		doc:      doc,
		notes:    notify.NewRecorder(),
		browser:  document.NewBrowser("http://example.com/app/"),
		dispatch: dispatcher.NewWithDefaults(),
	}
	f.dispatch.SetReporter(dispatcher.AlertReporter{Alerter: f.notes})
	ops.RegisterBuiltins(f.dispatch.Registry(), ops.Deps{
		Document:   doc,
		Notifier:   f.notes,
		Navigator:  f.browser,
		Dispatcher: f.dispatch,
	})
	return f
}

func (f *fixture) apply(t *testing.T, raw string) {
	t.Helper()
	batch, err := op.DecodeBatch([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, dispatcher.NewApplier(f.dispatch).ApplyAll(context.Background(), batch))
}

func (f *fixture) html(t *testing.T, selector string) string {
	t.Helper()
	out, err := f.doc.MustSelect(selector).HTML()
	require.NoError(t, err)
	return out
}

func TestRegisterBuiltinsCoversCatalog(t *testing.T) {
	reg := dispatcher.NewRegistry()
	ops.RegisterBuiltins(reg, ops.Deps{})
	var catalog []string
	for k := op.KindNotification; k.IsBuiltin(); k++ {
		catalog = append(catalog, k.TypeName())
	}
	assert.ElementsMatch(t, catalog, reg.List())
}

func TestNotificationAndError(t *testing.T) {
	f := newFixture(t, "")
	f.apply(t, `[
		{"type":"notification","title":"Saved","text":"All good"},
		{"type":"error","message":"boom"}
	]`)

	assert.Equal(t, []notify.Notification{
		{Title: "Saved", Text: "All good"},
		{Title: "Error", Text: "boom", Sticky: true},
	}, f.notes.Notifications())
	assert.Empty(t, f.notes.Alerts())
}

func TestNavigation(t *testing.T) {
	f := newFixture(t, "")
	f.apply(t, `[
		{"type":"refresh-page"},
		{"type":"open-window","url":"help","name":"h","options":"width=10"},
		{"type":"open-page","url":"/next"}
	]`)

	assert.Equal(t, 1, f.browser.Reloads())
	assert.Equal(t, "http://example.com/next", f.browser.Href())
	assert.Equal(t, []document.Window{{URL: "http://example.com/app/help", Name: "h", Options: "width=10"}}, f.browser.Windows())
}

func TestClassOps(t *testing.T) {
	f := newFixture(t, `<p id="p" class="a b">x</p>`)
	f.apply(t, `[
		{"type":"dom-add-class","id":"#p","value":"c"},
		{"type":"dom-remove-class","id":"#p","name":"a"},
		{"type":"dom-toggle-class","id":"#p","value":"b d"}
	]`)
	assert.Equal(t, "c d", f.doc.MustSelect("#p").AttrOr("class", ""))
}

func TestRemoveClassWithoutNameClearsAll(t *testing.T) {
	f := newFixture(t, `<p id="p" class="a b">x</p><p id="q" class="c">y</p><p id="r" class="d">z</p>`)
	f.apply(t, `[
		{"type":"dom-remove-class","id":"#p"},
		{"type":"dom-remove-class","id":"#q","name":null},
		{"type":"dom-remove-class","id":"#r","name":""}
	]`)
	assert.Equal(t, "", f.doc.MustSelect("#p").AttrOr("class", "missing"))
	assert.Equal(t, "", f.doc.MustSelect("#q").AttrOr("class", "missing"))
	assert.Equal(t, "d", f.doc.MustSelect("#r").AttrOr("class", ""))
}

func TestMarkupOps(t *testing.T) {
	f := newFixture(t, `<div id="box"><span id="s">s</span></div><div id="t">old</div><div id="f">old</div>`)
	f.apply(t, `[
		{"type":"dom-after","id":"#s","value":"<i>a</i>"},
		{"type":"dom-before","id":"#s","value":"<b>b</b>"},
		{"type":"dom-append","id":"#box","value":"<em>end</em>"},
		{"type":"dom-prepend","id":"#box","value":"<u>start</u>"},
		{"type":"dom-replace-with","id":"#s","value":"<s>r</s>"},
		{"type":"dom-text","id":"#t","value":"<x>"},
		{"type":"dom-fade","id":"#f","value":"<p>new</p>"}
	]`)

	assert.Equal(t, "<u>start</u><b>b</b><s>r</s><i>a</i><em>end</em>", f.html(t, "#box"))
	assert.Equal(t, "&lt;x&gt;", f.html(t, "#t"))
	assert.Equal(t, "<p>new</p>", f.html(t, "#f"))
	assert.False(t, f.doc.MustSelect("#f").IsHidden())

	f.apply(t, `[{"type":"dom-html","id":"#box","value":"<p>replaced</p>"}]`)
	assert.Equal(t, "<p>replaced</p>", f.html(t, "#box"))
}

func TestAttrCSSPropOps(t *testing.T) {
	f := newFixture(t, `<input id="i" name="n" title="t">`)
	f.apply(t, `[
		{"type":"dom-set-attr","id":"#i","name":"placeholder","value":"type here"},
		{"type":"dom-set-attr","id":"#i","properties":{"data-x":"1","maxlength":5}},
		{"type":"dom-set-attr","id":"#i","name":"title","value":null},
		{"type":"dom-remove-attr","id":"#i","name":"data-x"},
		{"type":"dom-set-css","id":"#i","name":"width","value":120},
		{"type":"dom-set-css","id":"#i","properties":{"opacity":0.5,"color":"red"}},
		{"type":"dom-set-prop","id":"#i","name":"disabled","value":true},
		{"type":"dom-set-prop","id":"#i","properties":{"value":"typed","checked":false}}
	]`)

	i := f.doc.MustSelect("#i")
	assert.Equal(t, "type here", i.AttrOr("placeholder", ""))
	assert.Equal(t, "5", i.AttrOr("maxlength", ""))
	_, ok := i.Attr("title")
	assert.False(t, ok)
	_, ok = i.Attr("data-x")
	assert.False(t, ok)
	assert.Equal(t, "120px", i.CSS("width"))
	assert.Equal(t, "0.5", i.CSS("opacity"))
	assert.Equal(t, "red", i.CSS("color"))
	assert.Equal(t, "disabled", i.AttrOr("disabled", ""))
	v, ok := i.Prop("value")
	assert.True(t, ok)
	assert.Equal(t, "typed", v)

	f.apply(t, `[
		{"type":"dom-remove-prop","id":"#i","name":"disabled"},
		{"type":"dom-remove-prop","id":"#i","name":"value"}
	]`)
	_, ok = i.Attr("disabled")
	assert.False(t, ok)
	_, ok = i.Prop("value")
	assert.False(t, ok)
}

func TestRemovalOps(t *testing.T) {
	f := newFixture(t, `<div id="a">a</div><div id="b">b</div><div id="c"><p>x</p></div>`)
	f.apply(t, `[
		{"type":"dom-detach","id":"#a"},
		{"type":"dom-remove-element","id":"#b"},
		{"type":"dom-make-empty","id":"#c"}
	]`)

	assert.True(t, f.doc.MustSelect("#a").IsEmpty())
	assert.True(t, f.doc.MustSelect("#b").IsEmpty())
	assert.Equal(t, "", f.html(t, "#c"))
}

func TestDimensionOps(t *testing.T) {
	f := newFixture(t, `<div id="d"></div>`)
	f.apply(t, `[
		{"type":"dom-set-height","id":"#d","value":100},
		{"type":"dom-set-width","id":"#d","width":"50%"},
		{"type":"dom-set-scroll-top","id":"#d","value":30},
		{"type":"dom-set-scroll-left","id":"#d","value":"12"},
		{"type":"dom-set-offset","id":"#d","coordinates":{"top":5,"left":6}}
	]`)

	d := f.doc.MustSelect("#d")
	assert.Equal(t, "100px", d.CSS("height"))
	assert.Equal(t, "50%", d.CSS("width"))
	assert.Equal(t, 30.0, d.ScrollTop())
	assert.Equal(t, 12.0, d.ScrollLeft())
	assert.Equal(t, "5px", d.CSS("top"))
	assert.Equal(t, "6px", d.CSS("left"))
}

func TestGeometryOpsSkipAbsentFields(t *testing.T) {
	f := newFixture(t, `<div id="d"></div>`)
	d := f.doc.MustSelect("#d")
	d.SetScrollTop(40).SetScrollLeft(20).SetOffset(7, 8)

	f.apply(t, `[
		{"type":"dom-set-scroll-top","id":"#d"},
		{"type":"dom-set-scroll-left","id":"#d","value":null},
		{"type":"dom-set-offset","id":"#d"},
		{"type":"dom-set-offset","id":"#d","coordinates":{"left":3}}
	]`)

	assert.Equal(t, 40.0, d.ScrollTop())
	assert.Equal(t, 20.0, d.ScrollLeft())
	assert.Equal(t, "7px", d.CSS("top"))
	assert.Equal(t, "3px", d.CSS("left"))
}

func TestMissingTargetIsNoop(t *testing.T) {
	f := newFixture(t, `<p id="p">x</p>`)
	f.apply(t, `[
		{"type":"dom-html","id":"#nope","value":"x"},
		{"type":"dom-add-class","value":"x"}
	]`)
	assert.Equal(t, "x", f.html(t, "#p"))
}

func TestInvalidSelectorFails(t *testing.T) {
	f := newFixture(t, "")
	rec := op.MustNew(op.TypeDomHTML, map[string]any{"id": "div[", "value": "x"})

	err := f.dispatch.Dispatch(context.Background(), rec)
	var serr *document.SelectorError
	assert.ErrorAs(t, err, &serr)
}

func TestMissingCollaborators(t *testing.T) {
	d := dispatcher.NewWithDefaults()
	ops.RegisterBuiltins(d.Registry(), ops.Deps{})
	ctx := context.Background()

	assert.ErrorIs(t, d.Dispatch(ctx, op.MustNew(op.TypeNotification, nil)), ops.ErrNoNotifier)
	assert.ErrorIs(t, d.Dispatch(ctx, op.MustNew(op.TypeRefreshPage, nil)), ops.ErrNoNavigator)
	assert.ErrorIs(t, d.Dispatch(ctx, op.MustNew(op.TypeError, nil)), ops.ErrNoDispatcher)
	assert.ErrorIs(t, d.Dispatch(ctx, op.MustNew(op.TypeDomHTML, nil)), ops.ErrNoDocument)
	assert.ErrorIs(t, d.Dispatch(ctx, op.MustNew(op.TypeModal, nil)), ops.ErrNoDocument)
}
