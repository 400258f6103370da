package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, body string) *Document {
	t.Helper()
	d, err := ParseString("<!DOCTYPE html><html><head></head><body>" + body + "</body></html>")
	require.NoError(t, err)
	return d
}

func innerHTML(t *testing.T, d *Document, selector string) string {
	t.Helper()
	out, err := d.MustSelect(selector).HTML()
	require.NoError(t, err)
	return out
}

func TestSelect(t *testing.T) {
	d := mustParse(t, `<ul><li class="a">one</li><li>two</li><li class="a">three</li></ul>`)

	sel, err := d.Select("li.a")
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Len())
	assert.Equal(t, "onethree", sel.Text())
	assert.Equal(t, "three", sel.Eq(1).Text())
	assert.True(t, sel.Eq(5).IsEmpty())

	none, err := d.Select("#missing")
	require.NoError(t, err)
	assert.True(t, none.IsEmpty())
	none.AddClass("x").SetAttr("a", "b").Remove()
}

func TestSelectInvalid(t *testing.T) {
	d := Empty()
	_, err := d.Select("div[")
	var serr *SelectorError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "div[", serr.Selector)
}

func TestEmptyDocument(t *testing.T) {
	d := Empty()
	assert.Equal(t, 1, d.Body().Len())
	assert.Equal(t, EmptyPage, d.String())
}

func TestClasses(t *testing.T) {
	d := mustParse(t, `<p id="p" class="a b">x</p>`)
	p := d.MustSelect("#p")

	p.AddClass("b c")
	assert.Equal(t, "a b c", p.AttrOr("class", ""))

	p.RemoveClass("a  c")
	assert.Equal(t, "b", p.AttrOr("class", ""))

	p.ToggleClass("b d")
	assert.Equal(t, "d", p.AttrOr("class", ""))
	assert.True(t, p.HasClass("d"))
	assert.False(t, p.HasClass("b"))
}

func TestAttributes(t *testing.T) {
	d := mustParse(t, `<a id="l" href="/x">x</a>`)
	l := d.MustSelect("#l")

	l.SetAttr("Title", "hello").SetAttr("href", "/y")
	v, ok := l.Attr("title")
	assert.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.Equal(t, "/y", l.AttrOr("href", ""))

	l.RemoveAttr("href")
	_, ok = l.Attr("href")
	assert.False(t, ok)
}

func TestCSS(t *testing.T) {
	d := mustParse(t, `<div id="d" style="color: red">x</div>`)
	el := d.MustSelect("#d")

	el.SetCSS("backgroundColor", "blue")
	assert.Equal(t, "blue", el.CSS("background-color"))
	assert.Equal(t, "color: red; background-color: blue;", el.AttrOr("style", ""))

	el.SetCSS("color", "green")
	assert.Equal(t, "green", el.CSS("color"))

	el.SetCSS("color", "").SetCSS("background-color", "")
	_, ok := el.Attr("style")
	assert.False(t, ok)
}

func TestProps(t *testing.T) {
	d := mustParse(t, `<input id="i" name="n"><input id="j" name="m" checked>`)
	i := d.MustSelect("#i")

	i.SetProp("disabled", true)
	assert.Equal(t, "disabled", i.AttrOr("disabled", ""))
	v, ok := i.Prop("disabled")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	i.SetProp("disabled", "")
	_, ok = i.Attr("disabled")
	assert.False(t, ok)

	i.SetProp("custom", 42.0)
	v, ok = i.Prop("custom")
	assert.True(t, ok)
	assert.Equal(t, 42.0, v)
	_, has := i.Attr("custom")
	assert.False(t, has)

	i.RemoveProp("custom")
	_, ok = i.Prop("custom")
	assert.False(t, ok)

	d.MustSelect("#j").RemoveProp("checked")
	_, ok = d.MustSelect("#j").Attr("checked")
	assert.False(t, ok)
}

func TestDetachKeepsPropsRemoveDrops(t *testing.T) {
	d := mustParse(t, `<div id="a">a</div><div id="b">b</div>`)
	a := d.MustSelect("#a").SetProp("state", "kept")
	b := d.MustSelect("#b").SetProp("state", "gone")

	detached := a.Detach()
	assert.False(t, detached.IsAttached())
	assert.True(t, d.MustSelect("#a").IsEmpty())
	v, ok := detached.Prop("state")
	assert.True(t, ok)
	assert.Equal(t, "kept", v)

	b.Remove()
	assert.True(t, d.MustSelect("#b").IsEmpty())
	_, ok = b.Prop("state")
	assert.False(t, ok)
}

func TestInsertion(t *testing.T) {
	d := mustParse(t, `<div id="p"><span id="a">A</span></div>`)
	a := d.MustSelect("#a")

	require.NoError(t, a.After(`<i>after</i>`))
	require.NoError(t, a.Before(`<b>before</b>`))
	require.NoError(t, a.Append(`<em>app</em>`))
	require.NoError(t, a.Prepend(`<u>pre</u>`))
	assert.Equal(t, `<b>before</b><span id="a"><u>pre</u>A<em>app</em></span><i>after</i>`, innerHTML(t, d, "#p"))

	require.NoError(t, a.ReplaceWith(`<s>one</s><s>two</s>`))
	assert.Equal(t, `<b>before</b><s>one</s><s>two</s><i>after</i>`, innerHTML(t, d, "#p"))
	assert.True(t, d.MustSelect("#a").IsEmpty())
}

func TestInsertionUsesParentContext(t *testing.T) {
	d := mustParse(t, `<table><tbody id="tb"><tr id="r1"><td>1</td></tr></tbody></table>`)

	require.NoError(t, d.MustSelect("#tb").Append(`<tr id="r3"><td>3</td></tr>`))
	require.NoError(t, d.MustSelect("#r1").After(`<tr id="r2"><td>2</td></tr>`))

	rows := d.MustSelect("#tb tr")
	require.Equal(t, 3, rows.Len())
	assert.Equal(t, "r2", rows.Eq(1).AttrOr("id", ""))
	assert.Equal(t, "r3", rows.Eq(2).AttrOr("id", ""))
}

func TestContentReplacement(t *testing.T) {
	d := mustParse(t, `<div id="d"><p>old</p></div>`)
	el := d.MustSelect("#d")

	require.NoError(t, el.SetHTML(`<b>new</b> text`))
	assert.Equal(t, `<b>new</b> text`, innerHTML(t, d, "#d"))

	el.SetText("<script>x</script>")
	assert.Equal(t, `&lt;script&gt;x&lt;/script&gt;`, innerHTML(t, d, "#d"))
	assert.Equal(t, "<script>x</script>", el.Text())

	el.Empty()
	assert.Equal(t, "", innerHTML(t, d, "#d"))
}

func TestFade(t *testing.T) {
	d := mustParse(t, `<div id="d" style="display: none">old</div>`)
	el := d.MustSelect("#d")
	assert.True(t, el.IsHidden())

	require.NoError(t, el.Fade("<p>new</p>"))
	assert.False(t, el.IsHidden())
	assert.Equal(t, "<p>new</p>", innerHTML(t, d, "#d"))
}

func TestDimensions(t *testing.T) {
	d := mustParse(t, `<div id="d">x</div>`)
	el := d.MustSelect("#d")

	el.SetHeight("120").SetWidth("50%")
	assert.Equal(t, "120px", el.CSS("height"))
	assert.Equal(t, "50%", el.CSS("width"))

	el.SetHeight("12.5")
	assert.Equal(t, "12.5px", el.CSS("height"))

	el.SetScrollTop(40).SetScrollLeft(-3)
	assert.Equal(t, 40.0, el.ScrollTop())
	assert.Equal(t, 0.0, el.ScrollLeft())

	el.SetOffset(10, 20)
	assert.Equal(t, "relative", el.CSS("position"))
	assert.Equal(t, "10px", el.CSS("top"))
	assert.Equal(t, "20px", el.CSS("left"))

	el.SetCSS("position", "absolute").SetOffset(1, 2)
	assert.Equal(t, "absolute", el.CSS("position"))
}

func TestTraversal(t *testing.T) {
	d := mustParse(t, `<ul id="tabs"><li class="active"><a id="t1" href="#p1">1</a></li><li><a id="t2" href="#p2">2</a></li><li>3</li></ul>`)

	li, err := d.MustSelect("#t2").Closest("li")
	require.NoError(t, err)
	assert.Equal(t, 1, li.Len())
	assert.Equal(t, "2", li.Text())

	assert.Equal(t, 2, li.Siblings().Len())
	assert.Equal(t, "tabs", li.Parent().AttrOr("id", ""))
	assert.Equal(t, 3, d.MustSelect("#tabs").Children().Len())

	links, err := d.MustSelect("#tabs").Find("a")
	require.NoError(t, err)
	assert.Equal(t, 2, links.Len())
	assert.True(t, links.Is("#t1"))
	assert.False(t, links.Is("li"))

	var ids []string
	links.Each(func(_ int, el Selection) { ids = append(ids, el.AttrOr("id", "")) })
	assert.Equal(t, []string{"t1", "t2"}, ids)
}

func TestCreateElementAppendTo(t *testing.T) {
	d := Empty()
	el := d.CreateElement("DIV").AddClass("modal")
	assert.False(t, el.IsAttached())

	el.AppendTo(d.Body())
	assert.True(t, el.IsAttached())
	assert.Equal(t, `<div class="modal"></div>`, innerHTML(t, d, "body"))
	assert.Equal(t, 1, d.MustSelect("body > div.modal").Len())
}
