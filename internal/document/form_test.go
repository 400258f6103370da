package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const formMarkup = `<form id="f">
<input name="user" value="ann lee">
<input name="pw" type="password" value="a&amp;b">
<input type="checkbox" name="c1" checked>
<input type="checkbox" name="c2" value="x">
<input type="radio" name="r" value="1">
<input type="radio" name="r" value="2" checked>
<input name="dis" value="1" disabled>
<input type="submit" name="go" value="Go">
<input value="unnamed">
<select name="s"><option value="a">A</option><option selected>B  b</option></select>
<select name="first"><option>x</option><option>y</option></select>
<select name="m" multiple><option value="1" selected>1</option><option value="2">2</option><option value="3" selected>3</option></select>
<textarea name="t">line1
line2</textarea>
<button name="b">x</button>
</form>`

func TestSerializeForm(t *testing.T) {
	d := mustParse(t, formMarkup)

	got := d.MustSelect("#f").Serialize()
	assert.Equal(t, "user=ann+lee&pw=a%26b&c1=on&r=2&s=B+b&first=x&m=1&m=3&t=line1%0D%0Aline2", got)
}

func TestSerializeUsesValueProperty(t *testing.T) {
	d := mustParse(t, `<form id="f"><input id="u" name="user" value="old"></form>`)
	d.MustSelect("#u").SetProp("value", "new")

	assert.Equal(t, "user=new", d.MustSelect("#f").Serialize())
	assert.Equal(t, "user=new", d.MustSelect("#u").Serialize())
}

func TestSerializeEmpty(t *testing.T) {
	d := mustParse(t, `<form id="f"></form><div id="x"></div>`)
	assert.Equal(t, "", d.MustSelect("#f").Serialize())
	assert.Equal(t, "", d.MustSelect("#x").Serialize())
}
