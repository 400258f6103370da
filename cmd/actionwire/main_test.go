package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/actionwire/internal/invoker"
)

func TestRequestData(t *testing.T) {
	data, err := requestData("", []string{"id=7", "name=a b", "id=8", "empty="})
	require.NoError(t, err)
	assert.Equal(t, "empty=&id=7&id=8&name=a+b", data.Encode())

	data, err = requestData("x=1&y=2", nil)
	require.NoError(t, err)
	assert.Equal(t, invoker.Raw("x=1&y=2"), data)

	_, err = requestData("x=1", []string{"a=b"})
	assert.Error(t, err)
	_, err = requestData("", []string{"novalue"})
	assert.Error(t, err)
	_, err = requestData("", []string{"=v"})
	assert.Error(t, err)
}

func TestDescribeType(t *testing.T) {
	assert.Equal(t, "dom-html\tbuilt-in", describeType("dom-html", "", false))
	assert.Equal(t, "notification\tbuilt-in, overridden by a.lua", describeType("notification", "a.lua", true))
	assert.Equal(t, "flash\tb.lua", describeType("flash", "b.lua", true))
	assert.Equal(t, "other", describeType("other", "", false))
}

func TestCommandLayout(t *testing.T) {
	cmd := newCommand()
	var names []string
	for _, sub := range cmd.Commands {
		names = append(names, sub.Name)
	}
	assert.Equal(t, []string{"invoke", "apply", "ops"}, names)
}
