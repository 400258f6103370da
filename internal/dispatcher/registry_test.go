package dispatcher_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/actionwire/internal/dispatcher"
	"github.com/dshills/actionwire/internal/op"
)

func nop(context.Context, op.Record) error { return nil }

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := dispatcher.NewRegistry()
	registry.RegisterFunc("notification", nop)

	h, ok := registry.Lookup("notification")
	require.True(t, ok)
	assert.NotNil(t, h)

	_, ok = registry.Lookup("missing")
	assert.False(t, ok)
	assert.True(t, registry.Has("notification"))
	assert.False(t, registry.Has("Notification"))
}

func TestRegistryLastWriteWins(t *testing.T) {
	registry := dispatcher.NewRegistry()
	var got string
	registry.RegisterFunc("x", func(context.Context, op.Record) error { got = "first"; return nil })
	registry.RegisterFunc("x", func(context.Context, op.Record) error { got = "second"; return nil })

	h, ok := registry.Lookup("x")
	require.True(t, ok)
	require.NoError(t, h.Handle(context.Background(), op.MustNew("x", nil)))
	assert.Equal(t, "second", got)
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryAcceptsAnyName(t *testing.T) {
	registry := dispatcher.NewRegistry()
	registry.RegisterFunc("", nop)
	registry.RegisterFunc("with space", nop)

	assert.True(t, registry.Has(""))
	assert.Equal(t, []string{"", "with space"}, registry.List())
}

func TestRegistryListSorted(t *testing.T) {
	registry := dispatcher.NewRegistry()
	for _, name := range []string{"dom-html", "alert", "notification"} {
		registry.RegisterFunc(name, nop)
	}
	assert.Equal(t, []string{"alert", "dom-html", "notification"}, registry.List())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := dispatcher.NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.RegisterFunc("shared", nop)
		}()
		go func() {
			defer wg.Done()
			registry.Has("shared")
		}()
	}
	wg.Wait()
	assert.True(t, registry.Has("shared"))
}
