package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T) (tcell.SimulationScreen, *Screen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(100, 30)
	s := NewScreenWith(sim)
	t.Cleanup(s.Close)
	return sim, s
}

func contents(sim tcell.SimulationScreen) string {
	cells, width, _ := sim.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func TestScreenNotify(t *testing.T) {
	sim, s := newSimScreen(t)

	require.NoError(t, s.Notify(context.Background(), Notification{Title: "Saved", Text: "<p>All <b>good</b></p>"}))
	screen := contents(sim)
	assert.Contains(t, screen, "Saved")
	assert.Contains(t, screen, "All good")
}

func TestScreenExpiresTransient(t *testing.T) {
	_, s := newSimScreen(t)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }
	s.SetTTL(time.Second)

	ctx := context.Background()
	require.NoError(t, s.Notify(ctx, Notification{Title: "transient"}))
	require.NoError(t, s.Notify(ctx, Notification{Title: "Error", Sticky: true}))
	assert.Len(t, s.Visible(), 2)

	now = now.Add(2 * time.Second)
	assert.Equal(t, []Notification{{Title: "Error", Sticky: true}}, s.Visible())
}

func TestScreenAlertDismissedByKey(t *testing.T) {
	sim, s := newSimScreen(t)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- s.Alert(context.Background(), `No function "x" defined!`) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("alert was not dismissed")
	}
}

func TestScreenAlertCancelled(t *testing.T) {
	_, s := newSimScreen(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Alert(ctx, "never dismissed"), context.Canceled)
}
