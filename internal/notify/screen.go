package notify

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// DefaultTTL is how long a non-sticky notification stays on screen.
const DefaultTTL = 5 * time.Second

// boxWidth is the width of a notification box, borders included.
const boxWidth = 44

type shown struct {
	n       Notification
	expires time.Time // zero for sticky
}

// Screen shows notifications as boxes stacked down the right edge of a
// terminal and alerts as a centered dialog dismissed by any key.
type Screen struct {
	mu     sync.Mutex
	screen tcell.Screen
	items  []shown
	ttl    time.Duration
	now    func() time.Time
}

// NewScreen initializes the terminal.
func NewScreen() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return NewScreenWith(screen), nil
}

// NewScreenWith uses an initialized tcell screen.
func NewScreenWith(screen tcell.Screen) *Screen {
	return &Screen{
		screen: screen,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
}

// SetTTL sets the lifetime of non-sticky notifications.
func (s *Screen) SetTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ttl = ttl
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Fini()
}

// Notify adds n to the stack and redraws.
func (s *Screen) Notify(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := shown{n: n}
	if !n.Sticky {
		item.expires = s.now().Add(s.ttl)
	}
	s.items = append(s.items, item)
	s.draw()
	return nil
}

// Visible returns the notifications currently on screen.
func (s *Screen) Visible() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expire()

	out := make([]Notification, len(s.items))
	for i, item := range s.items {
		out[i] = item.n
	}
	return out
}

// Alert draws a dialog and blocks until a key is pressed or ctx ends.
func (s *Screen) Alert(ctx context.Context, message string) error {
	s.mu.Lock()
	s.draw()
	s.drawDialog(message)
	s.screen.Show()
	s.mu.Unlock()

	keys := make(chan struct{})
	go func() {
		defer close(keys)
		for {
			switch s.screen.PollEvent().(type) {
			case nil, *tcell.EventKey, *tcell.EventInterrupt:
				return
			case *tcell.EventResize:
				s.screen.Sync()
			}
		}
	}()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
		_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
		<-keys
	case <-keys:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draw()
	return err
}

func (s *Screen) expire() {
	now := s.now()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.expires.IsZero() || now.Before(item.expires) {
			kept = append(kept, item)
		}
	}
	s.items = kept
}

// draw repaints the notification stack. Callers hold s.mu.
func (s *Screen) draw() {
	s.expire()
	s.screen.Clear()

	width, height := s.screen.Size()
	x := max(width-boxWidth, 0)
	y := 0
	for i := len(s.items) - 1; i >= 0 && y < height; i-- {
		y = s.drawBox(x, y, s.items[i].n) + 1
	}
	s.screen.Show()
}

func (s *Screen) drawBox(x, y int, n Notification) int {
	inner := boxWidth - 4
	title := tcell.StyleDefault.Bold(true)
	if n.Sticky {
		title = title.Foreground(tcell.ColorRed)
	}

	lines := wrap(PlainText(n.Text), inner)
	s.border(x, y, boxWidth, len(lines)+3)
	s.text(x+2, y+1, truncate(n.Title, inner), title)
	for i, line := range lines {
		s.text(x+2, y+2+i, line, tcell.StyleDefault)
	}
	return y + len(lines) + 3
}

func (s *Screen) drawDialog(message string) {
	width, height := s.screen.Size()
	w := min(max(width-4, 10), 60)
	lines := wrap(message, w-4)
	h := len(lines) + 4
	x := max((width-w)/2, 0)
	y := max((height-h)/2, 0)

	s.fill(x, y, w, h)
	s.border(x, y, w, h)
	for i, line := range lines {
		s.text(x+2, y+1+i, line, tcell.StyleDefault.Bold(true))
	}
	s.text(x+2, y+h-2, "[ Press any key ]", tcell.StyleDefault.Dim(true))
}

func (s *Screen) text(x, y int, str string, style tcell.Style) {
	for _, r := range str {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (s *Screen) fill(x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			s.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
}

func (s *Screen) border(x, y, w, h int) {
	style := tcell.StyleDefault
	for col := x + 1; col < x+w-1; col++ {
		s.screen.SetContent(col, y, tcell.RuneHLine, nil, style)
		s.screen.SetContent(col, y+h-1, tcell.RuneHLine, nil, style)
	}
	for row := y + 1; row < y+h-1; row++ {
		s.screen.SetContent(x, row, tcell.RuneVLine, nil, style)
		s.screen.SetContent(x+w-1, row, tcell.RuneVLine, nil, style)
	}
	s.screen.SetContent(x, y, tcell.RuneULCorner, nil, style)
	s.screen.SetContent(x+w-1, y, tcell.RuneURCorner, nil, style)
	s.screen.SetContent(x, y+h-1, tcell.RuneLLCorner, nil, style)
	s.screen.SetContent(x+w-1, y+h-1, tcell.RuneLRCorner, nil, style)
}

// wrap breaks text into lines of at most width runes.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var cur []rune
		for _, word := range strings.Fields(para) {
			w := []rune(word)
			switch {
			case len(cur) == 0:
				cur = w
			case len(cur)+1+len(w) <= width:
				cur = append(append(cur, ' '), w...)
			default:
				lines = append(lines, string(cur))
				cur = w
			}
			for len(cur) > width {
				lines = append(lines, string(cur[:width]))
				cur = cur[width:]
			}
		}
		if len(cur) > 0 {
			lines = append(lines, string(cur))
		}
	}
	return lines
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
