package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// Console writes notifications and alerts as plain text.
//
// Notifications print as "Title:\nText". Alerts print "Alert: message" and,
// when In is set, wait for a line of input.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	in  *bufio.Reader

	readOnce sync.Once
	lines    chan error
}

// NewConsole writes to out and reads alert acknowledgements from in, which
// may be nil.
func NewConsole(out io.Writer, in io.Reader) *Console {
	c := &Console{out: out}
	if in != nil {
		c.in = bufio.NewReader(in)
		c.lines = make(chan error)
	}
	return c
}

// readLines is the only reader of c.in. Each line read is handed to one
// waiting Alert. The channel is closed at end of input or after a read
// error has been delivered.
func (c *Console) readLines() {
	defer close(c.lines)
	for {
		_, err := c.in.ReadString('\n')
		if err == io.EOF {
			return
		}
		c.lines <- err
		if err != nil {
			return
		}
	}
}

// Notify prints n.
func (c *Console) Notify(_ context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := PlainText(n.Text)
	var err error
	switch {
	case n.Title != "" && text != "":
		_, err = fmt.Fprintf(c.out, "%s:\n%s\n", n.Title, text)
	case n.Title != "":
		_, err = fmt.Fprintf(c.out, "%s\n", n.Title)
	default:
		_, err = fmt.Fprintf(c.out, "%s\n", text)
	}
	return err
}

// Alert prints message and waits for Enter when the console has input.
func (c *Console) Alert(ctx context.Context, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.out, "Alert: %s\n", message); err != nil {
		return err
	}
	if c.in == nil {
		return nil
	}

	c.readOnce.Do(func() { go c.readLines() })
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-c.lines:
		return err
	}
}
