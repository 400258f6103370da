package invoker

import (
	"context"
	"sync"

	"github.com/dshills/actionwire/internal/op"
)

// Call is the pending result of one invocation.
type Call struct {
	id     string
	action string
	done   chan struct{}
	once   sync.Once

	batch op.Batch
	err   error
}

func newCall(id, action string) *Call {
	return &Call{id: id, action: action, done: make(chan struct{})}
}

// ID returns the request id sent as X-Request-Id.
func (c *Call) ID() string {
	return c.id
}

// Action returns the invoked action, including any query.
func (c *Call) Action() string {
	return c.action
}

// Done is closed once the completion has run.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until the call completes or ctx ends. It returns the applied
// batch, and the transport error or the first applier error.
func (c *Call) Wait(ctx context.Context) (op.Batch, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return c.batch, c.err
	}
}

func (c *Call) resolve(batch op.Batch, err error) {
	c.once.Do(func() {
		c.batch = batch
		c.err = err
		close(c.done)
	})
}
