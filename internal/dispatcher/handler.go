package dispatcher

import (
	"context"

	"github.com/dshills/actionwire/internal/op"
)

// Handler applies one operation record.
type Handler interface {
	Handle(ctx context.Context, rec op.Record) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, rec op.Record) error

// Handle calls f(ctx, rec).
func (f HandlerFunc) Handle(ctx context.Context, rec op.Record) error {
	return f(ctx, rec)
}
