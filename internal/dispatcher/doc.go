// Package dispatcher routes operation records to their handlers.
//
// The dispatcher is the hub between a decoded response payload and the code
// that applies each operation to the live document. It has three parts:
//
//  1. Registry: maps an exact operation type name to a Handler. Registration
//     is last-write-wins and there is no removal. Lookup is a map access.
//
//  2. Dispatcher: applies a single record. The record's type is looked up in
//     the registry; the handler receives the record as its only argument and
//     its error is returned unchanged. A type with no handler is not an
//     error: it is described as an Unknown and handed to the UnknownReporter,
//     which by default raises a blocking alert naming the type.
//
//  3. Applier: applies a Batch in order. What happens after a handler fails
//     is the FailurePolicy: PolicyAbort stops at the first failure,
//     PolicyContinue attempts every record and joins the failures.
//
// # Usage
//
//	registry := dispatcher.NewRegistry()
//	registry.RegisterFunc("notification", func(ctx context.Context, rec op.Record) error {
//	    return notifier.Notify(ctx, notify.Notification{Title: rec.String("title")})
//	})
//
//	d := dispatcher.New(registry, dispatcher.DefaultConfig())
//	d.SetReporter(dispatcher.AlertReporter{Alerter: alerter})
//
//	applier := dispatcher.NewApplier(d)
//	err := applier.ApplyAll(ctx, batch)
//
// # Handlers
//
// Handlers are trusted collaborators. The dispatcher does not sandbox them:
// a returned error propagates to the caller, and a panic propagates too
// unless Config.RecoverFromPanic is set, in which case it becomes a
// *PanicError.
//
// Registration is expected to finish during program composition, before any
// dispatch. The registry is still safe for concurrent use.
package dispatcher
