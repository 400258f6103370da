// Package invoker sends action requests and applies their responses.
//
// An invocation marks its trigger busy, POSTs the action to the server and
// returns a Call at once. When the response arrives the completion runs on
// the event loop: the caller's success callback, then every operation of
// the response batch in order. On any transport failure the caller's
// failure callback runs, then the process-wide ErrorHandler, which by
// default turns the failure into a sticky notification.
//
//	inv, err := invoker.New("http://localhost:3000/a", applier,
//	    invoker.WithLoop(loop),
//	    invoker.WithLogger(logger),
//	)
//	call := inv.InvokeButton(ctx, button, "save", invoker.Map{"id": "7"})
//	batch, err := call.Wait(ctx)
//
// There is no retry, queueing or deduplication. Concurrent invocations are
// independent and complete in any order.
package invoker
