// Package bridge runs blocking native ASTC encodes on a worker pool and hands
// each result back to the waiting caller exactly once.
//
// A Dispatcher turns a Request into a PendingEncode without blocking. One
// worker runs one encode for it, and the PendingEncode resolves to exactly one
// Outcome: a native.Result whose buffer the caller now owns, or an error from
// the taxonomy in errors.go. Callers wait with Await, which parks only the
// calling goroutine. In-flight encodes cannot be cancelled; cancelling the
// Await context abandons the wait, and the buffer is released on the caller's
// behalf when the encode finishes.
package bridge
