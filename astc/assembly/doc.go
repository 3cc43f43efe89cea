// Package assembly turns resolved encodes into texture resources.
//
// A Pipeline waits for a bridge.PendingEncode, checks the encoded payload
// against the target image, copies it into memory owned by the Go runtime,
// hands the copy to a Consumer, and releases the native buffer on every path.
// Failures are terminal; nothing is retried.
package assembly
