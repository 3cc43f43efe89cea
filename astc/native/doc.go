// Package native binds the blocking, CPU-bound ASTC encode entry point that lives
// outside the Go runtime.
//
// Two bindings are provided. Library calls the prebuilt encoder's exported
// Encode function through CGO; it is only available when building with:
//
//	-tags astcenc_native
//
// and CGO enabled (e.g. `CGO_ENABLED=1`), linking against libastcenc. In every
// other build NewLibrary returns an error naming the missing build tag. CLI
// runs the upstream astcenc command-line tool and needs neither CGO nor the tag.
//
// Both hand back a Result whose Buffer is owned by the caller and must be
// released exactly once after its bytes have been copied elsewhere.
package native
