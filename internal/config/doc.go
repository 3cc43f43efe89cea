// Package config loads, normalizes, and validates astcbridge configuration.
//
// It supplies defaults matching the encode parameters the bridge was built
// around (8x8 blocks, medium quality, four channels, eight threads), expands
// user paths, reads TOML files, and honours the ASTCENC_BINARY environment
// fallback for the exec binding.
package config
