// Package logging builds the slog loggers used as the bridge's observability sink.
//
// New produces a console handler for humans (coloured only on terminals) or a
// JSON handler for machines. Library packages accept a *slog.Logger and fall
// back to Nop, so nothing is printed unless a caller opts in.
package logging
