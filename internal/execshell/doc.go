// Package execshell wraps external git invocations behind a typed executor
// that records command lifecycle events through structured logging and
// converts process failures into inspectable error values.
package execshell
