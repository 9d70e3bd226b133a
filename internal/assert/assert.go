//go:build !noassert

// Package assert provides development-time invariant checks. They panic by
// default and compile to nothing with the "noassert" build tag.
package assert

import "fmt"

// Enabled reports whether assertions are compiled in.
const Enabled = true

// That panics with the formatted message when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		panic("assertion failed: " + fmt.Sprintf(format, args...))
	}
}
