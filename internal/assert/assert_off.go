//go:build noassert

package assert

// Enabled reports whether assertions are compiled in.
const Enabled = false

// That is a no-op when built with the "noassert" tag.
func That(bool, string, ...any) {}
