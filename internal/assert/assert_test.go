//go:build !noassert

package assert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThat(t *testing.T) {
	assert.NotPanics(t, func() { That(true, "never") })
	assert.PanicsWithValue(t, "assertion failed: wrote 3 of 4", func() {
		That(false, "wrote %d of %d", 3, 4)
	})
}
