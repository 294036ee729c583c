//go:build debug

package shader

import (
	"testing"

	"chip8screen/chip8/bitmap"

	"github.com/stretchr/testify/assert"
)

func TestOutOfRangePanics(t *testing.T) {
	u := Uniforms{Scale: 1, Bitmap: bitmap.New(bitmap.Default)}
	assert.Panics(t, func() { Decode(63.5, 40.5, u) })
	assert.NotPanics(t, func() { Decode(63.5, 31.5, u) })
}
