//go:build !debug

package shader

import (
	"testing"

	"chip8screen/chip8/bitmap"

	"github.com/stretchr/testify/assert"
)

func TestOutOfRangeClamps(t *testing.T) {
	bm := bitmap.New(bitmap.Default)
	bm.Words[63] = 1
	bm.Words[0] = 1 << 31
	u := Uniforms{Scale: 1, Bitmap: bm}

	// below the bitmap: clamped onto the last word
	assert.NotPanics(t, func() { Decode(63.5, 40.5, u) })
	assert.Equal(t, White, Decode(63.5, 40.5, u))

	// above the bitmap: clamped onto the first word
	assert.NotPanics(t, func() { Decode(0.5, -40, u) })
	assert.Equal(t, White, Decode(0.5, -40, u))
}
