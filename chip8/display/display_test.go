package display

import (
	"errors"
	"testing"

	"chip8screen/chip8/bitmap"
	"chip8screen/chip8/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	frames []*bitmap.Bitmap
	err    error
}

func (r *recorder) Draw(pixels *bitmap.Bitmap) error {
	r.frames = append(r.frames, pixels.Clone())
	return r.err
}

func TestDrawSprite(t *testing.T) {
	r := &recorder{}
	d := NewDisplay(r)

	vf, err := d.DrawSprite(2, 3, []uint8{0x81, 0x3C})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), vf)

	b := d.Bitmap()
	assert.True(t, b.Lit(2, 3))
	assert.True(t, b.Lit(9, 3))
	assert.False(t, b.Lit(3, 3))
	for x := 4; x < 8; x++ {
		assert.True(t, b.Lit(x, 4))
	}

	require.Len(t, r.frames, 1)
	assert.True(t, r.frames[0].Equal(b))
}

func TestDrawSpriteCollision(t *testing.T) {
	d := NewDisplay(nil)

	_, err := d.DrawSprite(0, 0, []uint8{0xF0})
	require.NoError(t, err)

	vf, err := d.DrawSprite(0, 0, []uint8{0x18})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), vf)

	assert.True(t, d.Bitmap().Lit(2, 0))
	assert.False(t, d.Bitmap().Lit(3, 0))
	assert.True(t, d.Bitmap().Lit(4, 0))

	vf, err = d.DrawSprite(0, 0, []uint8{0xE8})
	require.NoError(t, err)
	assert.Equal(t, uint8(1), vf)
	assert.True(t, d.Bitmap().Equal(bitmap.New(bitmap.Default)))
}

func TestDrawSpriteClipped(t *testing.T) {
	d := NewDisplay(nil)

	_, err := d.DrawSprite(60, 30, []uint8{0xFF, 0xFF, 0xFF, 0xFF})
	require.NoError(t, err)

	b := d.Bitmap()
	for y := 30; y < 32; y++ {
		for x := 60; x < 64; x++ {
			assert.True(t, b.Lit(x, y), "(%d,%d)", x, y)
		}
	}

	// nothing wraps around to the left or top
	for x := 0; x < 4; x++ {
		assert.False(t, b.Lit(x, 30))
		assert.False(t, b.Lit(x, 0))
	}
	assert.False(t, b.Lit(60, 0))
}

func TestDrawSpriteAcrossWordBoundary(t *testing.T) {
	d := NewDisplay(nil)

	_, err := d.DrawSprite(28, 0, []uint8{0xFF})
	require.NoError(t, err)

	assert.Equal(t, uint32(0x0000000F), d.Bitmap().Words[0])
	assert.Equal(t, uint32(0xF0000000), d.Bitmap().Words[1])
}

func TestClear(t *testing.T) {
	r := &recorder{}
	d := NewDisplay(r)

	_, err := d.DrawSprite(0, 0, []uint8{0xFF})
	require.NoError(t, err)
	require.NoError(t, d.Clear())

	assert.True(t, d.Bitmap().Equal(bitmap.New(bitmap.Default)))
	require.Len(t, r.frames, 2)
	assert.True(t, r.frames[1].Equal(bitmap.New(bitmap.Default)))
}

func TestDrawerError(t *testing.T) {
	failed := errors.New("no surface")
	d := NewDisplay(&recorder{err: failed})

	_, err := d.DrawSprite(0, 0, []uint8{0x80})
	assert.ErrorIs(t, err, failed)
	assert.ErrorIs(t, d.Clear(), failed)
}

func TestDrawGlyph(t *testing.T) {
	d := NewDisplay(nil)

	_, err := d.DrawGlyph(0, 0, 0x1)
	require.NoError(t, err)
	assert.Equal(t, "..#.\n.##.\n..#.\n..#.\n.###\n", crop(d.Bitmap(), 4, 5))

	require.NoError(t, d.Clear())
	_, err = d.DrawGlyph(0, 0, 0x1C)
	require.NoError(t, err)
	assert.Equal(t, "####\n#...\n#...\n#...\n####\n", crop(d.Bitmap(), 4, 5))
}

func TestPublishesToFrameBuffer(t *testing.T) {
	buf := frame.NewBuffer(bitmap.Default)
	d := NewDisplay(buf)

	_, err := d.DrawGlyph(8, 8, 0xA)
	require.NoError(t, err)

	snap := buf.Snapshot()
	assert.Equal(t, uint64(1), snap.Generation)
	assert.True(t, snap.Bitmap.Equal(d.Bitmap()))
	assert.NotSame(t, d.Bitmap(), snap.Bitmap)
}

func TestXorDoesNotNotify(t *testing.T) {
	r := &recorder{err: errors.New("must not be called")}
	d := NewDisplay(r)

	assert.Equal(t, uint8(0), d.xor(0, 0, glyph(0x8)))
	assert.Equal(t, uint8(1), d.xor(0, 0, glyph(0x0)))
	assert.Empty(t, r.frames)

	// 8 XOR 0 leaves only the middle bar of the 8
	assert.Equal(t, "....\n....\n.##.\n....\n....\n", crop(d.Bitmap(), 4, 5))
}

func TestTestPattern(t *testing.T) {
	glyphs := []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xF0, 0x20, 0xF0, 0xF0, 0x90, 0xF0, 0xF0, 0xF0,
		0x90, 0x60, 0x10, 0x10, 0x90, 0x80, 0x80, 0x10,
		0x90, 0x20, 0xF0, 0xF0, 0xF0, 0xF0, 0xF0, 0x20,
		0x90, 0x20, 0x80, 0x10, 0x10, 0x10, 0x90, 0x40,
		0xF0, 0x70, 0xF0, 0xF0, 0x10, 0xF0, 0xF0, 0x40,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0xF0, 0xF0, 0xF0, 0xE0, 0xF0, 0xE0, 0xF0, 0xF0,
		0x90, 0x90, 0x90, 0x90, 0x80, 0x90, 0x80, 0x80,
		0xF0, 0xF0, 0xF0, 0xE0, 0x80, 0x90, 0xF0, 0xF0,
		0x90, 0x10, 0x90, 0x90, 0x80, 0x90, 0x80, 0x80,
		0xF0, 0xF0, 0x90, 0xE0, 0xF0, 0xE0, 0xF0, 0x80,
	}
	even := []byte{0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55}
	odd := []byte{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA}

	var want []byte
	want = append(want, glyphs...)
	want = append(want, glyphs...)
	want = append(want, make([]byte, 8)...)
	for i := 0; i < 7; i++ {
		if i%2 == 0 {
			want = append(want, even...)
		} else {
			want = append(want, odd...)
		}
	}
	require.Len(t, want, 256)

	assert.Equal(t, want, TestPattern().Bytes())
	assert.NotSame(t, TestPattern(), TestPattern())
}

func crop(b *bitmap.Bitmap, w, h int) string {
	s := ""
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if b.Lit(x, y) {
				s += "#"
			} else {
				s += "."
			}
		}
		s += "\n"
	}
	return s
}
