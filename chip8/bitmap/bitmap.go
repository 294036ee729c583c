// Package bitmap implements the packed monochrome framebuffer of a CHIP-8
// style display.
//
// Pixels are stored one bit each, row by row, in 32-bit words. A row that is
// wider than a word is split across consecutive words, and within a word the
// most significant bit holds the leftmost pixel.
package bitmap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	DisplayWidth  int = 64
	DisplayHeight int = 32
	WordBits      int = 32
)

var (
	errBadGeometry = errors.New("bitmap: invalid geometry")
	errWordSize    = errors.New("bitmap: byte conversion needs 32-bit words")
	errLength      = errors.New("bitmap: wrong framebuffer length")
)

// Geometry describes the logical size of a display and how its rows are
// packed into words.
type Geometry struct {
	Width       int
	Height      int
	BitsPerWord int
}

// Default is the 64x32 display packed two words per row.
var Default = Geometry{
	Width:       DisplayWidth,
	Height:      DisplayHeight,
	BitsPerWord: WordBits,
}

func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", errBadGeometry, g.Width, g.Height)
	}
	if g.BitsPerWord <= 0 || g.BitsPerWord > WordBits {
		return fmt.Errorf("%w: %d bits per word", errBadGeometry, g.BitsPerWord)
	}
	return nil
}

// WordsPerRow is the number of words needed to hold one row.
func (g Geometry) WordsPerRow() int {
	return (g.Width + g.BitsPerWord - 1) / g.BitsPerWord
}

// Words is the total number of words in a bitmap of this geometry.
func (g Geometry) Words() int {
	return g.WordsPerRow() * g.Height
}

// Locate returns the word index and bit position holding logical pixel
// (lx, ly). The coordinates are not checked.
func (g Geometry) Locate(lx, ly int) (int, uint) {
	word := lx/g.BitsPerWord + g.WordsPerRow()*ly
	bit := uint(g.BitsPerWord - 1 - lx%g.BitsPerWord)
	return word, bit
}

func (g Geometry) contains(lx, ly int) bool {
	return lx >= 0 && lx < g.Width && ly >= 0 && ly < g.Height
}

type Bitmap struct {
	Geometry
	Words []uint32
}

// New returns a blank bitmap. It panics if the geometry is invalid.
func New(g Geometry) *Bitmap {
	if err := g.Validate(); err != nil {
		panic(err)
	}
	return &Bitmap{
		Geometry: g,
		Words:    make([]uint32, g.Words()),
	}
}

// FromBytes builds a bitmap from a row-major, MSB-first byte framebuffer.
// Each group of four bytes is read as one big-endian word, which makes the
// first byte of a group the leftmost eight pixels.
func FromBytes(g Geometry, b []byte) (*Bitmap, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.BitsPerWord != WordBits {
		return nil, errWordSize
	}
	if len(b) != g.Words()*4 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", errLength, len(b), g.Words()*4)
	}

	bm := New(g)
	for i := range bm.Words {
		bm.Words[i] = binary.BigEndian.Uint32(b[i*4 : i*4+4])
	}
	return bm, nil
}

// Bytes is the inverse of FromBytes.
func (b *Bitmap) Bytes() []byte {
	out := make([]byte, len(b.Words)*4)
	for i, w := range b.Words {
		binary.BigEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// Lit reports whether logical pixel (lx, ly) is on. Pixels outside the
// display are never lit.
func (b *Bitmap) Lit(lx, ly int) bool {
	if !b.contains(lx, ly) {
		return false
	}
	word, bit := b.Locate(lx, ly)
	return (b.Words[word]>>bit)&1 != 0
}

// Set turns logical pixel (lx, ly) on or off. Pixels outside the display are
// ignored.
func (b *Bitmap) Set(lx, ly int, on bool) {
	if !b.contains(lx, ly) {
		return
	}
	word, bit := b.Locate(lx, ly)
	if on {
		b.Words[word] |= 1 << bit
	} else {
		b.Words[word] &^= 1 << bit
	}
}

// Toggle flips logical pixel (lx, ly) and returns whether it was lit before.
func (b *Bitmap) Toggle(lx, ly int) bool {
	if !b.contains(lx, ly) {
		return false
	}
	word, bit := b.Locate(lx, ly)
	was := (b.Words[word]>>bit)&1 != 0
	b.Words[word] ^= 1 << bit
	return was
}

func (b *Bitmap) Clear() {
	clear(b.Words)
}

func (b *Bitmap) Clone() *Bitmap {
	c := &Bitmap{
		Geometry: b.Geometry,
		Words:    make([]uint32, len(b.Words)),
	}
	copy(c.Words, b.Words)
	return c
}

func (b *Bitmap) Equal(o *Bitmap) bool {
	if o == nil || b.Geometry != o.Geometry || len(b.Words) != len(o.Words) {
		return false
	}
	for i := range b.Words {
		if b.Words[i] != o.Words[i] {
			return false
		}
	}
	return true
}

// String draws the bitmap with '#' for lit pixels and '.' for unlit ones.
func (b *Bitmap) String() string {
	var s strings.Builder
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.Lit(x, y) {
				s.WriteByte('#')
			} else {
				s.WriteByte('.')
			}
		}
		s.WriteByte('\n')
	}
	return s.String()
}
