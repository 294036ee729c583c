// Package shader holds the two per-sample stages used to put a packed
// bitmap on screen: a position stage that passes full-viewport geometry
// through untouched, and a fragment stage that turns a window coordinate
// into a black or white pixel.
//
// Both stages are pure functions. They read their inputs and return a
// value, so any number of them may run at once over the same Uniforms.
package shader

import (
	"errors"
	"image/color"

	"chip8screen/chip8/bitmap"
)

type Vec3 [3]float32

type Vec4 [4]float32

var (
	Black = color.RGBA{0x00, 0x00, 0x00, 0xff}
	White = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

var errNoBitmap = errors.New("shader: no bitmap bound")

// Uniforms are the inputs shared by every invocation of a draw call. The
// bitmap must not change while a draw call is using it.
type Uniforms struct {
	Scale  Scale
	Bitmap *bitmap.Bitmap
}

// Validate checks what the decode stage assumes and never checks itself.
func (u Uniforms) Validate() error {
	if err := u.Scale.Validate(); err != nil {
		return err
	}
	if u.Bitmap == nil {
		return errNoBitmap
	}
	if err := u.Bitmap.Geometry.Validate(); err != nil {
		return err
	}
	if len(u.Bitmap.Words) != u.Bitmap.Geometry.Words() {
		return errors.New("shader: bitmap storage does not match its geometry")
	}
	return nil
}

// Position is the vertex stage. The input is already in normalized device
// coordinates and is returned with w = 1.
func Position(v Vec3) Vec4 {
	return Vec4{v[0], v[1], v[2], 1}
}

// Decode is the fragment stage. x and y are window coordinates with the
// origin at the top-left corner, normally the centre of the pixel being
// shaded.
func Decode(x, y float32, u Uniforms) color.RGBA {
	if Lit(int(x), int(y), u) {
		return White
	}
	return Black
}

// Lit reports whether physical pixel (px, py) falls inside a lit logical
// pixel. px must be below Width*Scale and py below Height*Scale. Any Scale
// is divided exactly, including ones that do not fit an int on 32-bit
// platforms.
func Lit(px, py int, u Uniforms) bool {
	s := int64(u.Scale)
	lx := int(int64(px) / s)
	ly := int(int64(py) / s)

	word, bit := u.Bitmap.Locate(lx, ly)
	word = checkWordIndex(word, len(u.Bitmap.Words))

	return (u.Bitmap.Words[word]>>bit)&1 != 0
}
