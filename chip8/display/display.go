package display

import (
	"chip8screen/chip8/bitmap"
)

const (
	DisplayWidth  int = bitmap.DisplayWidth
	DisplayHeight int = bitmap.DisplayHeight
)

type Drawer interface {
	Draw(pixels *bitmap.Bitmap) error
}

type Display struct {
	pixels *bitmap.Bitmap
	drawer Drawer
}

// NewDisplay returns a blank display. drawer is told about every change and
// may be nil.
func NewDisplay(drawer Drawer) *Display {
	return &Display{
		pixels: bitmap.New(bitmap.Default),
		drawer: drawer,
	}
}

// Bitmap returns the live bitmap. It changes on every draw.
func (d *Display) Bitmap() *bitmap.Bitmap {
	return d.pixels
}

func (d *Display) Clear() error {
	d.pixels.Clear()

	return d.draw()
}

// DrawSprite XORs an 8 pixel wide sprite onto the display with its top-left
// corner at (x, y). The sprite is clipped at the right and bottom edges. The
// returned flag is 1 if any lit pixel was turned off.
func (d *Display) DrawSprite(x, y uint8, sprite []uint8) (uint8, error) {
	vf := d.xor(x, y, sprite)

	return vf, d.draw()
}

// DrawGlyph draws the built-in font glyph for the low nibble of digit.
func (d *Display) DrawGlyph(x, y, digit uint8) (uint8, error) {
	return d.DrawSprite(x, y, glyph(digit))
}

// xor changes the bitmap without telling the drawer.
func (d *Display) xor(x, y uint8, sprite []uint8) uint8 {
	startX := int(x)
	startY := int(y)

	vf := uint8(0)

	for row := range sprite {
		if startY+row >= DisplayHeight {
			break
		}

		for col := 0; col < 8; col++ {
			if startX+col >= DisplayWidth {
				break
			}

			if (sprite[row]>>(7-col))&1 == 0 {
				continue
			}

			if d.pixels.Toggle(startX+col, startY+row) {
				vf = 1
			}
		}
	}

	return vf
}

func (d *Display) draw() error {
	if d.drawer == nil {
		return nil
	}
	return d.drawer.Draw(d.pixels)
}
