package display

import "chip8screen/chip8/bitmap"

const glyphHeight = 5

var fontSet = [16 * glyphHeight]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, //0
	0x20, 0x60, 0x20, 0x20, 0x70, //1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, //2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, //3
	0x90, 0x90, 0xF0, 0x10, 0x10, //4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, //5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, //6
	0xF0, 0x10, 0x20, 0x40, 0x40, //7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, //8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, //9
	0xF0, 0x90, 0xF0, 0x90, 0x90, //A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, //B
	0xF0, 0x80, 0x80, 0x80, 0xF0, //C
	0xE0, 0x90, 0x90, 0x90, 0xE0, //D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, //E
	0xF0, 0x80, 0xF0, 0x80, 0x80, //F
}

func glyph(digit uint8) []uint8 {
	i := int(digit&0xF) * glyphHeight
	return fontSet[i : i+glyphHeight]
}

// TestPattern returns a frame useful for checking a display by eye: the hex
// digits 0-F twice over, eight to a line, followed by a checkerboard.
func TestPattern() *bitmap.Bitmap {
	d := NewDisplay(nil)

	for i := 0; i < 32; i++ {
		x := uint8(i%8) * 8
		y := 1 + uint8(i/8)*(glyphHeight+1)
		d.xor(x, y, glyph(uint8(i)))
	}

	for y := 25; y < DisplayHeight; y++ {
		row := []uint8{0x55}
		if (y-25)%2 == 1 {
			row[0] = 0xAA
		}
		for x := 0; x < DisplayWidth; x += 8 {
			d.xor(uint8(x), uint8(y), row)
		}
	}

	return d.Bitmap()
}
