package sprite

import (
	"image/color"
)

// PaletteSize is the number of colour slots. Slot 0 is transparent.
const PaletteSize = 16

// Palette maps sheet indices to colours.
type Palette [PaletteSize]color.RGBA

// Overrides replaces palette slots with 0xRRGGBB colours.
type Overrides map[int]uint32

// Palette override sets.
var (
	UndergroundBrick = Overrides{7: 0x000033, 10: 0x000060, 11: 0x006066, 12: 0x000055, 13: 0x000044}
	UndergroundRock  = Overrides{7: 0x000033, 10: 0x006077, 11: 0x006066, 12: 0x000055, 13: 0x000044}
	PipeBlue         = Overrides{14: 0x000066, 15: 0x000011}
	PipeGrey         = Overrides{14: 0x111111, 15: 0x080808}
)

var defaultPalette = [PaletteSize]uint32{
	0x000000, // transparent
	0x000000,
	0xb81000, // cap and shirt
	0xfca044, // skin
	0x6b3a00, // hair and boots
	0x2038ec, // overalls
	0xfcfcfc,
	0x200800, // mortar
	0xa04000, // walker
	0x3a1800,
	0xc84c0c, // brick
	0xfcbcb0,
	0x883000,
	0x501800,
	0x00a800, // pipe
	0x005000,
}

// DefaultPalette returns the daytime palette.
func DefaultPalette() Palette {
	var p Palette
	for i, rgb := range defaultPalette {
		p[i] = RGB(rgb)
	}
	p[0].A = 0
	return p
}

// With returns a copy of p with the overrides applied. Out-of-range slots
// and slot 0 are ignored.
func (p Palette) With(o Overrides) Palette {
	for idx, rgb := range o {
		if idx <= 0 || idx >= PaletteSize {
			continue
		}
		p[idx] = RGB(rgb)
	}
	return p
}

// RGB converts 0xRRGGBB to an opaque colour.
func RGB(rgb uint32) color.RGBA {
	return color.RGBA{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: 0xff,
	}
}
