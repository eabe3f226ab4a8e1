package overlay

import (
	"image"

	"golang.org/x/image/font/basicfont"
)

const (
	glyphWidth   = 3
	glyphHeight  = 5
	glyphAdvance = 4
	firstGlyph   = ' '
	lastGlyph    = 'Z'
)

// glyphRows holds each glyph as five rows of three pixels. Runes without an
// entry render blank.
var glyphRows = map[rune][glyphHeight]string{
	'!': {".#.", ".#.", ".#.", "...", ".#."},
	'+': {"...", ".#.", "###", ".#.", "..."},
	'-': {"...", "...", "###", "...", "..."},
	'.': {"...", "...", "...", "...", ".#."},
	'/': {"..#", "..#", ".#.", "#..", "#.."},
	'0': {"###", "#.#", "#.#", "#.#", "###"},
	'1': {".#.", "##.", ".#.", ".#.", "###"},
	'2': {"###", "..#", "###", "#..", "###"},
	'3': {"###", "..#", "###", "..#", "###"},
	'4': {"#.#", "#.#", "###", "..#", "..#"},
	'5': {"###", "#..", "###", "..#", "###"},
	'6': {"###", "#..", "###", "#.#", "###"},
	'7': {"###", "..#", "..#", ".#.", ".#."},
	'8': {"###", "#.#", "###", "#.#", "###"},
	'9': {"###", "#.#", "###", "..#", "###"},
	':': {"...", ".#.", "...", ".#.", "..."},
	'?': {"###", "..#", ".##", "...", ".#."},
	'A': {".#.", "#.#", "###", "#.#", "#.#"},
	'B': {"##.", "#.#", "##.", "#.#", "##."},
	'C': {".##", "#..", "#..", "#..", ".##"},
	'D': {"##.", "#.#", "#.#", "#.#", "##."},
	'E': {"###", "#..", "##.", "#..", "###"},
	'F': {"###", "#..", "##.", "#..", "#.."},
	'G': {".##", "#..", "#.#", "#.#", ".##"},
	'H': {"#.#", "#.#", "###", "#.#", "#.#"},
	'I': {"###", ".#.", ".#.", ".#.", "###"},
	'J': {"..#", "..#", "..#", "#.#", ".#."},
	'K': {"#.#", "#.#", "##.", "#.#", "#.#"},
	'L': {"#..", "#..", "#..", "#..", "###"},
	'M': {"#.#", "###", "###", "#.#", "#.#"},
	'N': {"##.", "#.#", "#.#", "#.#", "#.#"},
	'O': {".#.", "#.#", "#.#", "#.#", ".#."},
	'P': {"##.", "#.#", "##.", "#..", "#.."},
	'Q': {".#.", "#.#", "#.#", "##.", ".##"},
	'R': {"##.", "#.#", "##.", "#.#", "#.#"},
	'S': {".##", "#..", ".#.", "..#", "##."},
	'T': {"###", ".#.", ".#.", ".#.", ".#."},
	'U': {"#.#", "#.#", "#.#", "#.#", "###"},
	'V': {"#.#", "#.#", "#.#", "#.#", ".#."},
	'W': {"#.#", "#.#", "###", "###", "#.#"},
	'X': {"#.#", "#.#", ".#.", "#.#", "#.#"},
	'Y': {"#.#", "#.#", ".#.", ".#.", ".#."},
	'Z': {"###", "..#", ".#.", "#..", "###"},
}

// Tiny is a 3x5 pixel face covering space through 'Z'; 'a' through 'z'
// map onto the uppercase glyphs.
var Tiny = newTinyFace()

func newTinyFace() *basicfont.Face {
	count := int(lastGlyph-firstGlyph) + 1
	mask := image.NewAlpha(image.Rect(0, 0, glyphWidth, glyphHeight*count))

	for r := firstGlyph; r <= lastGlyph; r++ {
		rows, ok := glyphRows[r]
		if !ok {
			continue
		}
		top := int(r-firstGlyph) * glyphHeight
		for y, row := range rows {
			for x, c := range row {
				if c == '#' {
					mask.Pix[mask.PixOffset(x, top+y)] = 0xff
				}
			}
		}
	}

	return &basicfont.Face{
		Advance: glyphAdvance,
		Width:   glyphWidth,
		Height:  glyphHeight + 1,
		Ascent:  glyphHeight,
		Descent: 0,
		Mask:    mask,
		Ranges: []basicfont.Range{
			{Low: firstGlyph, High: lastGlyph + 1, Offset: 0},
			{Low: 'a', High: 'z' + 1, Offset: int('A' - firstGlyph)},
		},
	}
}
