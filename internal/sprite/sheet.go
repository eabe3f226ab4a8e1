package sprite

import (
	"bufio"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// TileSize is the edge length of a square tile in pixels.
const TileSize = 16

// Tile identifies a tile on the sheet.
type Tile int

// Sheet tiles. Left-facing hero tiles are mirrored from their right-facing
// counterparts.
const (
	HeroRightStill Tile = 0
	HeroRightJump  Tile = 1
	HeroRightWalk  Tile = 2 // 2, 3, 4
	HeroLeftStill  Tile = 5
	HeroLeftJump   Tile = 6
	HeroLeftWalk   Tile = 7 // 7, 8, 9
	Brick          Tile = 10
	Rock           Tile = 11
	Pipe           Tile = 12
	WalkerStill    Tile = 15
	WalkerWalk     Tile = 16 // 16, 17
	Ship           Tile = 18
)

// HeroWalkFrames and WalkerWalkFrames are the walk cycle lengths.
const (
	HeroWalkFrames   = 3
	WalkerWalkFrames = 2
)

//go:embed sheet.txt
var sheetData string

type indexed [TileSize][TileSize]uint8

// Sheet is a parsed sprite sheet.
type Sheet struct {
	tiles map[Tile]*indexed
}

// Load parses the embedded sheet.
func Load() (*Sheet, error) {
	return Parse(sheetData)
}

// Parse reads a sheet in the embedded text format.
func Parse(data string) (*Sheet, error) {
	s := &Sheet{tiles: make(map[Tile]*indexed)}

	var (
		cur  *indexed
		id   Tile
		row  int
		line int
	)

	finish := func() error {
		if cur != nil && row != TileSize {
			return fmt.Errorf("%w: tile %d has %d rows", ErrInvalidSheet, id, row)
		}
		return nil
	}

	sc := bufio.NewScanner(strings.NewReader(data))
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		if strings.HasPrefix(text, "@") {
			if err := finish(); err != nil {
				return nil, err
			}
			num, _, _ := strings.Cut(text[1:], " ")
			n, err := strconv.Atoi(num)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: line %d: bad tile header %q", ErrInvalidSheet, line, text)
			}
			id = Tile(n)
			if _, dup := s.tiles[id]; dup {
				return nil, fmt.Errorf("%w: line %d: duplicate tile %d", ErrInvalidSheet, line, id)
			}
			cur = &indexed{}
			s.tiles[id] = cur
			row = 0
			continue
		}

		if cur == nil {
			return nil, fmt.Errorf("%w: line %d: pixels before tile header", ErrInvalidSheet, line)
		}
		if row >= TileSize || len(text) != TileSize {
			return nil, fmt.Errorf("%w: line %d: tile %d row is not %d pixels", ErrInvalidSheet, line, id, TileSize)
		}
		for x, c := range text {
			v, ok := pixelIndex(c)
			if !ok {
				return nil, fmt.Errorf("%w: line %d: bad pixel %q", ErrInvalidSheet, line, c)
			}
			cur[row][x] = v
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return s, nil
}

func pixelIndex(c rune) (uint8, bool) {
	switch {
	case c == '.':
		return 0, true
	case c >= '0' && c <= '9':
		return uint8(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint8(c-'a') + 10, true
	}
	return 0, false
}

// mirrored maps left-facing tiles to their right-facing source.
var mirrored = map[Tile]Tile{
	HeroLeftStill:    HeroRightStill,
	HeroLeftJump:     HeroRightJump,
	HeroLeftWalk:     HeroRightWalk,
	HeroLeftWalk + 1: HeroRightWalk + 1,
	HeroLeftWalk + 2: HeroRightWalk + 2,
}

// Has reports whether t can be drawn.
func (s *Sheet) Has(t Tile) bool {
	if src, ok := mirrored[t]; ok {
		t = src
	}
	_, ok := s.tiles[t]
	return ok
}

// Image returns tile t coloured with p.
func (s *Sheet) Image(t Tile, p Palette) (*image.NRGBA, error) {
	if src, ok := mirrored[t]; ok {
		img, err := s.Image(src, p)
		if err != nil {
			return nil, err
		}
		return imaging.FlipH(img), nil
	}

	idx, ok := s.tiles[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTile, t)
	}

	img := image.NewNRGBA(image.Rect(0, 0, TileSize, TileSize))
	for y := 0; y < TileSize; y++ {
		for x := 0; x < TileSize; x++ {
			i := idx[y][x]
			if i == 0 {
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA(p[i]))
		}
	}
	return img, nil
}

// Draw composites tile t at (x, y) onto dst, clipping at the edges.
func (s *Sheet) Draw(dst draw.Image, t Tile, p Palette, x, y int) error {
	return s.DrawGrid(dst, t, p, x, y, 1, 1)
}

// DrawGrid repeats tile t over a cols x rows block starting at (x, y).
func (s *Sheet) DrawGrid(dst draw.Image, t Tile, p Palette, x, y, cols, rows int) error {
	img, err := s.Image(t, p)
	if err != nil {
		return err
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			at := image.Pt(x+c*TileSize, y+r*TileSize)
			rect := image.Rectangle{Min: at, Max: at.Add(image.Pt(TileSize, TileSize))}
			draw.Draw(dst, rect, img, image.Point{}, draw.Over)
		}
	}
	return nil
}
