package themes

import (
	"image"
	"image/color"

	"github.com/nerrad567/matrix-portal-core/internal/actor"
	"github.com/nerrad567/matrix-portal-core/internal/overlay"
	"github.com/nerrad567/matrix-portal-core/internal/sprite"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

const (
	starCount = 24
	shipRoll  = 5
	shipX     = 4
)

var (
	titleColor = sprite.RGB(0x111111)
	starColors = [...]color.RGBA{sprite.RGB(0x222222), sprite.RGB(0x555555)}
)

// Gradius drifts a ship up and down over a scrolling starfield.
type Gradius struct {
	theme.Base

	ship  *actor.Actor
	stars []star
	title *overlay.Label
}

type star struct {
	x, y  int
	speed int
}

// NewGradius is the Factory for the gradius theme.
func NewGradius(deps theme.Deps) theme.Theme {
	return &Gradius{Base: theme.NewBase(NameGradius, deps)}
}

// Setup implements theme.Theme.
func (g *Gradius) Setup() error {
	if err := requireTiles(g.Sheet, sprite.Ship); err != nil {
		return err
	}

	top := g.Height - sprite.TileSize
	g.ship = actor.New("ship", shipX, top/2,
		actor.WithRand(g.Rand),
		actor.WithBehaviour(actor.Wander{Axis: actor.Vertical, Min: 0, Max: top, RollMax: shipRoll}),
	)

	g.stars = make([]star, starCount)
	for i := range g.stars {
		g.stars[i] = star{
			x:     actor.Between(g.Rand, 0, g.Width-1),
			y:     actor.Between(g.Rand, 0, g.Height-1),
			speed: actor.Between(g.Rand, 1, len(starColors)),
		}
	}

	g.title = overlay.NewLabel(10, 10, "GRADIUS", titleColor)
	return nil
}

// Teardown implements theme.Theme.
func (g *Gradius) Teardown() {
	g.ship = nil
	g.stars = nil
	g.title = nil
	g.Base.Teardown()
}

// Tick implements theme.Theme.
func (g *Gradius) Tick(_ theme.State, _ theme.EntityReader) {
	if g.ship == nil {
		return
	}
	for i := range g.stars {
		s := &g.stars[i]
		s.x -= s.speed
		if s.x < 0 {
			s.x = g.Width - 1
			s.y = actor.Between(g.Rand, 0, g.Height-1)
		}
	}
	g.ship.Tick()
}

// Render implements theme.Theme.
func (g *Gradius) Render() *image.RGBA {
	frame := g.Canvas()
	if g.ship == nil {
		return frame
	}
	for _, s := range g.stars {
		frame.SetRGBA(s.x, s.y, starColors[s.speed-1])
	}
	g.title.Draw(frame)
	_ = g.Sheet.Draw(frame, sprite.Ship, g.Palette, g.ship.X, g.ship.Y)
	return frame
}
