package themes

import (
	"image"

	"github.com/nerrad567/matrix-portal-core/internal/actor"
	"github.com/nerrad567/matrix-portal-core/internal/sprite"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// Runner keeps the hero running in place while two floor strips, each one
// frame wide, scroll left and wrap around.
type Runner struct {
	theme.Base

	hero   *actor.Actor
	floors [2]int
	labels *labels
	frame  uint64
}

// NewRunner is the Factory for the runner theme.
func NewRunner(deps theme.Deps) theme.Theme {
	return &Runner{Base: theme.NewBase(NameRunner, deps)}
}

// Setup implements theme.Theme.
func (r *Runner) Setup() error {
	if err := requireTiles(r.Sheet, sprite.Brick, sprite.HeroRightJump, sprite.HeroRightWalk+2); err != nil {
		return err
	}
	r.hero = actor.New("hero", 8, actorY,
		actor.WithRand(r.Rand),
		actor.WithPhysics(actor.Gravity{Accel: gravity}),
	)
	r.floors = [2]int{0, r.Width}
	r.labels = newLabels()
	r.frame = 0
	return nil
}

// Teardown implements theme.Theme.
func (r *Runner) Teardown() {
	r.hero = nil
	r.labels = nil
	r.Base.Teardown()
}

// Tick implements theme.Theme.
func (r *Runner) Tick(state theme.State, entities theme.EntityReader) {
	if r.hero == nil {
		return
	}
	r.frame = state.Frame
	r.labels.tick(state, entities)

	if state.Frame%jumpEvery == 0 {
		r.hero.Jump(jumpImpulse)
	}
	r.hero.Tick()

	for i := range r.floors {
		if r.floors[i] <= -r.Width {
			r.floors[i] = r.Width
		} else {
			r.floors[i]--
		}
	}
}

// Floors returns the x offsets of the two floor strips.
func (r *Runner) Floors() [2]int {
	return r.floors
}

// Render implements theme.Theme.
func (r *Runner) Render() *image.RGBA {
	frame := r.Canvas()
	if r.hero == nil {
		return frame
	}

	cols := r.Width / sprite.TileSize
	for _, x := range r.floors {
		_ = r.Sheet.DrawGrid(frame, sprite.Brick, r.Palette, x, floorY, cols, 1)
	}

	_ = r.Sheet.Draw(frame, r.heroTile(), r.Palette, r.hero.X, r.hero.Y)
	r.labels.draw(frame)
	return frame
}

// heroTile is always a right-facing jump or walk: the hero runs in place.
func (r *Runner) heroTile() sprite.Tile {
	if r.hero.Airborne() {
		return sprite.HeroRightJump
	}
	return sprite.HeroRightWalk + sprite.Tile(r.frame/heroFrameTicks%sprite.HeroWalkFrames)
}
