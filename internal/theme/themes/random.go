package themes

import (
	"image"
	"time"

	"github.com/nerrad567/matrix-portal-core/internal/actor"
	"github.com/nerrad567/matrix-portal-core/internal/sprite"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// rebuildEvery is how often, in frames, the random theme checks whether it
// can swap the background unseen.
const rebuildEvery = 1000

// Random is a platformer scene where the hero and a walker wander over a
// background of bricks, rocks and a pipe.
type Random struct {
	theme.Base

	hero   *actor.Actor
	walker *actor.Actor
	bg     *background
	labels *labels

	now   time.Time
	frame uint64
}

// background is one generated floor and pipe layout.
type background struct {
	brickLen     int
	brickPalette sprite.Palette
	rockPalette  sprite.Palette
	pipeX        int
	pipePalette  sprite.Palette
}

// NewRandom is the Factory for the random theme.
func NewRandom(deps theme.Deps) theme.Theme {
	return &Random{Base: theme.NewBase(NameRandom, deps)}
}

// Setup implements theme.Theme.
func (r *Random) Setup() error {
	if err := requireTiles(r.Sheet,
		sprite.Brick, sprite.Rock, sprite.Pipe,
		sprite.HeroRightStill, sprite.HeroLeftStill, sprite.HeroRightJump, sprite.HeroLeftJump,
		sprite.HeroRightWalk+2, sprite.HeroLeftWalk+2,
		sprite.WalkerStill, sprite.WalkerWalk+1,
	); err != nil {
		return err
	}

	r.walker = actor.New("walker", 24, actorY,
		actor.WithRand(r.Rand),
		actor.WithBehaviour(actor.Wander{Min: wanderMin, Max: wanderMax, RollMax: walkerRoll}),
	)
	r.hero = actor.New("hero", 0, actorY,
		actor.WithRand(r.Rand),
		actor.WithBehaviour(actor.Wander{Min: wanderMin, Max: wanderMax, RollMax: heroRoll}),
		actor.WithPhysics(actor.Gravity{Accel: gravity}),
	)
	r.labels = newLabels()
	r.now = r.Now()
	r.rebuild()
	return nil
}

// Teardown implements theme.Theme.
func (r *Random) Teardown() {
	r.hero, r.walker = nil, nil
	r.bg = nil
	r.labels = nil
	r.Base.Teardown()
}

// Tick implements theme.Theme.
func (r *Random) Tick(state theme.State, entities theme.EntityReader) {
	if r.hero == nil {
		return
	}
	r.frame = state.Frame
	r.now = state.Now

	if state.Frame%rebuildEvery == 0 && offscreen(r.hero, r.Width) && offscreen(r.walker, r.Width) {
		r.rebuild()
	}

	r.labels.tick(state, entities)

	if state.Frame%jumpEvery == 0 {
		r.hero.Jump(jumpImpulse)
	}
	r.hero.Tick()
	r.walker.Tick()
}

// OnButtonAction rebuilds the background.
func (r *Random) OnButtonAction() {
	if r.hero == nil {
		return
	}
	r.rebuild()
}

// Render implements theme.Theme.
func (r *Random) Render() *image.RGBA {
	frame := r.Canvas()
	if r.hero == nil {
		return frame
	}

	cols := r.Width / sprite.TileSize
	bg := r.bg
	_ = r.Sheet.DrawGrid(frame, sprite.Brick, bg.brickPalette, 0, floorY, bg.brickLen, 1)
	_ = r.Sheet.DrawGrid(frame, sprite.Rock, bg.rockPalette, bg.brickLen*sprite.TileSize, floorY, cols-bg.brickLen, 1)
	_ = r.Sheet.Draw(frame, sprite.Pipe, bg.pipePalette, bg.pipeX, actorY)

	_ = r.Sheet.Draw(frame, walkerTile(r.walker, r.frame), r.Palette, r.walker.X, r.walker.Y)
	_ = r.Sheet.Draw(frame, heroTile(r.hero, r.frame), r.Palette, r.hero.X, r.hero.Y)

	r.labels.draw(frame)
	return frame
}

// rebuild generates a new background for the current time.
func (r *Random) rebuild() {
	now := r.now
	if now.IsZero() {
		now = r.Now()
	}
	r.bg = newBackground(r.Rand, r.Palette, now, r.Width)
}

func newBackground(rng actor.Rand, base sprite.Palette, now time.Time, width int) *background {
	cols := width / sprite.TileSize
	bg := &background{
		brickLen:     actor.Between(rng, 1, cols-1),
		brickPalette: base,
		rockPalette:  base,
		pipePalette:  base,
	}

	hour := now.Hour()
	if hour >= 16 || hour <= 8 {
		bg.brickPalette = base.With(sprite.UndergroundBrick)
	}
	if hour >= 20 || hour <= 6 {
		bg.rockPalette = base.With(sprite.UndergroundRock)
	}

	bg.pipeX = actor.Between(rng, 0, width-sprite.TileSize)
	if o := pipeOverrides(now); o != nil {
		bg.pipePalette = base.With(o)
	}
	return bg
}

// pipeOverrides colours the pipe as a bin collection reminder from Thursday
// noon to Friday noon: blue on even weeks of the year, grey on odd ones.
func pipeOverrides(now time.Time) sprite.Overrides {
	wd, hour := now.Weekday(), now.Hour()
	if !(wd == time.Thursday && hour > 12) && !(wd == time.Friday && hour < 12) {
		return nil
	}
	if (now.YearDay()/7)%2 == 0 {
		return sprite.PipeBlue
	}
	return sprite.PipeGrey
}
