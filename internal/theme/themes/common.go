package themes

import (
	"fmt"

	"golang.org/x/image/draw"

	"github.com/nerrad567/matrix-portal-core/internal/actor"
	"github.com/nerrad567/matrix-portal-core/internal/overlay"
	"github.com/nerrad567/matrix-portal-core/internal/sprite"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
)

// Kinematic constants shared by the platformer themes.
const (
	gravity     = 0.75
	jumpImpulse = 10
	jumpEvery   = 800

	heroRoll   = 3
	walkerRoll = 5
	wanderMin  = -32
	wanderMax  = 96

	heroFrameTicks   = 4
	walkerFrameTicks = 8

	floorY = 24
	actorY = 8
)

// heroTile picks the hero tile: airborne beats moving beats idle.
func heroTile(a *actor.Actor, frame uint64) sprite.Tile {
	step := sprite.Tile(frame / heroFrameTicks % sprite.HeroWalkFrames)
	right := a.Facing() == actor.Right

	switch a.Motion() {
	case actor.Airborne:
		if right {
			return sprite.HeroRightJump
		}
		return sprite.HeroLeftJump
	case actor.Moving:
		if right {
			return sprite.HeroRightWalk + step
		}
		return sprite.HeroLeftWalk + step
	default:
		if right {
			return sprite.HeroRightStill
		}
		return sprite.HeroLeftStill
	}
}

// walkerTile picks the walker tile.
func walkerTile(a *actor.Actor, frame uint64) sprite.Tile {
	if a.Motion() == actor.Idle {
		return sprite.WalkerStill
	}
	return sprite.WalkerWalk + sprite.Tile(frame/walkerFrameTicks%sprite.WalkerWalkFrames)
}

// labels is the clock and calendar pair drawn by most themes.
type labels struct {
	clock    *overlay.TimeLabel
	calendar *overlay.TimeLabel
}

func newLabels() *labels {
	return &labels{
		clock:    overlay.NewClock(33, 2),
		calendar: overlay.NewCalendar(0, 2),
	}
}

func (l *labels) tick(state theme.State, entities theme.EntityReader) {
	clockStyle, calendarStyle := theme.LabelStyles(state, entities)
	l.clock.Tick(state.Now, clockStyle)
	l.calendar.Tick(state.Now, calendarStyle)
}

func (l *labels) draw(dst draw.Image) {
	l.clock.Draw(dst)
	l.calendar.Draw(dst)
}

// requireTiles fails when the sheet cannot draw every tile a theme uses, so
// Render can ignore per-tile errors.
func requireTiles(sheet *sprite.Sheet, tiles ...sprite.Tile) error {
	if sheet == nil {
		return fmt.Errorf("%w: no sprite sheet", sprite.ErrUnknownTile)
	}
	for _, t := range tiles {
		if !sheet.Has(t) {
			return fmt.Errorf("%w: %d", sprite.ErrUnknownTile, t)
		}
	}
	return nil
}

// offscreen reports whether a tile-wide actor is entirely outside the frame.
func offscreen(a *actor.Actor, width int) bool {
	return a.X <= -sprite.TileSize || a.X >= width
}
