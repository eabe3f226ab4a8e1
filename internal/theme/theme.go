package theme

import (
	"image"
	"image/color"
	"time"

	"github.com/nerrad567/matrix-portal-core/internal/actor"
	"github.com/nerrad567/matrix-portal-core/internal/sprite"
)

// Entity names the themes read.
const (
	EntityPower  = "power"
	EntityLabels = "labels"
)

// Theme is a self-contained visual behaviour.
type Theme interface {
	// Name returns the registry name of the theme.
	Name() string

	// Setup builds actors and overlays. It is called on every activation.
	Setup() error

	// Teardown releases per-activation resources.
	Teardown()

	// Tick advances the theme by one frame.
	Tick(state State, entities EntityReader)

	// Render returns the frame for the last Tick. The run-time copies it
	// before presenting.
	Render() *image.RGBA

	// OnButtonAction handles the action button.
	OnButtonAction()
}

// Factory builds a theme instance from shared dependencies.
type Factory func(deps Deps) Theme

// EntityReader is the read-only entity view given to themes.
type EntityReader interface {
	IsOn(name string) bool
	Color(name string) (color.RGBA, bool)
	Brightness(name string) (uint8, bool)
}

// Deps are the shared resources a theme may use.
type Deps struct {
	Width  int
	Height int

	Sheet   *sprite.Sheet
	Palette sprite.Palette

	// Rand drives every random decision of the theme's actors.
	Rand actor.Rand

	// Now reads the run-time clock outside of Tick.
	Now func() time.Time
}

// Bounds returns the frame rectangle.
func (d Deps) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.Width, d.Height)
}

// Base supplies the defaults shared by every theme.
type Base struct {
	Deps

	name   string
	canvas *image.RGBA
}

// NewBase creates a Base for the named theme.
func NewBase(name string, deps Deps) Base {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return Base{Deps: deps, name: name}
}

// Name implements Theme.
func (b *Base) Name() string {
	return b.name
}

// Setup implements Theme.
func (b *Base) Setup() error {
	return nil
}

// Teardown implements Theme and drops the canvas.
func (b *Base) Teardown() {
	b.canvas = nil
}

// OnButtonAction implements Theme as a no-op.
func (b *Base) OnButtonAction() {}

// Canvas returns the theme's frame buffer cleared to black.
func (b *Base) Canvas() *image.RGBA {
	if b.canvas == nil || b.canvas.Bounds() != b.Bounds() {
		b.canvas = image.NewRGBA(b.Bounds())
		return b.canvas
	}
	clear(b.canvas.Pix)
	return b.canvas
}
