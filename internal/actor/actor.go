package actor

// Motion is the coarse movement state used to pick a tile.
type Motion int

// Motion states, in display priority order.
const (
	Idle Motion = iota
	Moving
	Airborne
)

// String returns the motion name.
func (m Motion) String() string {
	switch m {
	case Moving:
		return "moving"
	case Airborne:
		return "airborne"
	default:
		return "idle"
	}
}

// Direction is the last horizontal facing.
type Direction int

// Facing directions.
const (
	Right Direction = 1
	Left  Direction = -1
)

// Behaviour may steer an actor at the start of a tick.
type Behaviour interface {
	Decide(a *Actor)
}

// Physics adjusts an actor after velocities are computed and before they
// are applied.
type Physics interface {
	Apply(a *Actor)
}

// Actor is a movable sprite with position, velocity and an optional
// destination per axis.
//
// Actors are owned by one theme and are not safe for concurrent use.
type Actor struct {
	Name string

	X, Y         int
	XOrig, YOrig int
	VX, VY       int

	// YFloat is the sub-pixel vertical position used while airborne.
	YFloat float64

	destX, destY       int
	hasDestX, hasDestY bool

	facing   Direction
	airborne bool
	roll     int

	rng        Rand
	behaviours []Behaviour
	physics    []Physics
}

// Option configures an Actor.
type Option func(*Actor)

// WithRand injects the random source used for rolls and behaviours.
func WithRand(r Rand) Option {
	return func(a *Actor) {
		if r != nil {
			a.rng = r
		}
	}
}

// WithBehaviour appends behaviours, evaluated in order.
func WithBehaviour(b ...Behaviour) Option {
	return func(a *Actor) { a.behaviours = append(a.behaviours, b...) }
}

// WithPhysics appends physics hooks, applied in order.
func WithPhysics(p ...Physics) Option {
	return func(a *Actor) { a.physics = append(a.physics, p...) }
}

// New creates an actor at (x, y), which also becomes its origin.
func New(name string, x, y int, opts ...Option) *Actor {
	a := &Actor{
		Name:   name,
		X:      x,
		Y:      y,
		XOrig:  x,
		YOrig:  y,
		YFloat: float64(y),
		facing: Right,
		rng:    globalRand{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.roll = a.rng.IntN(RollRange)
	return a
}

// Tick advances the actor by one frame.
func (a *Actor) Tick() {
	for _, b := range a.behaviours {
		b.Decide(a)
	}

	a.VX = a.seek(a.X, &a.destX, &a.hasDestX, a.VX)
	a.VY = a.seek(a.Y, &a.destY, &a.hasDestY, a.VY)

	for _, p := range a.physics {
		p.Apply(a)
	}

	a.X += a.VX
	a.Y += a.VY
	if a.VX != 0 {
		a.facing = directionOf(a.VX)
	}

	a.settle()

	a.roll = a.rng.IntN(RollRange)
}

// seek returns the velocity for one axis.
func (a *Actor) seek(pos int, dest *int, has *bool, current int) int {
	if !*has {
		return current
	}
	if pos == *dest {
		*has = false
		return 0
	}
	if *dest > pos {
		return 1
	}
	return -1
}

// settle clears destinations reached during this tick.
func (a *Actor) settle() {
	if a.hasDestX && a.X == a.destX {
		a.hasDestX = false
		a.VX = 0
	}
	if a.hasDestY && a.Y == a.destY {
		a.hasDestY = false
		a.VY = 0
	}
}

// MoveTo sets a horizontal destination.
func (a *Actor) MoveTo(x int) {
	a.destX, a.hasDestX = x, true
}

// MoveToY sets a vertical destination.
func (a *Actor) MoveToY(y int) {
	a.destY, a.hasDestY = y, true
}

// DestinationX returns the horizontal destination, if any.
func (a *Actor) DestinationX() (int, bool) {
	return a.destX, a.hasDestX
}

// DestinationY returns the vertical destination, if any.
func (a *Actor) DestinationY() (int, bool) {
	return a.destY, a.hasDestY
}

// SetVelocity sets a free velocity. Axes with a destination override it on
// the next tick.
func (a *Actor) SetVelocity(vx, vy int) {
	a.VX, a.VY = vx, vy
}

// Stop clears velocity and destinations.
func (a *Actor) Stop() {
	a.VX, a.VY = 0, 0
	a.hasDestX, a.hasDestY = false, false
}

// Jump lifts a grounded actor by impulse pixels. It reports whether the jump
// started.
func (a *Actor) Jump(impulse float64) bool {
	if a.airborne {
		return false
	}
	a.airborne = true
	a.YFloat -= impulse
	return true
}

// Airborne reports whether the actor is mid-jump.
func (a *Actor) Airborne() bool {
	return a.airborne
}

// Land clamps the actor to its origin and clears airborne.
func (a *Actor) Land() {
	a.YFloat = float64(a.YOrig)
	a.airborne = false
}

// Roll returns the current random roll in [0, RollRange).
func (a *Actor) Roll() int {
	return a.roll
}

// Rand returns the actor's random source for behaviours.
func (a *Actor) Rand() Rand {
	return a.rng
}

// Motion derives the movement state: airborne beats moving beats idle.
func (a *Actor) Motion() Motion {
	switch {
	case a.airborne:
		return Airborne
	case a.VX != 0 || a.VY != 0:
		return Moving
	default:
		return Idle
	}
}

// Facing returns the last horizontal direction of travel.
func (a *Actor) Facing() Direction {
	return a.facing
}

// Visible reports whether a w-pixel-wide actor overlaps [0, screenW).
func (a *Actor) Visible(w, screenW int) bool {
	return a.X > -w && a.X < screenW
}

func directionOf(v int) Direction {
	if v < 0 {
		return Left
	}
	return Right
}
