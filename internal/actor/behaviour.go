package actor

// Axis selects the axis a behaviour steers.
type Axis int

// Axes.
const (
	Horizontal Axis = iota
	Vertical
)

// Wander picks a random destination in [Min, Max] when the roll is in
// [0, RollMax].
type Wander struct {
	Axis    Axis
	Min     int
	Max     int
	RollMax int
}

// Decide implements Behaviour.
func (w Wander) Decide(a *Actor) {
	if a.roll < 0 || a.roll > w.RollMax {
		return
	}
	target := Between(a.rng, w.Min, w.Max)
	if w.Axis == Vertical {
		a.MoveToY(target)
		return
	}
	a.MoveTo(target)
}

// Gravity pulls an airborne actor back to its vertical origin.
type Gravity struct {
	Accel float64
}

// Apply implements Physics. It accumulates Accel into YFloat while airborne,
// clamps to the origin on contact and drives Y from YFloat.
func (g Gravity) Apply(a *Actor) {
	if a.airborne {
		a.YFloat += g.Accel
		if a.YFloat >= float64(a.YOrig) {
			a.Land()
		}
	}
	a.Y = int(a.YFloat)
}
