// Package actor implements the kinematic model shared by every animated
// sprite.
//
// Each Tick runs, in order:
//
//  1. behaviours, which may pick a new destination when the actor's roll
//     falls in their sub-range
//  2. per-axis velocity: sign(destination - position), or zero when there is
//     no destination or the actor is already on it (exact equality)
//  3. physics hooks such as Gravity
//  4. velocity applied to position
//  5. a fresh roll in [0, RollRange) from the injected random source
//
// An axis that reaches its destination during step 4 settles in the same
// tick: its velocity drops to zero and the destination is cleared.
//
// What a theme draws is derived from Motion and Facing; the actor stores no
// tile index of its own.
package actor
