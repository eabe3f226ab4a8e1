// Package themes contains the concrete themes and the name lookup used by
// configuration.
//
//   - simple: clock and calendar only
//   - runner: the hero runs over an endlessly scrolling floor
//   - random: hero and walker wander over a background that is rebuilt on
//     the action button and periodically while both are off screen
//   - gradius: a ship drifts up and down over a starfield
package themes
