// Package overlay draws the static text layers that sit on top of a theme:
// clock, calendar, titles and the boot splash.
//
// Text is set in Tiny, a 3x5 pixel face built on basicfont so that a full
// "HH:MM" fits in half of a 64 pixel wide panel. Lowercase letters share the
// uppercase glyphs.
package overlay
