// Package sprite holds the embedded pixel-art sheet used by the themes.
//
// The sheet is a plain-text file of 16x16 tiles whose pixels are palette
// indices. Tiles are coloured at draw time, so the same tile can be drawn
// with the day palette or with one of the override sets (underground floor,
// coloured pipe). Left-facing hero tiles are not stored: they are mirrored
// from the right-facing ones with imaging.FlipH.
package sprite
