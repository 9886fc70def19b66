// Package geom provides 2D vector helpers for the sandbox.
//
// Vectors are [mgl64.Vec2] values in screen orientation: x grows to the
// right and y grows downwards, so angles returned by [Angle] are measured
// counter-clockwise as seen on screen.
package geom
