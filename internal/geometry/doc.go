// Package geometry provides axis-aligned box arithmetic for object placement.
//
// Boxes use the standard image convention: (X, Y) is the top-left corner,
// X increases rightward and Y increases downward. A box covers the half-open
// pixel range [X, X+W) × [Y, Y+H).
//
// # Degenerate Boxes
//
// A box with a zero or negative width or height is treated as empty. Empty
// boxes have area 0, never overlap anything, and produce an IoU of 0 against
// every other box, including themselves.
package geometry
