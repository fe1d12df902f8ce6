// Package layout implements the constrained random layout engine used to
// build synthetic detection samples.
//
// PlaceElements takes a fixed canvas size and an ordered list of elements and
// tries to place each one at a random scale and position such that its IoU
// against every box accepted so far stays at or below a threshold. Every
// element gets at most MaxAttempts tries; an element that never fits is
// dropped from the sample and the engine moves on.
//
// # Determinism
//
// All randomness comes from the *rand.Rand passed by the caller. Given the
// same seed, canvas size and element list, PlaceElements returns the same
// boxes in the same order. Elements must draw from the provided source only
// (never from global randomness) for this to hold.
//
// # Records
//
// Every accepted element yields a Record: the YOLO detection line for the
// box, normalized by the canvas dimensions.
package layout
