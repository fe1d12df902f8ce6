// Package imaging provides the pixel-level operations used by the dataset
// preparation jobs.
//
// This package wraps disintegration/imaging and anthonynsimon/bild with the
// operations the jobs need: cached decoding of source images, solid-color
// canvases and compositing, the augmentation pipeline applied to catalog
// images, grayscale thresholding for binarization, margin trimming,
// annotation overlays for visual QA, and encoding to disk. All operations work
// with standard Go image.Image types and use a coordinate system where (0,0)
// is at the top-left corner, X increases rightward, and Y increases downward.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Cached images are shared
// between callers and must be treated as read-only; every transform in this
// package returns a new image instead of modifying its input.
//
// # Randomness
//
// The Augmenter draws every random decision from the *rand.Rand passed to
// Apply. Two calls with identically seeded sources produce identical pixels,
// which keeps synthetic datasets reproducible.
//
// # Color Representation
//
// Palette entries are given as hex strings ("#RRGGBB") and parsed with
// go-colorful. Canvases and overlays are *image.NRGBA.
//
// # Error Handling
//
// Functions return wrapped errors for:
//   - File I/O errors during image loading or saving
//   - Decode failures for corrupt or unsupported files
//   - Invalid palette entries or unknown threshold methods
package imaging
