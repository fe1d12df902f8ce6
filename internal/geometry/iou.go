package geometry

// IntersectionOverUnion computes the ratio of overlapping area to combined
// area of two boxes.
//
// Returns:
//   - 0 for disjoint boxes or when either box is empty
//   - 1 for two identical non-empty boxes
//
// The result is symmetric: IntersectionOverUnion(a, b) == IntersectionOverUnion(b, a).
func IntersectionOverUnion(a, b Box) float64 {
	areaA := a.Area()
	areaB := b.Area()

	overlap := 0
	if areaA > 0 && areaB > 0 {
		ow := min(a.Right(), b.Right()) - max(a.X, b.X)
		oh := min(a.Bottom(), b.Bottom()) - max(a.Y, b.Y)
		if ow > 0 && oh > 0 {
			overlap = ow * oh
		}
	}

	union := areaA + areaB - overlap
	if union <= 0 {
		return 0
	}
	return float64(overlap) / float64(union)
}

// IsValidPosition reports whether candidate may be placed next to the
// already accepted boxes.
//
// The candidate is rejected as soon as its IoU against any single accepted
// box exceeds threshold, no matter how little it overlaps the others. An
// empty accepted list always yields true.
func IsValidPosition(candidate Box, accepted []Box, threshold float64) bool {
	for _, existing := range accepted {
		if IntersectionOverUnion(candidate, existing) > threshold {
			return false
		}
	}
	return true
}
