package geom

import "image"

// Area returns the pixel area of r, zero for empty rectangles.
func Area(r image.Rectangle) int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// OverlapRatio returns the intersection area of a and b divided by the area
// of the smaller rectangle. Disjoint or degenerate inputs yield 0.
func OverlapRatio(a, b image.Rectangle) float64 {
	inter := Area(a.Intersect(b))
	if inter == 0 {
		return 0
	}
	smaller := Area(a)
	if bArea := Area(b); bArea < smaller {
		smaller = bArea
	}
	if smaller == 0 {
		return 0
	}
	return float64(inter) / float64(smaller)
}

// Overlaps reports whether a and b share a non-empty intersection whose area
// is at least minOverlap of the smaller rectangle. A minOverlap of zero (or
// less) accepts any non-zero intersection.
func Overlaps(a, b image.Rectangle, minOverlap float64) bool {
	if Area(a.Intersect(b)) == 0 {
		return false
	}
	if minOverlap <= 0 {
		return true
	}
	return OverlapRatio(a, b) >= minOverlap
}

// Difference returns the rectangles of a that do not overlap any rectangle of
// b. The relative order of a is preserved and neither input is modified.
func Difference(a, b []image.Rectangle, minOverlap float64) []image.Rectangle {
	if a == nil {
		return nil
	}
	out := make([]image.Rectangle, 0, len(a))
	for _, ra := range a {
		excluded := false
		for _, rb := range b {
			if Overlaps(ra, rb, minOverlap) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, ra)
		}
	}
	return out
}
